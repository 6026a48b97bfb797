package apperror

// messages maps error codes to their default human-readable messages.
var messages = map[Code]string{
	CodeRequiredField:   "a required field is missing",
	CodeInvalidInput:    "the provided input is invalid",
	CodeInvalidState:    "the operation is not valid in the current state",
	CodeNotFound:        "the requested resource was not found",
	CodeValidationError: "validation failed",

	CodeConfigInvalid: "the configuration is invalid",

	CodeExternalServiceError: "an external service returned an error",
	CodeServiceTimeout:       "the operation timed out",
	CodeRateLimitExceeded:    "rate limit exceeded",

	CodeInternalError: "an internal error occurred",
	CodeUnknownError:  "an unknown error occurred",

	CodeRPCConnectionFailed: "could not connect to the RPC endpoint",
	CodeRPCError:            "the RPC endpoint returned an error",
	CodeRPCTimeout:          "the RPC call timed out",
	CodeContractCallFailed:  "the contract call failed",

	CodePriceUnavailable:      "no price could be derived for the pool",
	CodePoolNotFound:          "no pool exists for the token pair",
	CodePoolStateMalformed:    "the pool returned malformed state",
	CodeTokenResolutionFailed: "token metadata could not be resolved",

	CodeSimulationReverted: "the swap simulation reverted",
	CodeSimulationDecode:   "the swap simulation result could not be decoded",

	CodeGasDataUnavailable: "fee history is unavailable",
	CodeDataCostProbeError: "the data-publishing cost probe failed",

	CodeInsufficientLiquidity: "the pool has insufficient liquidity",
	CodeInvalidTradeSize:      "the trade size is invalid",

	CodeCircuitOpen: "the circuit breaker is open",
}
