package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigInvalid Code = "CONFIG_INVALID"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Domain-specific error codes
const (
	// Chain access
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"
	CodeRPCTimeout          Code = "RPC_TIMEOUT"
	CodeContractCallFailed  Code = "CONTRACT_CALL_FAILED"

	// Price derivation
	CodePriceUnavailable      Code = "PRICE_UNAVAILABLE"
	CodePoolNotFound          Code = "POOL_NOT_FOUND"
	CodePoolStateMalformed    Code = "POOL_STATE_MALFORMED"
	CodeTokenResolutionFailed Code = "TOKEN_RESOLUTION_FAILED"

	// Simulation
	CodeSimulationReverted Code = "SIMULATION_REVERTED"
	CodeSimulationDecode   Code = "SIMULATION_DECODE_FAILED"

	// Gas estimation
	CodeGasDataUnavailable Code = "GAS_DATA_UNAVAILABLE"
	CodeDataCostProbeError Code = "DATA_COST_PROBE_ERROR"

	// Sizing
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeInvalidTradeSize      Code = "INVALID_TRADE_SIZE"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
