package executor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	arbapp "github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

const tracerName = "executor"

// Ensure ContractExecutor implements the port.
var _ arbapp.Executor = (*ContractExecutor)(nil)

// executorABI is the on-chain executor contract's entrypoint. The
// contract flash-borrows the base amount, runs both legs, and reverts
// unless at least minBaseOut comes back.
const executorABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "sellRouter", "type": "address"},
			{"internalType": "address", "name": "buyRouter", "type": "address"},
			{"internalType": "address", "name": "baseToken", "type": "address"},
			{"internalType": "address", "name": "quoteToken", "type": "address"},
			{"internalType": "uint24", "name": "sellFee", "type": "uint24"},
			{"internalType": "uint24", "name": "buyFee", "type": "uint24"},
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "uint256", "name": "minBaseOut", "type": "uint256"}
		],
		"name": "executeArbitrage",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// ContractExecutor signs and sends the arbitrage transaction to the
// executor contract using the gas bid the profit math was judged with.
type ContractExecutor struct {
	client   *ethclient.Client
	contract common.Address
	key      *ecdsa.PrivateKey
	sender   common.Address
	chainID  *big.Int
	abi      abi.ABI
	logger   logger.LoggerInterface
	tracer   trace.Tracer
}

// NewContractExecutor creates a ContractExecutor from a hex private key.
func NewContractExecutor(client *ethclient.Client, contract common.Address, privateKeyHex string, chainID uint64, log logger.LoggerInterface) (*ContractExecutor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid executor private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(executorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse executor ABI: %w", err)
	}

	return &ContractExecutor{
		client:   client,
		contract: contract,
		key:      key,
		sender:   crypto.PubkeyToAddress(key.PublicKey),
		chainID:  new(big.Int).SetUint64(chainID),
		abi:      parsed,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}, nil
}

// Sender returns the signing address.
func (e *ContractExecutor) Sender() common.Address {
	return e.sender
}

// Execute signs and broadcasts the plan. The bid from the evaluation is
// used verbatim so the sent transaction matches the profit math.
func (e *ContractExecutor) Execute(ctx context.Context, plan *domain.ExecutionPlan) error {
	ctx, span := e.tracer.Start(ctx, "executor.execute",
		trace.WithAttributes(
			attribute.String("pair", plan.Pair.Name),
			attribute.String("amount_base", plan.AmountBase.Raw().String()),
		),
	)
	defer span.End()

	callData, err := e.abi.Pack("executeArbitrage",
		plan.Sell.Venue.Router,
		plan.Buy.Venue.Router,
		plan.Pair.Base.Address(),
		plan.Pair.Quote.Address(),
		big.NewInt(int64(plan.Sell.FeeTier)),
		big.NewInt(int64(plan.Buy.FeeTier)),
		plan.AmountBase.Raw(),
		plan.MinBaseOut.Raw(),
	)
	if err != nil {
		return fmt.Errorf("failed to encode arbitrage call: %w", err)
	}

	nonce, err := e.client.PendingNonceAt(ctx, e.sender)
	if err != nil {
		span.SetStatus(codes.Error, "nonce fetch failed")
		return apperror.Wrap(err, apperror.CodeRPCError, "failed to fetch nonce")
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   e.chainID,
		Nonce:     nonce,
		GasTipCap: plan.Tip,
		GasFeeCap: plan.MaxFee,
		Gas:       plan.GasLimit,
		To:        &e.contract,
		Data:      callData,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(e.chainID), e.key)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := e.client.SendTransaction(ctx, signed); err != nil {
		span.SetStatus(codes.Error, "broadcast failed")
		return apperror.Wrap(err, apperror.CodeRPCError, "failed to broadcast arbitrage transaction")
	}

	e.logger.Info(ctx, "arbitrage transaction sent",
		"pair", plan.Pair.Name,
		"tx", signed.Hash().Hex(),
		"nonce", nonce,
		"tip_wei", plan.Tip.String(),
		"max_fee_wei", plan.MaxFee.String(),
	)
	span.SetAttributes(attribute.String("tx", signed.Hash().Hex()))
	span.SetStatus(codes.Ok, "sent")
	return nil
}
