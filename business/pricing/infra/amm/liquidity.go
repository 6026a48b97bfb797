package amm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/amm-arb-bot/business/pricing/app"
	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// Ensure BalanceReader implements LiquidityReader.
var _ app.LiquidityReader = (*BalanceReader)(nil)

// BalanceReader measures pool liquidity as the pool contract's ERC20
// balance of the token in question. A coarse proxy, but cheap and uniform
// across AMM families.
type BalanceReader struct {
	client ContractCaller
	erc20  abi.ABI
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewBalanceReader creates a BalanceReader.
func NewBalanceReader(client ContractCaller, log logger.LoggerInterface) (*BalanceReader, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	return &BalanceReader{
		client: client,
		erc20:  parsed,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// PoolBalance returns the pool's holdings of the given token.
func (b *BalanceReader) PoolBalance(ctx context.Context, pool *domain.Pool, token *asset.Asset) (asset.Amount, error) {
	ctx, span := b.tracer.Start(ctx, "amm.pool_balance",
		trace.WithAttributes(
			attribute.String("pool", pool.Address.Hex()),
			attribute.String("token", token.Symbol()),
		),
	)
	defer span.End()

	callData, err := b.erc20.Pack("balanceOf", pool.Address)
	if err != nil {
		return asset.Amount{}, fmt.Errorf("failed to encode balanceOf: %w", err)
	}

	tokenAddr := token.Address()
	result, err := b.client.CallContract(ctx, ethereum.CallMsg{
		To:   &tokenAddr,
		Data: callData,
	}, nil)
	if err != nil {
		span.SetStatus(codes.Error, "balanceOf failed")
		return asset.Amount{}, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("balanceOf(%s) on %s", pool.Address.Hex(), token.Symbol())),
		)
	}

	outputs, err := b.erc20.Unpack("balanceOf", result)
	if err != nil || len(outputs) == 0 {
		span.SetStatus(codes.Error, "balanceOf undecodable")
		return asset.Amount{}, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext("balanceOf returned undecodable data"),
		)
	}
	balance, ok := outputs[0].(*big.Int)
	if !ok {
		return asset.Amount{}, fmt.Errorf("unexpected balanceOf type %T", outputs[0])
	}

	span.SetAttributes(attribute.String("balance", balance.String()))
	span.SetStatus(codes.Ok, "balance read")
	return asset.NewAmount(token, balance), nil
}
