// Package router dry-runs swap legs through venue router contracts.
package router

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	arbapp "github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	blockchainapp "github.com/fd1az/amm-arb-bot/business/blockchain/app"
	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

const (
	tracerName = "router"
	meterName  = "router"
)

// Ensure Simulator implements SwapSimulator.
var _ arbapp.SwapSimulator = (*Simulator)(nil)

// Retry policy for transient RPC faults. Reverts never retry.
const (
	maxAttempts = 3
	retryDelay  = 200 * time.Millisecond
)

// deadlineSlack pads the swap deadline far enough that the dry run never
// trips on it.
const deadlineSlack = 5 * time.Minute

// clRouterABI is the concentrated-liquidity swap entrypoint.
const clRouterABI = `[
	{
		"inputs": [
			{
				"components": [
					{"internalType": "address", "name": "tokenIn", "type": "address"},
					{"internalType": "address", "name": "tokenOut", "type": "address"},
					{"internalType": "uint24", "name": "fee", "type": "uint24"},
					{"internalType": "address", "name": "recipient", "type": "address"},
					{"internalType": "uint256", "name": "deadline", "type": "uint256"},
					{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
					{"internalType": "uint256", "name": "amountOutMinimum", "type": "uint256"},
					{"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
				],
				"internalType": "struct ISwapRouter.ExactInputSingleParams",
				"name": "params",
				"type": "tuple"
			}
		],
		"name": "exactInputSingle",
		"outputs": [{"internalType": "uint256", "name": "amountOut", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// cpRouterABI is the constant-product swap entrypoint.
const cpRouterABI = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"},
			{"internalType": "address", "name": "to", "type": "address"},
			{"internalType": "uint256", "name": "deadline", "type": "uint256"}
		],
		"name": "swapExactTokensForTokens",
		"outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// exactInputSingleParams mirrors the router's tuple argument.
type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// simulatorMetrics holds OTEL metric instruments.
type simulatorMetrics struct {
	simsTotal  metric.Int64Counter
	simLatency metric.Float64Histogram
	simReverts metric.Int64Counter
}

// Simulator runs each swap leg as a read-only router call from the
// executor's address, so the output reflects everything the real trade
// would hit: pool fees, transfer taxes, and outright reverts.
type Simulator struct {
	caller   blockchainapp.ChainReader
	executor common.Address
	clABI    abi.ABI
	cpABI    abi.ABI
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *simulatorMetrics
}

// NewSimulator creates a Simulator calling from the executor address.
func NewSimulator(caller blockchainapp.ChainReader, executor common.Address, log logger.LoggerInterface) (*Simulator, error) {
	clABI, err := abi.JSON(strings.NewReader(clRouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CL router ABI: %w", err)
	}
	cpABI, err := abi.JSON(strings.NewReader(cpRouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CP router ABI: %w", err)
	}

	s := &Simulator{
		caller:   caller,
		executor: executor,
		clABI:    clABI,
		cpABI:    cpABI,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return s, nil
}

func (s *Simulator) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &simulatorMetrics{}

	s.metrics.simsTotal, err = meter.Int64Counter(
		"router_simulations_total",
		metric.WithDescription("Total swap simulations"),
	)
	if err != nil {
		return err
	}

	s.metrics.simLatency, err = meter.Float64Histogram(
		"router_simulation_latency_ms",
		metric.WithDescription("Swap simulation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	s.metrics.simReverts, err = meter.Int64Counter(
		"router_simulation_reverts_total",
		metric.WithDescription("Swap simulations that reverted"),
	)
	return err
}

// Simulate dry-runs one leg and returns the output amount. Transient RPC
// faults retry up to three times; reverts fail immediately.
func (s *Simulator) Simulate(ctx context.Context, pool *pricing.Pool, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (asset.Amount, error) {
	ctx, span := s.tracer.Start(ctx, "router.simulate",
		trace.WithAttributes(
			attribute.String("venue", pool.Venue.Name),
			attribute.String("token_in", tokenIn.Symbol()),
			attribute.String("token_out", tokenOut.Symbol()),
			attribute.String("amount_in", amountIn.Raw().String()),
		),
	)
	defer span.End()

	start := time.Now()
	s.metrics.simsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", pool.Venue.Name)))

	callData, err := s.packSwap(pool, tokenIn, tokenOut, amountIn.Raw())
	if err != nil {
		return asset.Amount{}, fmt.Errorf("failed to encode swap: %w", err)
	}

	router := pool.Venue.Router
	msg := ethereum.CallMsg{
		From: s.executor,
		To:   &router,
		Data: callData,
	}

	var result []byte
	for attempt := 1; ; attempt++ {
		result, err = s.caller.CallContract(ctx, msg, nil)
		if err == nil {
			break
		}
		if isRevert(err) {
			s.metrics.simReverts.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", pool.Venue.Name)))
			span.SetStatus(codes.Error, "reverted")
			return asset.Amount{}, apperror.New(apperror.CodeSimulationReverted,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("%s -> %s on %s", tokenIn.Symbol(), tokenOut.Symbol(), pool.Venue.Name)),
			)
		}
		if attempt >= maxAttempts {
			span.SetStatus(codes.Error, "rpc exhausted")
			return asset.Amount{}, apperror.Wrap(err, apperror.CodeRPCError, "swap simulation call failed")
		}
		s.logger.Debug(ctx, "simulation retry", "venue", pool.Venue.Name, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return asset.Amount{}, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	out, err := s.unpackSwap(pool, result)
	if err != nil {
		span.SetStatus(codes.Error, "undecodable")
		return asset.Amount{}, apperror.New(apperror.CodeSimulationDecode,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("router answer on %s", pool.Venue.Name)),
		)
	}

	s.metrics.simLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	span.SetAttributes(attribute.String("amount_out", out.String()))
	span.SetStatus(codes.Ok, "simulated")
	return asset.NewAmount(tokenOut, out), nil
}

func (s *Simulator) packSwap(pool *pricing.Pool, tokenIn, tokenOut *asset.Asset, amountIn *big.Int) ([]byte, error) {
	deadline := big.NewInt(time.Now().Add(deadlineSlack).Unix())

	if pool.Venue.Family == pricing.FamilyConcentratedLiquidity {
		return s.clABI.Pack("exactInputSingle", exactInputSingleParams{
			TokenIn:           tokenIn.Address(),
			TokenOut:          tokenOut.Address(),
			Fee:               big.NewInt(int64(pool.FeeTier)),
			Recipient:         s.executor,
			Deadline:          deadline,
			AmountIn:          amountIn,
			AmountOutMinimum:  big.NewInt(0),
			SqrtPriceLimitX96: big.NewInt(0),
		})
	}

	path := []common.Address{tokenIn.Address(), tokenOut.Address()}
	return s.cpABI.Pack("swapExactTokensForTokens", amountIn, big.NewInt(0), path, s.executor, deadline)
}

func (s *Simulator) unpackSwap(pool *pricing.Pool, result []byte) (*big.Int, error) {
	if pool.Venue.Family == pricing.FamilyConcentratedLiquidity {
		outputs, err := s.clABI.Unpack("exactInputSingle", result)
		if err != nil {
			return nil, err
		}
		if len(outputs) == 0 {
			return nil, fmt.Errorf("empty router answer")
		}
		out, ok := outputs[0].(*big.Int)
		if !ok {
			return nil, fmt.Errorf("unexpected amountOut type %T", outputs[0])
		}
		return out, nil
	}

	outputs, err := s.cpABI.Unpack("swapExactTokensForTokens", result)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("empty router answer")
	}
	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, fmt.Errorf("unexpected amounts type %T", outputs[0])
	}
	return amounts[len(amounts)-1], nil
}

// isRevert distinguishes a contract revert from endpoint trouble.
func isRevert(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "revert") ||
		strings.Contains(msg, "vm execution error")
}
