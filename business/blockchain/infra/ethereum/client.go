// Package ethereum implements the blockchain ports over go-ethereum's RPC
// client.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/amm-arb-bot/business/blockchain/app"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/circuitbreaker"
	"github.com/fd1az/amm-arb-bot/internal/logger"
	"github.com/fd1az/amm-arb-bot/internal/ratelimit"
)

const (
	tracerName = "ethereum"
	meterName  = "ethereum"
)

// Ensure Client implements ChainReader.
var _ app.ChainReader = (*Client)(nil)

// ClientConfig holds the per-call limits applied to every RPC.
type ClientConfig struct {
	CallTimeout       time.Duration
	RequestsPerSecond float64
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		CallTimeout:       15 * time.Second,
		RequestsPerSecond: 20,
	}
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	callsTotal  metric.Int64Counter
	callLatency metric.Float64Histogram
	callErrors  metric.Int64Counter
}

// Client wraps an eth client with a rate limiter, per-call timeouts, and a
// circuit breaker so one flaky endpoint cannot stall the polling loop.
type Client struct {
	eth    *ethclient.Client
	cfg    ClientConfig
	limit  *ratelimit.Limiter
	cb     *circuitbreaker.CircuitBreaker[any]
	logger logger.LoggerInterface

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates a Client over an already dialed eth client.
func NewClient(eth *ethclient.Client, cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	c := &Client{
		eth:    eth,
		cfg:    cfg,
		limit:  ratelimit.New(cfg.RequestsPerSecond),
		cb:     circuitbreaker.New[any](circuitbreaker.DefaultConfig("eth-rpc")),
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.callsTotal, err = meter.Int64Counter(
		"eth_rpc_calls_total",
		metric.WithDescription("Total RPC calls"),
	)
	if err != nil {
		return err
	}

	c.metrics.callLatency, err = meter.Float64Histogram(
		"eth_rpc_latency_ms",
		metric.WithDescription("RPC call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	c.metrics.callErrors, err = meter.Int64Counter(
		"eth_rpc_errors_total",
		metric.WithDescription("Total RPC call errors"),
	)
	return err
}

// do runs one RPC behind the limiter, timeout, and breaker.
func (c *Client) do(ctx context.Context, method string, fn func(ctx context.Context) (any, error)) (any, error) {
	ctx, span := c.tracer.Start(ctx, "eth."+method)
	defer span.End()

	if err := c.limit.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	c.metrics.callsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		return fn(callCtx)
	})

	c.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("method", method)))

	if err != nil {
		c.metrics.callErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
		span.SetStatus(codes.Error, "call failed")
		if apperror.IsCode(err, apperror.CodeCircuitOpen) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeRPCError,
			apperror.WithCause(err),
			apperror.WithContext(method),
		)
	}

	span.SetStatus(codes.Ok, "ok")
	return result, nil
}

// BlockNumber returns the current head.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	v, err := c.do(ctx, "block_number", func(ctx context.Context) (any, error) {
		return c.eth.BlockNumber(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

// FilterLogs fetches logs matching the query.
func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	v, err := c.do(ctx, "get_logs", func(ctx context.Context) (any, error) {
		return c.eth.FilterLogs(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.Log), nil
}

// CallContract executes a read-only call.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	v, err := c.do(ctx, "call", func(ctx context.Context) (any, error) {
		return c.eth.CallContract(ctx, msg, blockNumber)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// FeeHistory fetches base fees and reward percentiles.
func (c *Client) FeeHistory(ctx context.Context, blockCount uint64, lastBlock *big.Int, rewardPercentiles []float64) (*ethereum.FeeHistory, error) {
	v, err := c.do(ctx, "fee_history", func(ctx context.Context) (any, error) {
		return c.eth.FeeHistory(ctx, blockCount, lastBlock, rewardPercentiles)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ethereum.FeeHistory), nil
}

// SuggestGasPrice returns the node's legacy suggestion.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	v, err := c.do(ctx, "gas_price", func(ctx context.Context) (any, error) {
		return c.eth.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*big.Int), nil
}

// BalanceAt returns the native balance at the latest block.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	v, err := c.do(ctx, "get_balance", func(ctx context.Context) (any, error) {
		return c.eth.BalanceAt(ctx, account, nil)
	})
	if err != nil {
		return nil, err
	}
	return v.(*big.Int), nil
}

// CodeAt returns the bytecode deployed at an address.
func (c *Client) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	v, err := c.do(ctx, "get_code", func(ctx context.Context) (any, error) {
		return c.eth.CodeAt(ctx, account, nil)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
