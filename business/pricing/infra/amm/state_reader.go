package amm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/amm-arb-bot/business/pricing/app"
	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/circuitbreaker"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

const (
	tracerName = "amm"
	meterName  = "amm"
)

// Ensure StateReader implements PoolStateReader.
var _ app.PoolStateReader = (*StateReader)(nil)

// ContractCaller is the slice of the eth client the adapters need.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// readerMetrics holds OTEL metric instruments.
type readerMetrics struct {
	readsTotal  metric.Int64Counter
	readLatency metric.Float64Histogram
	readErrors  metric.Int64Counter
}

// probes are the three getter shapes in canonical order. A pool answers
// exactly one of them; whichever answers decides the snapshot family.
var probes = []struct {
	method string
	decode func([]any) (*domain.PoolState, error)
}{
	{"slot0", decodeSqrtPrice},
	{"globalState", decodeSqrtPrice},
	{"getReserves", decodeReserves},
}

// StateReader reads pool pricing state by probing slot0, globalState, and
// getReserves. The getter that answered is remembered per pool, so after
// the first read every snapshot costs a single call.
type StateReader struct {
	client  ContractCaller
	poolABI abi.ABI

	mu        sync.RWMutex
	probeHint map[common.Address]int

	logger  logger.LoggerInterface
	cb      *circuitbreaker.CircuitBreaker[*domain.PoolState]
	tracer  trace.Tracer
	metrics *readerMetrics
}

// NewStateReader creates a StateReader over the given contract caller.
func NewStateReader(client ContractCaller, log logger.LoggerInterface) (*StateReader, error) {
	parsedABI, err := abi.JSON(strings.NewReader(PoolABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	r := &StateReader{
		client:    client,
		poolABI:   parsedABI,
		probeHint: make(map[common.Address]int),
		logger:    log,
		cb:        circuitbreaker.New[*domain.PoolState](circuitbreaker.DefaultConfig("amm-state-reader")),
		tracer:    otel.Tracer(tracerName),
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return r, nil
}

func (r *StateReader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.readsTotal, err = meter.Int64Counter(
		"amm_state_reads_total",
		metric.WithDescription("Total pool state reads"),
	)
	if err != nil {
		return err
	}

	r.metrics.readLatency, err = meter.Float64Histogram(
		"amm_state_read_latency_ms",
		metric.WithDescription("Pool state read latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	r.metrics.readErrors, err = meter.Int64Counter(
		"amm_state_read_errors_total",
		metric.WithDescription("Total pool state read errors"),
	)
	return err
}

// ReadState probes the pool and returns a fresh snapshot. The breaker
// wraps the whole probe sequence: a miss on the way to the right getter is
// normal operation, only a pool answering none of the three counts as a
// failure.
func (r *StateReader) ReadState(ctx context.Context, pool *domain.Pool) (*domain.PoolState, error) {
	ctx, span := r.tracer.Start(ctx, "amm.read_state",
		trace.WithAttributes(
			attribute.String("venue", pool.Venue.Name),
			attribute.String("pool", pool.Address.Hex()),
		),
	)
	defer span.End()

	start := time.Now()
	r.metrics.readsTotal.Add(ctx, 1)

	state, err := r.cb.Execute(func() (*domain.PoolState, error) {
		return r.probeAll(ctx, pool, span)
	})
	if err != nil {
		r.metrics.readErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "all probes failed")
		if apperror.IsCode(err, apperror.CodeCircuitOpen) {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("pool %s answered none of slot0/globalState/getReserves", pool.Address.Hex())),
		)
	}

	r.metrics.readLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	span.SetStatus(codes.Ok, "state read")
	return state, nil
}

// probeAll tries the getters in order, known getter first, and returns the
// last failure when none answers.
func (r *StateReader) probeAll(ctx context.Context, pool *domain.Pool, span trace.Span) (*domain.PoolState, error) {
	var lastErr error
	for _, idx := range r.probeOrder(pool.Address) {
		probe := probes[idx]
		state, err := r.call(ctx, pool, probe.method, probe.decode)
		if err != nil {
			lastErr = err
			span.AddEvent("probe_failed",
				trace.WithAttributes(attribute.String("method", probe.method)),
			)
			continue
		}
		r.rememberProbe(pool.Address, idx)
		span.SetAttributes(attribute.String("probe", probe.method))
		return state, nil
	}
	return nil, lastErr
}

// probeOrder puts the pool's remembered getter first; unknown pools scan
// in canonical order.
func (r *StateReader) probeOrder(pool common.Address) []int {
	r.mu.RLock()
	hint, ok := r.probeHint[pool]
	r.mu.RUnlock()
	if !ok {
		return []int{0, 1, 2}
	}
	order := make([]int, 0, len(probes))
	order = append(order, hint)
	for i := range probes {
		if i != hint {
			order = append(order, i)
		}
	}
	return order
}

func (r *StateReader) rememberProbe(pool common.Address, idx int) {
	r.mu.Lock()
	r.probeHint[pool] = idx
	r.mu.Unlock()
}

func (r *StateReader) call(ctx context.Context, pool *domain.Pool, method string, decode func([]any) (*domain.PoolState, error)) (*domain.PoolState, error) {
	callData, err := r.poolABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	addr := pool.Address
	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &addr,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s returned no data", method)
	}

	outputs, err := r.poolABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	return decode(outputs)
}

func decodeSqrtPrice(outputs []any) (*domain.PoolState, error) {
	if len(outputs) < 1 {
		return nil, fmt.Errorf("empty sqrt price output")
	}
	sqrtPrice, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected sqrt price type %T", outputs[0])
	}
	return &domain.PoolState{
		Family:       domain.FamilyConcentratedLiquidity,
		SqrtPriceX96: sqrtPrice,
	}, nil
}

func decodeReserves(outputs []any) (*domain.PoolState, error) {
	if len(outputs) < 2 {
		return nil, fmt.Errorf("truncated reserves output")
	}
	reserve0, ok0 := outputs[0].(*big.Int)
	reserve1, ok1 := outputs[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, fmt.Errorf("unexpected reserves types %T/%T", outputs[0], outputs[1])
	}
	return &domain.PoolState{
		Family:   domain.FamilyConstantProduct,
		Reserve0: reserve0,
		Reserve1: reserve1,
	}, nil
}
