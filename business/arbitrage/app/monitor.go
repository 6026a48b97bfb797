package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	blockchainapp "github.com/fd1az/amm-arb-bot/business/blockchain/app"
	blockchaindomain "github.com/fd1az/amm-arb-bot/business/blockchain/domain"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

const meterName = "arbitrage"

// MonitorConfig holds the polling parameters.
type MonitorConfig struct {
	PollInterval time.Duration
	CycleTimeout time.Duration
	Live         bool
}

// DefaultMonitorConfig returns the standard polling cadence.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PollInterval: 2 * time.Second,
		CycleTimeout: 30 * time.Second,
	}
}

// monitorMetrics holds OTEL metric instruments.
type monitorMetrics struct {
	ticksTotal      metric.Int64Counter
	cyclesTotal     metric.Int64Counter
	cyclesSkipped   metric.Int64Counter
	profitableTotal metric.Int64Counter
}

// Monitor drives the whole system: it polls the chain head, scans the
// watched pools for swap activity, and evaluates each touched pair at
// most once per tick. Evaluation runs behind the per-pair guard so a
// slow cycle is skipped, never stacked.
type Monitor struct {
	chain   *blockchainapp.ChainService
	engine  *Engine
	guard   *ExecutionGuard
	journal TradeLogger
	exec    Executor
	pairs   []*domain.Pair
	cfg     MonitorConfig
	logger  logger.LoggerInterface

	poolToPair map[common.Address]*domain.Pair
	lastBlock  uint64
	metrics    *monitorMetrics
}

// NewMonitor creates a Monitor over the given pairs.
func NewMonitor(
	chain *blockchainapp.ChainService,
	engine *Engine,
	guard *ExecutionGuard,
	journal TradeLogger,
	exec Executor,
	pairs []*domain.Pair,
	cfg MonitorConfig,
	log logger.LoggerInterface,
) (*Monitor, error) {
	m := &Monitor{
		chain:      chain,
		engine:     engine,
		guard:      guard,
		journal:    journal,
		exec:       exec,
		pairs:      pairs,
		cfg:        cfg,
		logger:     log,
		poolToPair: make(map[common.Address]*domain.Pair),
	}
	for _, pair := range pairs {
		for _, pool := range pair.Pools() {
			m.poolToPair[pool.Address] = pair
		}
	}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Monitor) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	m.metrics = &monitorMetrics{}

	m.metrics.ticksTotal, err = meter.Int64Counter(
		"arb_ticks_total",
		metric.WithDescription("Total polling ticks"),
	)
	if err != nil {
		return err
	}

	m.metrics.cyclesTotal, err = meter.Int64Counter(
		"arb_cycles_total",
		metric.WithDescription("Total evaluation cycles"),
	)
	if err != nil {
		return err
	}

	m.metrics.cyclesSkipped, err = meter.Int64Counter(
		"arb_cycles_skipped_total",
		metric.WithDescription("Cycles skipped because the pair guard was held"),
	)
	if err != nil {
		return err
	}

	m.metrics.profitableTotal, err = meter.Int64Counter(
		"arb_profitable_cycles_total",
		metric.WithDescription("Cycles that cleared every profit guard"),
	)
	return err
}

// Run polls until the context is canceled. It returns the context error
// on shutdown; transient chain failures are logged and retried on the
// next tick.
func (m *Monitor) Run(ctx context.Context) error {
	head, err := m.chain.Head(ctx)
	if err != nil {
		return err
	}
	m.lastBlock = head.Number
	m.logger.Info(ctx, "monitor started",
		"pairs", len(m.pairs),
		"head", head.Number,
		"poll_interval", m.cfg.PollInterval.String(),
		"live", m.cfg.Live,
	)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick scans new blocks and dispatches evaluation for every pair whose
// pools saw swap activity. A pair appearing in many logs still evaluates
// once per tick.
func (m *Monitor) tick(ctx context.Context) {
	m.metrics.ticksTotal.Add(ctx, 1)

	head, err := m.chain.Head(ctx)
	if err != nil {
		m.logger.Warn(ctx, "head poll failed", "error", err)
		return
	}
	r := blockchaindomain.BlockRange{From: m.lastBlock + 1, To: head.Number}
	if r.Empty() {
		return
	}

	logs, err := m.chain.SwapLogs(ctx, r, m.watchedPools())
	if err != nil {
		m.logger.Warn(ctx, "swap log scan failed", "from", r.From, "to", r.To, "error", err)
		return
	}
	m.lastBlock = head.Number
	if len(logs) == 0 {
		return
	}

	touched := make(map[string]*domain.Pair)
	for _, lg := range logs {
		if pair, ok := m.poolToPair[lg.Address]; ok {
			touched[pair.Name] = pair
		}
	}

	for _, pair := range touched {
		if !m.guard.TryAcquire(pair.Name) {
			m.metrics.cyclesSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("pair", pair.Name)))
			m.logger.Debug(ctx, "cycle still running, skipping", "pair", pair.Name)
			continue
		}
		go m.runCycle(ctx, pair, head.Number)
	}
}

// runCycle evaluates one pair and always releases its guard, whatever
// happens inside the cycle.
func (m *Monitor) runCycle(ctx context.Context, pair *domain.Pair, block uint64) {
	defer m.guard.Release(pair.Name)

	cycleCtx, cancel := context.WithTimeout(ctx, m.cfg.CycleTimeout)
	defer cancel()

	m.metrics.cyclesTotal.Add(cycleCtx, 1, metric.WithAttributes(attribute.String("pair", pair.Name)))

	rec, plan := m.engine.Evaluate(cycleCtx, pair, block)

	if rec.Profitable {
		m.metrics.profitableTotal.Add(cycleCtx, 1, metric.WithAttributes(attribute.String("pair", pair.Name)))
		m.logger.Info(cycleCtx, "profitable cycle",
			"pair", pair.Name,
			"spread_pct", rec.SpreadPct.StringFixed(4),
			"net_profit", rec.NetProfit.String(),
			"gas_class", rec.GasClass,
		)

		if m.cfg.Live && plan != nil {
			if err := m.exec.Execute(cycleCtx, plan); err != nil {
				m.logger.Error(cycleCtx, "execution failed", "pair", pair.Name, "error", err)
			} else {
				rec.Executed = true
			}
		}
	}

	if err := m.journal.Record(cycleCtx, rec); err != nil {
		m.logger.Warn(cycleCtx, "trade log write failed", "pair", pair.Name, "error", err)
	}
}

func (m *Monitor) watchedPools() []common.Address {
	addrs := make([]common.Address, 0, len(m.poolToPair))
	for addr := range m.poolToPair {
		addrs = append(addrs, addr)
	}
	return addrs
}
