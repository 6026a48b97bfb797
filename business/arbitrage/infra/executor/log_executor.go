// Package executor implements the execution port: a dry-run logger for
// monitor mode and a transaction sender for live mode.
package executor

import (
	"context"

	arbapp "github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// Ensure LogExecutor implements the port.
var _ arbapp.Executor = (*LogExecutor)(nil)

// LogExecutor records what would have been fired without touching the
// chain. The default in monitor mode.
type LogExecutor struct {
	logger logger.LoggerInterface
}

// NewLogExecutor creates a LogExecutor.
func NewLogExecutor(log logger.LoggerInterface) *LogExecutor {
	return &LogExecutor{logger: log}
}

// Execute logs the plan and succeeds.
func (e *LogExecutor) Execute(ctx context.Context, plan *domain.ExecutionPlan) error {
	e.logger.Info(ctx, "dry-run execution",
		"pair", plan.Pair.Name,
		"sell_venue", plan.Sell.Venue.Name,
		"buy_venue", plan.Buy.Venue.Name,
		"amount_base", plan.AmountBase.Format(),
		"tip_wei", plan.Tip.String(),
		"max_fee_wei", plan.MaxFee.String(),
		"gas_limit", plan.GasLimit,
	)
	return nil
}
