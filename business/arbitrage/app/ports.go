// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// SwapSimulator dry-runs one swap leg through the venue's router.
type SwapSimulator interface {
	// Simulate runs the swap as a read-only call from the executor's
	// address and returns the output amount. A revert surfaces as a
	// SIMULATION_REVERTED error; the amount is never negative.
	Simulate(ctx context.Context, pool *pricing.Pool, tokenIn, tokenOut *asset.Asset, amountIn asset.Amount) (asset.Amount, error)
}

// TradeLogger persists one record per evaluation cycle.
type TradeLogger interface {
	Record(ctx context.Context, rec *domain.CycleRecord) error
	Close() error
}

// Executor fires a profitable plan. Implementations decide whether that
// means a real transaction or a dry-run log line.
type Executor interface {
	Execute(ctx context.Context, plan *domain.ExecutionPlan) error
}

// CodeReader reports the bytecode at an address. Pair setup uses it to
// reject pool addresses with no contract behind them.
type CodeReader interface {
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}

// TrustChecker answers whether a token is on the operator's trusted list.
// Legs over trusted tokens that fail simulation are treated as transient
// faults rather than honeypots.
type TrustChecker interface {
	IsTrusted(token *asset.Asset) bool
}
