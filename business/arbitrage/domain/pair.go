// Package domain contains the arbitrage context's core types: watched
// pairs, sizing and profitability decisions, and cycle records.
package domain

import (
	"github.com/shopspring/decimal"

	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// Pair is one watched base/quote market with its resolved pool on each
// venue. Built once at startup; immutable afterward.
type Pair struct {
	Name  string
	Base  *asset.Asset
	Quote *asset.Asset
	PoolA *pricing.Pool
	PoolB *pricing.Pool

	// MaxBase caps the trade size in base units. Zero raw means unbounded.
	MaxBase asset.Amount

	// MinProfit is the net-profit floor in base units. Zero means none.
	MinProfit decimal.Decimal
}

// Pools returns both pool addresses for log filtering.
func (p *Pair) Pools() []*pricing.Pool {
	return []*pricing.Pool{p.PoolA, p.PoolB}
}

// FeeSumPercent is the combined swap fee of both legs, the floor a spread
// must clear before anything else is worth computing.
func (p *Pair) FeeSumPercent() decimal.Decimal {
	return p.PoolA.FeePercent().Add(p.PoolB.FeePercent())
}

// SellBuy orders the pools by spread direction: the base is sold on the
// richer venue and bought back on the cheaper one.
func (p *Pair) SellBuy(dir pricing.Direction) (sell, buy *pricing.Pool) {
	if dir == pricing.DirectionSellB {
		return p.PoolB, p.PoolA
	}
	return p.PoolA, p.PoolB
}
