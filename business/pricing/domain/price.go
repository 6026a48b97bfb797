package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// q192 is 2^192, the divisor turning sqrtPriceX96^2 into the raw price
// ratio. Kept as decimal so the division carries explicit precision.
var q192 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 192), 0)

// PricePoint is the normalized price of one base unit expressed in quote
// units, as of a specific block. Cycle-local, never cached across cycles.
type PricePoint struct {
	QuotePerBase decimal.Decimal
	AsOfBlock    uint64
	Venue        string
	Timestamp    time.Time
}

// RatioFromSqrtPriceX96 converts a concentrated-liquidity pool's packed
// sqrt price into the raw token1-per-token0 ratio: (sqrtPrice/2^96)^2.
// Computed as sqrtPrice^2/2^192 over arbitrary-precision decimals, never
// native floats.
func RatioFromSqrtPriceX96(sqrtPriceX96 *big.Int, precision int32) decimal.Decimal {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() == 0 {
		return decimal.Zero
	}
	squared := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	return decimal.NewFromBigInt(squared, 0).DivRound(q192, precision)
}

// RatioFromReserves converts constant-product reserves into the raw
// token1-per-token0 ratio. A zero reserve0 yields a zero ratio rather than
// a division fault.
func RatioFromReserves(reserve0, reserve1 *big.Int, precision int32) decimal.Decimal {
	if reserve0 == nil || reserve0.Sign() == 0 {
		return decimal.Zero
	}
	if reserve1 == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(reserve1, 0).DivRound(decimal.NewFromBigInt(reserve0, 0), precision)
}

// NormalizeQuotePerBase turns the raw token1-per-token0 ratio into
// quote-per-base. The raw ratio is always in on-chain address order, so the
// decimal-scaling correction 10^(decimals0-decimals1) is applied first and
// the result inverted when base occupies the token1 slot. The outcome does
// not depend on which argument the caller passed as base.
func NormalizeQuotePerBase(rawT1PerT0 decimal.Decimal, base, quote *asset.Asset, precision int32) decimal.Decimal {
	t0, t1 := SortTokens(base, quote)

	scale := decimal.New(1, int32(t0.Decimals())-int32(t1.Decimals()))
	priceT1PerT0 := rawT1PerT0.Mul(scale)

	if base.Equals(t0) {
		return priceT1PerT0
	}

	// Base is token1: invert, guarding the zero case.
	if priceT1PerT0.IsZero() {
		return decimal.Zero
	}
	return decimal.New(1, 0).DivRound(priceT1PerT0, precision)
}

// RatioFromState derives the raw token1-per-token0 ratio from a snapshot.
func RatioFromState(state *PoolState, precision int32) decimal.Decimal {
	switch state.Family {
	case FamilyConcentratedLiquidity:
		return RatioFromSqrtPriceX96(state.SqrtPriceX96, precision)
	default:
		return RatioFromReserves(state.Reserve0, state.Reserve1, precision)
	}
}
