// Package domain contains the core domain types for the pricing context.
package domain

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// VenueFamily tags the AMM design of a venue.
type VenueFamily int

const (
	// FamilyConcentratedLiquidity covers Uniswap-V3-style pools quoting
	// through a packed sqrt price.
	FamilyConcentratedLiquidity VenueFamily = iota

	// FamilyConstantProduct covers x*y=k pools quoting through reserves.
	FamilyConstantProduct
)

func (f VenueFamily) String() string {
	switch f {
	case FamilyConcentratedLiquidity:
		return "concentrated_liquidity"
	case FamilyConstantProduct:
		return "constant_product"
	default:
		return "unknown"
	}
}

// Venue is one AMM deployment the bot trades against.
type Venue struct {
	Name       string
	Family     VenueFamily
	DynamicFee bool // CL variant exposing globalState() instead of slot0()
	Stable     bool // CP factories resolving pools by (tokenA, tokenB, stable)
	Factory    common.Address
	Router     common.Address
}

// Pool is a read-only handle to one venue pool for a token pair. Token0 and
// Token1 are held in on-chain address order regardless of how the caller
// ordered the pair.
type Pool struct {
	Venue   *Venue
	Address common.Address
	FeeTier int // hundredths of a bip (3000 = 0.30%)
	Token0  *asset.Asset
	Token1  *asset.Asset
}

// NewPool creates a Pool, sorting the two tokens into address order.
func NewPool(venue *Venue, addr common.Address, feeTier int, a, b *asset.Asset) *Pool {
	t0, t1 := SortTokens(a, b)
	return &Pool{
		Venue:   venue,
		Address: addr,
		FeeTier: feeTier,
		Token0:  t0,
		Token1:  t1,
	}
}

// SortTokens returns the pair in on-chain address order (token0 is the
// numerically lower address).
func SortTokens(a, b *asset.Asset) (*asset.Asset, *asset.Asset) {
	if bytes.Compare(a.Address().Bytes(), b.Address().Bytes()) < 0 {
		return a, b
	}
	return b, a
}

// IsToken0 reports whether t occupies the token0 slot of the pool.
func (p *Pool) IsToken0(t *asset.Asset) bool {
	return p.Token0.Equals(t)
}

// FeePercent returns the swap fee as a percentage (3000 -> 0.30).
func (p *Pool) FeePercent() decimal.Decimal {
	return decimal.New(int64(p.FeeTier), -4)
}

// PoolState is a fresh snapshot of a pool's pricing state. A new value is
// produced per read; snapshots are never mutated.
type PoolState struct {
	Family       VenueFamily
	SqrtPriceX96 *big.Int // concentrated liquidity
	Reserve0     *big.Int // constant product
	Reserve1     *big.Int
}
