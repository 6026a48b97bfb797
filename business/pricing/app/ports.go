// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// PoolStateReader reads a fresh pricing snapshot from an on-chain pool.
type PoolStateReader interface {
	// ReadState probes the pool for its pricing state. Implementations try
	// slot0(), then globalState(), then getReserves(), in that order, and
	// report failure only when every probe fails.
	ReadState(ctx context.Context, pool *domain.Pool) (*domain.PoolState, error)
}

// PoolResolver locates the pool a venue's factory registered for a pair.
type PoolResolver interface {
	// ResolvePool asks the venue's factory for the pool of the given pair
	// and fee tier. A zero-address answer means the pool does not exist.
	ResolvePool(ctx context.Context, venue *domain.Venue, a, b *asset.Asset, feeTier int, stable bool) (*domain.Pool, error)
}

// TokenResolver turns a token address into a fully described asset.
type TokenResolver interface {
	Resolve(ctx context.Context, chainID uint64, addr common.Address) (*asset.Asset, error)
}

// LiquidityReader reads a pool's holdings of a specific token, the proxy
// used to bound trade size.
type LiquidityReader interface {
	PoolBalance(ctx context.Context, pool *domain.Pool, token *asset.Asset) (asset.Amount, error)
}
