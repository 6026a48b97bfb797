package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// PriceOracle derives normalized spot prices from on-chain pool state.
type PriceOracle struct {
	states    PoolStateReader
	precision int32
	log       logger.LoggerInterface
}

// NewPriceOracle creates a PriceOracle reading via the given state reader.
func NewPriceOracle(states PoolStateReader, precision int32, log logger.LoggerInterface) *PriceOracle {
	return &PriceOracle{
		states:    states,
		precision: precision,
		log:       log,
	}
}

// Quote returns the price of one base unit in quote units on the pool's
// venue, as of the given block. A pool quoting zero yields a zero price
// point, not an error; the caller treats it as unactionable. An error is
// returned only when no probe could read the pool at all.
func (o *PriceOracle) Quote(ctx context.Context, pool *domain.Pool, base, quote *asset.Asset, asOfBlock uint64) (domain.PricePoint, error) {
	state, err := o.states.ReadState(ctx, pool)
	if err != nil {
		return domain.PricePoint{}, apperror.New(
			apperror.CodePriceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s pool %s unreadable", pool.Venue.Name, pool.Address.Hex())),
		)
	}

	raw := domain.RatioFromState(state, o.precision)
	price := domain.NormalizeQuotePerBase(raw, base, quote, o.precision)
	if price.IsZero() {
		o.log.Warn(ctx, "pool quoted zero price",
			"venue", pool.Venue.Name,
			"pool", pool.Address.Hex(),
			"pair", base.Symbol()+"/"+quote.Symbol(),
		)
	}

	return domain.PricePoint{
		QuotePerBase: price,
		AsOfBlock:    asOfBlock,
		Venue:        pool.Venue.Name,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// SpreadBetween quotes both pools at the same block and computes the
// relative gap. Either leg failing aborts the comparison.
func (o *PriceOracle) SpreadBetween(ctx context.Context, poolA, poolB *domain.Pool, base, quote *asset.Asset, asOfBlock uint64) (domain.Spread, domain.PricePoint, domain.PricePoint, error) {
	a, err := o.Quote(ctx, poolA, base, quote, asOfBlock)
	if err != nil {
		return domain.Spread{}, domain.PricePoint{}, domain.PricePoint{}, err
	}
	b, err := o.Quote(ctx, poolB, base, quote, asOfBlock)
	if err != nil {
		return domain.Spread{}, domain.PricePoint{}, domain.PricePoint{}, err
	}

	spread := domain.CalculateSpread(a.QuotePerBase, b.QuotePerBase, o.precision)
	return spread, a, b, nil
}
