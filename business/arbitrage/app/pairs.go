package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	pricingapp "github.com/fd1az/amm-arb-bot/business/pricing/app"
	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/config"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// PairSetup resolves configured pairs into watchable ones at startup.
// A pair that cannot be fully resolved is skipped with a warning; one bad
// entry never takes down the rest of the watchlist.
type PairSetup struct {
	tokens  pricingapp.TokenResolver
	pools   pricingapp.PoolResolver
	code    CodeReader
	chainID uint64
	logger  logger.LoggerInterface
}

// NewPairSetup creates a PairSetup.
func NewPairSetup(tokens pricingapp.TokenResolver, pools pricingapp.PoolResolver, code CodeReader, chainID uint64, log logger.LoggerInterface) *PairSetup {
	return &PairSetup{
		tokens:  tokens,
		pools:   pools,
		code:    code,
		chainID: chainID,
		logger:  log,
	}
}

// Build resolves every configured pair against both venues.
func (s *PairSetup) Build(ctx context.Context, venueA, venueB *pricing.Venue, cfgs []config.PairConfig) []*domain.Pair {
	pairs := make([]*domain.Pair, 0, len(cfgs))
	for i := range cfgs {
		pair := s.build(ctx, venueA, venueB, &cfgs[i])
		if pair != nil {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

func (s *PairSetup) build(ctx context.Context, venueA, venueB *pricing.Venue, cfg *config.PairConfig) *domain.Pair {
	if err := cfg.Validate(); err != nil {
		s.logger.Warn(ctx, "skipping invalid pair", "pair", cfg.Name, "error", err)
		return nil
	}

	base, err := s.tokens.Resolve(ctx, s.chainID, common.HexToAddress(cfg.BaseToken))
	if err != nil {
		s.logger.Warn(ctx, "skipping pair, base token unresolvable", "pair", cfg.Name, "error", err)
		return nil
	}
	quote, err := s.tokens.Resolve(ctx, s.chainID, common.HexToAddress(cfg.QuoteToken))
	if err != nil {
		s.logger.Warn(ctx, "skipping pair, quote token unresolvable", "pair", cfg.Name, "error", err)
		return nil
	}

	poolA, err := s.resolvePool(ctx, venueA, base, quote, cfg, cfg.FeeTierA)
	if err != nil {
		return nil
	}
	poolB, err := s.resolvePool(ctx, venueB, base, quote, cfg, cfg.FeeTierB)
	if err != nil {
		return nil
	}

	maxBase := asset.Zero(base)
	if cfg.MaxBaseAmount != "" {
		maxBase, err = asset.ParseAmount(base, cfg.MaxBaseAmount)
		if err != nil {
			s.logger.Warn(ctx, "skipping pair, bad max base amount", "pair", cfg.Name, "error", err)
			return nil
		}
	}

	minProfit := decimal.Zero
	if cfg.MinProfitBase != "" {
		minProfit, err = decimal.NewFromString(cfg.MinProfitBase)
		if err != nil {
			s.logger.Warn(ctx, "skipping pair, bad min profit", "pair", cfg.Name, "error", err)
			return nil
		}
	}

	s.logger.Info(ctx, "pair resolved",
		"pair", cfg.Name,
		"pool_a", poolA.Address.Hex(),
		"pool_b", poolB.Address.Hex(),
	)
	return &domain.Pair{
		Name:      cfg.Name,
		Base:      base,
		Quote:     quote,
		PoolA:     poolA,
		PoolB:     poolB,
		MaxBase:   maxBase,
		MinProfit: minProfit,
	}
}

func (s *PairSetup) resolvePool(ctx context.Context, venue *pricing.Venue, base, quote *asset.Asset, cfg *config.PairConfig, feeTier int) (*pricing.Pool, error) {
	pool, err := s.pools.ResolvePool(ctx, venue, base, quote, feeTier, cfg.Stable)
	if err != nil {
		if apperror.IsCode(err, apperror.CodePoolNotFound) {
			s.logger.Warn(ctx, "skipping pair, pool not deployed",
				"pair", cfg.Name, "venue", venue.Name, "fee_tier", feeTier)
		} else {
			s.logger.Warn(ctx, "skipping pair, pool lookup failed",
				"pair", cfg.Name, "venue", venue.Name, "error", err)
		}
		return nil, err
	}

	// A factory can return a computed address that was never deployed.
	code, err := s.code.CodeAt(ctx, pool.Address)
	if err != nil {
		s.logger.Warn(ctx, "skipping pair, pool code check failed",
			"pair", cfg.Name, "venue", venue.Name, "error", err)
		return nil, err
	}
	if len(code) == 0 {
		s.logger.Warn(ctx, "skipping pair, pool address has no code",
			"pair", cfg.Name, "venue", venue.Name, "pool", pool.Address.Hex())
		return nil, apperror.New(apperror.CodePoolNotFound, apperror.WithContext(pool.Address.Hex()))
	}
	return pool, nil
}
