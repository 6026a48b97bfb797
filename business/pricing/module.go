// Package pricing implements the pricing bounded context: on-chain pool
// discovery, state reads, and normalized price derivation.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	blockchainDI "github.com/fd1az/amm-arb-bot/business/blockchain/di"
	"github.com/fd1az/amm-arb-bot/business/pricing/app"
	pricingDI "github.com/fd1az/amm-arb-bot/business/pricing/di"
	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/business/pricing/infra/amm"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/config"
	"github.com/fd1az/amm-arb-bot/internal/di"
	"github.com/fd1az/amm-arb-bot/internal/logger"
	"github.com/fd1az/amm-arb-bot/internal/monolith"
)

// VenueFromConfig builds the domain venue for a configured AMM.
func VenueFromConfig(cfg config.VenueConfig) *domain.Venue {
	family := domain.FamilyConstantProduct
	if cfg.Family == config.FamilyConcentratedLiquidity {
		family = domain.FamilyConcentratedLiquidity
	}
	return &domain.Venue{
		Name:       cfg.Name,
		Family:     family,
		DynamicFee: cfg.DynamicFee,
		Stable:     cfg.Stable,
		Factory:    common.HexToAddress(cfg.Factory),
		Router:     common.HexToAddress(cfg.Router),
	}
}

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pricingDI.PoolStateReader, func(sr di.ServiceRegistry) app.PoolStateReader {
		log := sr.Get("logger").(logger.LoggerInterface)

		reader, err := amm.NewStateReader(blockchainDI.GetChainReader(sr), log)
		if err != nil {
			panic("failed to create pool state reader: " + err.Error())
		}
		return reader
	})

	di.RegisterToken(c, pricingDI.PoolResolver, func(sr di.ServiceRegistry) app.PoolResolver {
		return newResolver(sr)
	})

	di.RegisterToken(c, pricingDI.TokenResolver, func(sr di.ServiceRegistry) app.TokenResolver {
		return newResolver(sr)
	})

	di.RegisterToken(c, pricingDI.LiquidityReader, func(sr di.ServiceRegistry) app.LiquidityReader {
		log := sr.Get("logger").(logger.LoggerInterface)

		reader, err := amm.NewBalanceReader(blockchainDI.GetChainReader(sr), log)
		if err != nil {
			panic("failed to create balance reader: " + err.Error())
		}
		return reader
	})

	di.RegisterToken(c, pricingDI.PriceOracle, func(sr di.ServiceRegistry) *app.PriceOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		states := pricingDI.GetPoolStateReader(sr)

		return app.NewPriceOracle(states, cfg.Arbitrage.PriceDecimalPrecision, log)
	})

	return nil
}

func newResolver(sr di.ServiceRegistry) *amm.Resolver {
	log := sr.Get("logger").(logger.LoggerInterface)
	registry := sr.Get("assetRegistry").(*asset.Registry)

	resolver, err := amm.NewResolver(blockchainDI.GetChainReader(sr), registry, log)
	if err != nil {
		panic("failed to create pool resolver: " + err.Error())
	}
	return resolver
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "pricing module started",
		"venue_a", mono.Config().VenueA.Name,
		"venue_b", mono.Config().VenueB.Name,
	)
	return nil
}
