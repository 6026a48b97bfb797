// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/amm-arb-bot/business/pricing/app"
	"github.com/fd1az/amm-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PriceOracle     = di.NewToken[*app.PriceOracle]("pricing.PriceOracle")
	PoolResolver    = di.NewToken[app.PoolResolver]("pricing.PoolResolver")
	TokenResolver   = di.NewToken[app.TokenResolver]("pricing.TokenResolver")
	LiquidityReader = di.NewToken[app.LiquidityReader]("pricing.LiquidityReader")
)

// Private dependency tokens - internal to pricing module
var (
	PoolStateReader = di.NewToken[app.PoolStateReader]("pricing:poolStateReader")
)

// Helper functions for type-safe access
func GetPriceOracle(c di.ServiceRegistry) *app.PriceOracle {
	return di.GetToken(c, PriceOracle)
}

func GetPoolResolver(c di.ServiceRegistry) app.PoolResolver {
	return di.GetToken(c, PoolResolver)
}

func GetTokenResolver(c di.ServiceRegistry) app.TokenResolver {
	return di.GetToken(c, TokenResolver)
}

func GetLiquidityReader(c di.ServiceRegistry) app.LiquidityReader {
	return di.GetToken(c, LiquidityReader)
}

func GetPoolStateReader(c di.ServiceRegistry) app.PoolStateReader {
	return di.GetToken(c, PoolStateReader)
}
