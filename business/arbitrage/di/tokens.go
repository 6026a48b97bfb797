// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	"github.com/fd1az/amm-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*app.Engine]("arbitrage.Engine")
	Guard  = di.NewToken[*app.ExecutionGuard]("arbitrage.Guard")
)

// Private dependency tokens - internal to arbitrage module
var (
	SwapSimulator = di.NewToken[app.SwapSimulator]("arbitrage:swapSimulator")
	TradeLogger   = di.NewToken[app.TradeLogger]("arbitrage:tradeLogger")
	Executor      = di.NewToken[app.Executor]("arbitrage:executor")
	TrustChecker  = di.NewToken[app.TrustChecker]("arbitrage:trustChecker")
	PairSetup     = di.NewToken[*app.PairSetup]("arbitrage:pairSetup")
)

// Helper functions for type-safe access
func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}

func GetGuard(c di.ServiceRegistry) *app.ExecutionGuard {
	return di.GetToken(c, Guard)
}

func GetSwapSimulator(c di.ServiceRegistry) app.SwapSimulator {
	return di.GetToken(c, SwapSimulator)
}

func GetTradeLogger(c di.ServiceRegistry) app.TradeLogger {
	return di.GetToken(c, TradeLogger)
}

func GetExecutor(c di.ServiceRegistry) app.Executor {
	return di.GetToken(c, Executor)
}

func GetTrustChecker(c di.ServiceRegistry) app.TrustChecker {
	return di.GetToken(c, TrustChecker)
}

func GetPairSetup(c di.ServiceRegistry) *app.PairSetup {
	return di.GetToken(c, PairSetup)
}
