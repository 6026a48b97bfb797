// Package arbitrage implements the arbitrage bounded context: pair setup,
// cycle evaluation, and the polling monitor that drives everything.
package arbitrage

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	arbDI "github.com/fd1az/amm-arb-bot/business/arbitrage/di"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/infra/csvlog"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/infra/executor"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/infra/router"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/infra/trust"
	blockchainDI "github.com/fd1az/amm-arb-bot/business/blockchain/di"
	"github.com/fd1az/amm-arb-bot/business/pricing"
	pricingDI "github.com/fd1az/amm-arb-bot/business/pricing/di"
	"github.com/fd1az/amm-arb-bot/internal/config"
	"github.com/fd1az/amm-arb-bot/internal/di"
	"github.com/fd1az/amm-arb-bot/internal/logger"
	"github.com/fd1az/amm-arb-bot/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.SwapSimulator, func(sr di.ServiceRegistry) app.SwapSimulator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		sim, err := router.NewSimulator(
			blockchainDI.GetChainReader(sr),
			cfg.Arbitrage.ExecutorAddressHex(),
			log,
		)
		if err != nil {
			panic("failed to create swap simulator: " + err.Error())
		}
		return sim
	})

	di.RegisterToken(c, arbDI.TradeLogger, func(sr di.ServiceRegistry) app.TradeLogger {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		journal, err := csvlog.New(cfg.Arbitrage.TradeLogPath, log)
		if err != nil {
			panic("failed to open trade log: " + err.Error())
		}
		return journal
	})

	di.RegisterToken(c, arbDI.Executor, func(sr di.ServiceRegistry) app.Executor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if !cfg.Arbitrage.LiveExecution {
			return executor.NewLogExecutor(log)
		}

		ethClient := sr.Get("ethClient").(*ethclient.Client)
		exec, err := executor.NewContractExecutor(
			ethClient,
			cfg.Arbitrage.ExecutorAddressHex(),
			cfg.Arbitrage.PrivateKey,
			cfg.Chain.ChainID,
			log,
		)
		if err != nil {
			panic("failed to create contract executor: " + err.Error())
		}
		return exec
	})

	di.RegisterToken(c, arbDI.TrustChecker, func(sr di.ServiceRegistry) app.TrustChecker {
		cfg := sr.Get("config").(*config.Config)
		return trust.New(cfg.Arbitrage.TrustedTokenAddresses())
	})

	di.RegisterToken(c, arbDI.PairSetup, func(sr di.ServiceRegistry) *app.PairSetup {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewPairSetup(
			pricingDI.GetTokenResolver(sr),
			pricingDI.GetPoolResolver(sr),
			blockchainDI.GetChainReader(sr),
			cfg.Chain.ChainID,
			log,
		)
	})

	di.RegisterToken(c, arbDI.Guard, func(di.ServiceRegistry) *app.ExecutionGuard {
		return app.NewExecutionGuard()
	})

	di.RegisterToken(c, arbDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewEngine(
			pricingDI.GetPriceOracle(sr),
			pricingDI.GetLiquidityReader(sr),
			arbDI.GetSwapSimulator(sr),
			blockchainDI.GetGasOracle(sr),
			arbDI.GetTrustChecker(sr),
			app.EngineConfig{
				GasLimit:  cfg.Arbitrage.GasLimit,
				Precision: cfg.Arbitrage.PriceDecimalPrecision,
			},
			log,
		)
	})

	return nil
}

// Startup resolves the watchlist and launches the polling monitor. The
// monitor goroutine stops when the startup context is canceled.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()
	services := mono.Services()

	venueA := pricing.VenueFromConfig(cfg.VenueA)
	venueB := pricing.VenueFromConfig(cfg.VenueB)

	pairs := arbDI.GetPairSetup(services).Build(ctx, venueA, venueB, cfg.Arbitrage.Pairs)
	if len(pairs) == 0 {
		return errors.New("no watchable pairs after setup")
	}

	monitorCfg := app.DefaultMonitorConfig()
	if cfg.Chain.PollInterval > 0 {
		monitorCfg.PollInterval = cfg.Chain.PollInterval
	}
	monitorCfg.Live = cfg.Arbitrage.LiveExecution

	monitor, err := app.NewMonitor(
		blockchainDI.GetChainService(services),
		arbDI.GetEngine(services),
		arbDI.GetGuard(services),
		arbDI.GetTradeLogger(services),
		arbDI.GetExecutor(services),
		pairs,
		monitorCfg,
		log,
	)
	if err != nil {
		return err
	}

	if cfg.Arbitrage.LiveExecution {
		if signer, ok := arbDI.GetExecutor(services).(interface{ Sender() common.Address }); ok {
			bal, err := blockchainDI.GetChainReader(services).BalanceAt(ctx, signer.Sender())
			if err != nil {
				log.Warn(ctx, "could not read executor balance", "error", err)
			} else if bal.Sign() == 0 {
				log.Warn(ctx, "executor account has no native balance, live sends will fail",
					"account", signer.Sender().Hex())
			}
		}
	}

	go func() {
		if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "monitor stopped", "error", err)
		}
	}()

	log.Info(ctx, "arbitrage module started",
		"pairs", len(pairs),
		"live", cfg.Arbitrage.LiveExecution,
	)
	return nil
}
