// Package blockchain implements the blockchain bounded context: guarded
// RPC access, swap-log scanning, and gas bid derivation.
package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/amm-arb-bot/business/blockchain/app"
	blockchainDI "github.com/fd1az/amm-arb-bot/business/blockchain/di"
	"github.com/fd1az/amm-arb-bot/business/blockchain/infra/ethereum"
	"github.com/fd1az/amm-arb-bot/internal/config"
	"github.com/fd1az/amm-arb-bot/internal/di"
	"github.com/fd1az/amm-arb-bot/internal/logger"
	"github.com/fd1az/amm-arb-bot/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, blockchainDI.ChainReader, func(sr di.ServiceRegistry) app.ChainReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		clientCfg := ethereum.DefaultClientConfig()
		if cfg.Chain.RPCTimeout > 0 {
			clientCfg.CallTimeout = cfg.Chain.RPCTimeout
		}
		if cfg.Chain.RequestsPerSecond > 0 {
			clientCfg.RequestsPerSecond = cfg.Chain.RequestsPerSecond
		}

		client, err := ethereum.NewClient(ethClient, clientCfg, log)
		if err != nil {
			panic("failed to create chain reader: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, blockchainDI.ChainService, func(sr di.ServiceRegistry) *app.ChainService {
		return app.NewChainService(blockchainDI.GetChainReader(sr))
	})

	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		oracle, err := ethereum.NewFeeOracle(blockchainDI.GetChainReader(sr), ethereum.FeeOracleConfig{
			Rollup:        cfg.Chain.Rollup,
			DataFeeOracle: cfg.Chain.DataFeeOracleAddress(),
		}, log)
		if err != nil {
			panic("failed to create fee oracle: " + err.Error())
		}
		return oracle
	})

	return nil
}

// Startup initializes the blockchain module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	head, err := blockchainDI.GetChainService(mono.Services()).Head(ctx)
	if err != nil {
		return err
	}
	mono.Logger().Info(ctx, "blockchain module started",
		"chain_id", mono.Config().Chain.ChainID,
		"head", head.Number,
	)
	return nil
}
