// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/fd1az/amm-arb-bot/business/blockchain/app"
	"github.com/fd1az/amm-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ChainReader  = di.NewToken[app.ChainReader]("blockchain.ChainReader")
	ChainService = di.NewToken[*app.ChainService]("blockchain.ChainService")
	GasOracle    = di.NewToken[app.GasOracle]("blockchain.GasOracle")
)

// Helper functions for type-safe access
func GetChainReader(c di.ServiceRegistry) app.ChainReader {
	return di.GetToken(c, ChainReader)
}

func GetChainService(c di.ServiceRegistry) *app.ChainService {
	return di.GetToken(c, ChainService)
}

func GetGasOracle(c di.ServiceRegistry) app.GasOracle {
	return di.GetToken(c, GasOracle)
}
