// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/business/blockchain/domain"
)

// ChainReader is the read-only slice of the node RPC surface the bot uses.
type ChainReader interface {
	// BlockNumber returns the current head.
	BlockNumber(ctx context.Context) (uint64, error)

	// FilterLogs fetches logs matching the query.
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)

	// CallContract executes a read-only call at the latest block.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)

	// FeeHistory fetches base fees and reward percentiles over recent blocks.
	FeeHistory(ctx context.Context, blockCount uint64, lastBlock *big.Int, rewardPercentiles []float64) (*ethereum.FeeHistory, error)

	// SuggestGasPrice returns the node's legacy gas price suggestion.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// BalanceAt returns the native balance of an account at the latest block.
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)

	// CodeAt returns the bytecode deployed at an address, empty when the
	// address is not a contract.
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}

// GasOracle produces gas bids and the rollup data cost for the next
// transaction.
type GasOracle interface {
	// QuoteBid derives an EIP-1559 bid sized to the observed spread. It
	// degrades to the node's suggestion when fee history is unavailable
	// and fails only when both paths fail.
	QuoteBid(ctx context.Context, spreadPct decimal.Decimal) (domain.GasQuote, error)
}
