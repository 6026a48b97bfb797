package domain

import (
	"math/big"

	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// ExecutionPlan is everything the executor needs to fire one arbitrage:
// the two legs, the size, and the gas bid the profit math was based on.
type ExecutionPlan struct {
	Pair       *Pair
	Sell       *pricing.Pool
	Buy        *pricing.Pool
	AmountBase asset.Amount

	// MinBaseOut is the repayment floor for the round trip. Execution must
	// return at least the input or the whole trade is a loss.
	MinBaseOut asset.Amount

	// Gas bid, wei.
	Tip      *big.Int
	MaxFee   *big.Int
	GasLimit uint64
}
