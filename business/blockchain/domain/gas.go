package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// BidClass names the aggressiveness of a gas bid.
type BidClass int

const (
	// BidStandard is the median-tip bid used for ordinary spreads.
	BidStandard BidClass = iota

	// BidAggressive is the buffered 90th-percentile bid used when the
	// spread is wide enough to be worth racing for.
	BidAggressive

	// BidFallback is the node-suggested price used when fee history is
	// unavailable.
	BidFallback
)

func (c BidClass) String() string {
	switch c {
	case BidAggressive:
		return "Aggressive"
	case BidFallback:
		return "Fallback"
	default:
		return "Standard"
	}
}

// Gas bid policy constants.
var (
	// aggressiveSpreadPct is the absolute spread above which the bid
	// escalates to the 90th percentile.
	aggressiveSpreadPct = decimal.New(5, 0)

	// tipBufferNum/tipBufferDen scale the aggressive tip by 10%.
	tipBufferNum = big.NewInt(110)
	tipBufferDen = big.NewInt(100)

	two = big.NewInt(2)
)

// FeeSnapshot is one fee-history observation: the pending base fee plus
// priority-fee percentiles over the sampled window.
type FeeSnapshot struct {
	BaseFee *big.Int
	TipP25  *big.Int
	TipP50  *big.Int
	TipP90  *big.Int
}

// GasQuote is a ready-to-use EIP-1559 bid plus the rollup data cost.
// All values are wei.
type GasQuote struct {
	BaseFee  *big.Int
	Tip      *big.Int
	MaxFee   *big.Int
	DataCost *big.Int
	Class    BidClass
}

// EffectiveGasPrice is the price actually paid per gas unit under
// EIP-1559: base fee plus tip, not the max-fee ceiling.
func (q GasQuote) EffectiveGasPrice() *big.Int {
	return new(big.Int).Add(q.BaseFee, q.Tip)
}

// TotalCostWei is the execution cost at the given gas limit plus the
// rollup data cost.
func (q GasQuote) TotalCostWei(gasLimit uint64) *big.Int {
	cost := new(big.Int).Mul(q.EffectiveGasPrice(), new(big.Int).SetUint64(gasLimit))
	if q.DataCost != nil {
		cost.Add(cost, q.DataCost)
	}
	return cost
}

// ComputeBid derives the gas bid from a fee snapshot and the observed
// spread. Wide spreads attract competition, so above the threshold the tip
// jumps to the buffered 90th percentile; otherwise the median tip is
// enough. The max fee leaves 2x base-fee headroom either way.
func ComputeBid(snap FeeSnapshot, spreadPct decimal.Decimal) GasQuote {
	q := GasQuote{BaseFee: snap.BaseFee, Class: BidStandard}

	if spreadPct.Abs().GreaterThan(aggressiveSpreadPct) {
		tip := new(big.Int).Mul(snap.TipP90, tipBufferNum)
		q.Tip = tip.Div(tip, tipBufferDen)
		q.Class = BidAggressive
	} else {
		q.Tip = new(big.Int).Set(snap.TipP50)
	}

	q.MaxFee = new(big.Int).Mul(snap.BaseFee, two)
	q.MaxFee.Add(q.MaxFee, q.Tip)
	return q
}

// FallbackBid wraps a node-suggested gas price when fee history is
// unavailable. The suggestion already includes the base fee, so it stands
// in for the whole effective price.
func FallbackBid(suggested *big.Int) GasQuote {
	return GasQuote{
		BaseFee: big.NewInt(0),
		Tip:     new(big.Int).Set(suggested),
		MaxFee:  new(big.Int).Set(suggested),
		Class:   BidFallback,
	}
}

// NativeCostInBase converts a wei cost into base-token units via the
// base-per-native price. Native coins carry 18 decimals.
func NativeCostInBase(costWei *big.Int, basePerNative decimal.Decimal, precision int32) decimal.Decimal {
	if costWei == nil || costWei.Sign() == 0 {
		return decimal.Zero
	}
	native := decimal.NewFromBigInt(costWei, -18)
	return native.Mul(basePerNative).Round(precision)
}
