package domain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// CapReason names what bounded the trade size.
type CapReason int

const (
	// CapLiquidity means the pool's depth set the size.
	CapLiquidity CapReason = iota

	// CapConfig means the configured maximum set the size.
	CapConfig
)

func (c CapReason) String() string {
	if c == CapConfig {
		return "config_max"
	}
	return "liquidity"
}

// liquidityPct is the share of the sell-side pool's base holdings a single
// trade may consume, in percent.
var liquidityPct = big.NewInt(2)

// SizingDecision is the outcome of liquidity-bounded sizing.
type SizingDecision struct {
	Amount    asset.Amount
	Liquidity asset.Amount
	CappedBy  CapReason
}

// ComputeSize bounds the trade to 2% of the sell-side pool's base-token
// holdings, further capped by the configured maximum. A drained pool
// yields a zero size.
func ComputeSize(liquidity, maxBase asset.Amount) SizingDecision {
	raw := new(big.Int).Mul(liquidity.Raw(), liquidityPct)
	raw.Div(raw, big.NewInt(100))

	d := SizingDecision{
		Amount:    asset.NewAmount(liquidity.Asset(), raw),
		Liquidity: liquidity,
		CappedBy:  CapLiquidity,
	}
	if !maxBase.IsZero() && raw.Cmp(maxBase.Raw()) > 0 {
		d.Amount = maxBase
		d.CappedBy = CapConfig
	}
	return d
}

// RejectionReason names why a cycle did not trade.
type RejectionReason int

const (
	RejectNone RejectionReason = iota
	RejectPriceUnavailable
	RejectSpreadBelowFees
	RejectNoSize
	RejectSimulationFailed
	RejectHoneypot
	RejectGasUnavailable
	RejectGasDominates
	RejectBelowMinProfit
	RejectRepaymentShortfall
	RejectGuardHeld
)

func (r RejectionReason) String() string {
	switch r {
	case RejectNone:
		return ""
	case RejectPriceUnavailable:
		return "price_unavailable"
	case RejectSpreadBelowFees:
		return "spread_below_fees"
	case RejectNoSize:
		return "no_size"
	case RejectSimulationFailed:
		return "simulation_failed"
	case RejectHoneypot:
		return "honeypot"
	case RejectGasUnavailable:
		return "gas_unavailable"
	case RejectGasDominates:
		return "gas_dominates"
	case RejectBelowMinProfit:
		return "below_min_profit"
	case RejectRepaymentShortfall:
		return "repayment_shortfall"
	case RejectGuardHeld:
		return "guard_held"
	default:
		return "unknown"
	}
}

// Tax is the observed shortfall of a simulated leg against its spot
// expectation, in percent. A leg that reverts outright is flagged as a
// honeypot instead of carrying a number.
type Tax struct {
	Pct      decimal.Decimal
	Honeypot bool
}

func (t Tax) String() string {
	if t.Honeypot {
		return "HONEYPOT"
	}
	return t.Pct.StringFixed(2)
}

// MeasureTax compares a leg's simulated output against the spot-price
// expectation. Negative observations clamp to zero; an output above
// expectation is not a tax.
func MeasureTax(expected, actual decimal.Decimal) Tax {
	if expected.IsZero() {
		return Tax{}
	}
	pct := expected.Sub(actual).Div(expected).Mul(decimal.New(100, 0))
	if pct.Sign() < 0 {
		pct = decimal.Zero
	}
	return Tax{Pct: pct}
}

// HoneypotTax marks a leg that could not be simulated at all.
func HoneypotTax() Tax {
	return Tax{Honeypot: true}
}

// gasSafety is the multiple of the gas cost the gross profit must exceed.
var gasSafety = decimal.New(2, 0)

// Profitability is the final verdict on a cycle.
type Profitability struct {
	Profitable  bool
	Reason      RejectionReason
	GrossProfit decimal.Decimal // base units
	GasCost     decimal.Decimal // base units
	NetProfit   decimal.Decimal // base units
}

// Judge applies the profit guards in order: repayment sanity, the 2x gas
// safety margin, then the configured net-profit floor.
func Judge(grossProfit, gasCost, minProfit decimal.Decimal) Profitability {
	p := Profitability{
		GrossProfit: grossProfit,
		GasCost:     gasCost,
		NetProfit:   grossProfit.Sub(gasCost),
	}

	// Leg 2 returning exactly the leg 1 input repays fine; only a
	// negative gross is a shortfall.
	if grossProfit.Sign() < 0 {
		p.Reason = RejectRepaymentShortfall
		return p
	}
	if gasCost.Mul(gasSafety).GreaterThan(grossProfit) {
		p.Reason = RejectGasDominates
		return p
	}
	if minProfit.Sign() > 0 && p.NetProfit.LessThan(minProfit) {
		p.Reason = RejectBelowMinProfit
		return p
	}

	p.Profitable = true
	return p
}
