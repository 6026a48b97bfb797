package domain

import (
	"github.com/shopspring/decimal"
)

// Direction names which venue the base asset is sold on when the spread is
// acted upon.
type Direction int

const (
	// DirectionNone means no actionable spread exists.
	DirectionNone Direction = iota

	// DirectionSellA means sell base on venue A, buy back on venue B.
	DirectionSellA

	// DirectionSellB means sell base on venue B, buy back on venue A.
	DirectionSellB
)

func (d Direction) String() string {
	switch d {
	case DirectionSellA:
		return "sell_a_buy_b"
	case DirectionSellB:
		return "sell_b_buy_a"
	default:
		return "none"
	}
}

// Spread is the relative price gap between two venue quotes for the same
// pair, expressed in percent of the venue-B price.
type Spread struct {
	Percent   decimal.Decimal
	Direction Direction
	PriceA    decimal.Decimal
	PriceB    decimal.Decimal
}

// CalculateSpread computes (priceA - priceB) / priceB * 100. A positive
// percent means venue A prices the base richer, so base is sold on A. If
// either price is zero the spread is unactionable.
func CalculateSpread(priceA, priceB decimal.Decimal, precision int32) Spread {
	s := Spread{PriceA: priceA, PriceB: priceB, Direction: DirectionNone}
	if priceA.IsZero() || priceB.IsZero() {
		return s
	}

	s.Percent = priceA.Sub(priceB).DivRound(priceB, precision).Mul(decimal.New(100, 0))
	switch s.Percent.Sign() {
	case 1:
		s.Direction = DirectionSellA
	case -1:
		s.Direction = DirectionSellB
	}
	return s
}
