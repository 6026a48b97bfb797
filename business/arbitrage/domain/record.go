package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
)

// CycleRecord is one evaluation cycle flattened for the trade log. Every
// cycle produces a record, rejected ones included, so the log doubles as
// an audit trail for tuning thresholds.
type CycleRecord struct {
	Timestamp time.Time
	Pair      string
	Block     uint64

	PriceA    decimal.Decimal
	PriceB    decimal.Decimal
	SpreadPct decimal.Decimal
	Direction pricing.Direction

	SizeBase    decimal.Decimal
	CappedBy    string
	TaxSell     Tax
	TaxBuy      Tax
	QuoteOut    decimal.Decimal // leg 1 output, quote units
	BaseBack    decimal.Decimal // leg 2 output, base units
	GasClass    string
	GasCostBase decimal.Decimal
	GrossProfit decimal.Decimal
	NetProfit   decimal.Decimal

	Profitable bool
	Reason     RejectionReason
	Executed   bool
}

// CSVHeader is the column layout of the trade log.
func CSVHeader() []string {
	return []string{
		"timestamp", "pair", "block",
		"price_a", "price_b", "spread_pct", "direction",
		"size_base", "capped_by", "tax_sell", "tax_buy",
		"quote_out", "base_back",
		"gas_class", "gas_cost_base",
		"gross_profit", "net_profit",
		"profitable", "reason", "executed",
	}
}

// CSVRow flattens the record in header order.
func (r *CycleRecord) CSVRow() []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Pair,
		strconv.FormatUint(r.Block, 10),
		r.PriceA.String(),
		r.PriceB.String(),
		r.SpreadPct.StringFixed(4),
		r.Direction.String(),
		r.SizeBase.String(),
		r.CappedBy,
		r.TaxSell.String(),
		r.TaxBuy.String(),
		r.QuoteOut.String(),
		r.BaseBack.String(),
		r.GasClass,
		r.GasCostBase.String(),
		r.GrossProfit.String(),
		r.NetProfit.String(),
		strconv.FormatBool(r.Profitable),
		r.Reason.String(),
		strconv.FormatBool(r.Executed),
	}
}
