package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/internal/asset"
)

func baseToken(t *testing.T) *asset.Asset {
	t.Helper()
	addr := common.HexToAddress("0x4200000000000000000000000000000000000006")
	return asset.New(asset.TokenID(8453, addr), "WETH", 18)
}

func TestComputeSize(t *testing.T) {
	weth := baseToken(t)

	tests := []struct {
		name       string
		liquidity  int64
		maxBase    int64 // 0 = unbounded
		wantAmount int64
		wantCap    CapReason
	}{
		{"two percent of pool", 1000000, 0, 20000, CapLiquidity},
		{"config cap binds", 1000000, 5000, 5000, CapConfig},
		{"config cap slack", 1000000, 50000, 20000, CapLiquidity},
		{"drained pool", 0, 5000, 0, CapLiquidity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			liquidity := asset.NewAmount(weth, big.NewInt(tt.liquidity))
			maxBase := asset.Zero(weth)
			if tt.maxBase > 0 {
				maxBase = asset.NewAmount(weth, big.NewInt(tt.maxBase))
			}

			d := ComputeSize(liquidity, maxBase)
			if d.Amount.Raw().Int64() != tt.wantAmount {
				t.Fatalf("amount = %s, want %d", d.Amount.Raw(), tt.wantAmount)
			}
			if d.CappedBy != tt.wantCap {
				t.Fatalf("capped by %s, want %s", d.CappedBy, tt.wantCap)
			}
		})
	}
}

func TestJudge(t *testing.T) {
	tests := []struct {
		name       string
		gross      string
		gas        string
		minProfit  string
		wantOK     bool
		wantReason RejectionReason
	}{
		{"clears all guards", "100", "49", "0", true, RejectNone},
		{"gas exactly half", "100", "50", "0", true, RejectNone},
		{"gas dominates", "100", "51", "0", false, RejectGasDominates},
		{"below min profit", "100", "40", "70", false, RejectBelowMinProfit},
		{"meets min profit", "100", "40", "60", true, RejectNone},
		{"repayment shortfall", "-5", "1", "0", false, RejectRepaymentShortfall},
		{"break-even repays, gas rejects", "0", "1", "0", false, RejectGasDominates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Judge(
				decimal.RequireFromString(tt.gross),
				decimal.RequireFromString(tt.gas),
				decimal.RequireFromString(tt.minProfit),
			)
			if p.Profitable != tt.wantOK {
				t.Fatalf("profitable = %v, want %v (reason %s)", p.Profitable, tt.wantOK, p.Reason)
			}
			if p.Reason != tt.wantReason {
				t.Fatalf("reason = %s, want %s", p.Reason, tt.wantReason)
			}
		})
	}
}

func TestJudgeNetProfit(t *testing.T) {
	p := Judge(decimal.RequireFromString("100"), decimal.RequireFromString("30"), decimal.Zero)
	if !p.NetProfit.Equal(decimal.RequireFromString("70")) {
		t.Fatalf("net = %s, want 70", p.NetProfit)
	}
}

func TestMeasureTax(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     string
	}{
		{"five percent skim", "200", "190", "5.00"},
		{"no tax", "200", "200", "0.00"},
		{"better than spot clamps", "200", "210", "0.00"},
		{"zero expectation", "0", "10", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := MeasureTax(decimal.RequireFromString(tt.expected), decimal.RequireFromString(tt.actual))
			if tax.String() != tt.want {
				t.Fatalf("tax = %s, want %s", tax, tt.want)
			}
		})
	}

	if got := HoneypotTax().String(); got != "HONEYPOT" {
		t.Fatalf("honeypot tag = %q", got)
	}
}
