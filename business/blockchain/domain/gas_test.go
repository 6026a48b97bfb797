package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e9))
}

func snapshot() FeeSnapshot {
	return FeeSnapshot{
		BaseFee: gwei(10),
		TipP25:  gwei(1),
		TipP50:  gwei(2),
		TipP90:  gwei(8),
	}
}

func TestComputeBid(t *testing.T) {
	tests := []struct {
		name      string
		spreadPct string
		wantTip   *big.Int
		wantClass BidClass
	}{
		{"narrow spread", "1.4", gwei(2), BidStandard},
		{"at threshold", "5", gwei(2), BidStandard},
		{"wide spread", "5.1", new(big.Int).Div(new(big.Int).Mul(gwei(8), big.NewInt(110)), big.NewInt(100)), BidAggressive},
		{"wide negative spread", "-7", new(big.Int).Div(new(big.Int).Mul(gwei(8), big.NewInt(110)), big.NewInt(100)), BidAggressive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ComputeBid(snapshot(), decimal.RequireFromString(tt.spreadPct))
			if q.Tip.Cmp(tt.wantTip) != 0 {
				t.Fatalf("tip = %s, want %s", q.Tip, tt.wantTip)
			}
			if q.Class != tt.wantClass {
				t.Fatalf("class = %s, want %s", q.Class, tt.wantClass)
			}

			wantMax := new(big.Int).Add(new(big.Int).Mul(gwei(10), big.NewInt(2)), q.Tip)
			if q.MaxFee.Cmp(wantMax) != 0 {
				t.Fatalf("max fee = %s, want %s", q.MaxFee, wantMax)
			}
		})
	}
}

func TestEffectiveGasPrice(t *testing.T) {
	q := ComputeBid(snapshot(), decimal.New(1, 0))
	// Effective price is base fee plus tip, not the max-fee ceiling.
	if got, want := q.EffectiveGasPrice(), gwei(12); got.Cmp(want) != 0 {
		t.Fatalf("effective price = %s, want %s", got, want)
	}
}

func TestTotalCostWei(t *testing.T) {
	q := ComputeBid(snapshot(), decimal.New(1, 0))
	q.DataCost = big.NewInt(777)

	want := new(big.Int).Mul(gwei(12), big.NewInt(400000))
	want.Add(want, big.NewInt(777))
	if got := q.TotalCostWei(400000); got.Cmp(want) != 0 {
		t.Fatalf("total cost = %s, want %s", got, want)
	}
}

func TestFallbackBid(t *testing.T) {
	q := FallbackBid(gwei(30))
	if q.Class != BidFallback {
		t.Fatalf("class = %s, want Fallback", q.Class)
	}
	if got := q.EffectiveGasPrice(); got.Cmp(gwei(30)) != 0 {
		t.Fatalf("effective price = %s, want suggested price", got)
	}
}

func TestNativeCostInBase(t *testing.T) {
	// 0.001 native at 3000 base per native is 3 base.
	cost := new(big.Int).Mul(big.NewInt(1e6), big.NewInt(1e9))
	got := NativeCostInBase(cost, decimal.New(3000, 0), 18)
	if !got.Equal(decimal.New(3, 0)) {
		t.Fatalf("cost in base = %s, want 3", got)
	}

	if got := NativeCostInBase(nil, decimal.New(3000, 0), 18); !got.IsZero() {
		t.Fatalf("nil cost = %s, want 0", got)
	}
}
