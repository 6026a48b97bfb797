package asset

import (
	"math/big"
	"testing"
)

func TestParseAmount(t *testing.T) {
	weth := New(TokenID(ChainIDBase, BaseWETH), "WETH", 18)
	usdc := New(TokenID(ChainIDBase, BaseUSDC), "USDC", 6)

	tests := []struct {
		name    string
		asset   *Asset
		input   string
		wantRaw string
		wantErr bool
	}{
		{name: "whole_eth", asset: weth, input: "1", wantRaw: "1000000000000000000"},
		{name: "fractional_eth", asset: weth, input: "0.5", wantRaw: "500000000000000000"},
		{name: "usdc_six_decimals", asset: usdc, input: "2500.25", wantRaw: "2500250000"},
		{name: "zero", asset: weth, input: "0", wantRaw: "0"},
		{name: "too_many_decimals", asset: usdc, input: "0.0000001", wantErr: true},
		{name: "negative", asset: weth, input: "-1", wantErr: true},
		{name: "garbage", asset: weth, input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.asset, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %s", tt.input, got.Raw())
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.Raw().String() != tt.wantRaw {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.Raw(), tt.wantRaw)
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	weth := New(TokenID(ChainIDBase, BaseWETH), "WETH", 18)
	usdc := New(TokenID(ChainIDBase, BaseUSDC), "USDC", 6)

	a := NewAmount(weth, big.NewInt(1000))
	b := NewAmount(weth, big.NewInt(400))

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Raw().Int64() != 1400 {
		t.Errorf("Add = %d, want 1400", sum.Raw().Int64())
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if diff.Raw().Int64() != 600 {
		t.Errorf("Sub = %d, want 600", diff.Raw().Int64())
	}

	if _, err := b.Sub(a); err == nil {
		t.Error("Sub underflow should fail")
	}

	other := NewAmount(usdc, big.NewInt(400))
	if _, err := a.Add(other); err == nil {
		t.Error("Add across assets should fail")
	}
}

func TestAmountImmutability(t *testing.T) {
	weth := New(TokenID(ChainIDBase, BaseWETH), "WETH", 18)

	raw := big.NewInt(100)
	amt := NewAmount(weth, raw)

	raw.SetInt64(999)
	if amt.Raw().Int64() != 100 {
		t.Error("Amount must defensively copy its raw value")
	}

	out := amt.Raw()
	out.SetInt64(5)
	if amt.Raw().Int64() != 100 {
		t.Error("Raw() must return a copy")
	}
}

func TestToDecimal(t *testing.T) {
	weth := New(TokenID(ChainIDBase, BaseWETH), "WETH", 18)

	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	amt := NewAmount(weth, raw)

	if got := amt.ToDecimal().String(); got != "1.5" {
		t.Errorf("ToDecimal = %s, want 1.5", got)
	}
}
