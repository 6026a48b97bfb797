package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateSpread(t *testing.T) {
	tests := []struct {
		name        string
		priceA      string
		priceB      string
		wantPercent string
		wantDir     Direction
	}{
		{"a richer", "110", "100", "10", DirectionSellA},
		{"b richer", "90", "100", "-10", DirectionSellB},
		{"equal", "100", "100", "0", DirectionNone},
		{"zero a", "0", "100", "0", DirectionNone},
		{"zero b", "100", "0", "0", DirectionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSpread(
				decimal.RequireFromString(tt.priceA),
				decimal.RequireFromString(tt.priceB),
				precision,
			)
			if !got.Percent.Equal(decimal.RequireFromString(tt.wantPercent)) {
				t.Fatalf("percent = %s, want %s", got.Percent, tt.wantPercent)
			}
			if got.Direction != tt.wantDir {
				t.Fatalf("direction = %s, want %s", got.Direction, tt.wantDir)
			}
		})
	}
}
