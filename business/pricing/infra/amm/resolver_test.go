package amm

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

func TestPackLookupStableFlavor(t *testing.T) {
	r, err := NewResolver(nil, asset.NewRegistry(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	venue := &domain.Venue{Name: "aerodrome", Family: domain.FamilyConstantProduct, Stable: true}
	a := common.HexToAddress("0x4200000000000000000000000000000000000006")
	b := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	for _, stable := range []bool{true, false} {
		got, err := r.packLookup(venue, a, b, 0, stable)
		if err != nil {
			t.Fatalf("packLookup(stable=%v): %v", stable, err)
		}
		want, err := r.stableFactory.Pack("getPool", a, b, stable)
		if err != nil {
			t.Fatalf("reference pack: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("stable=%v lookup does not carry the flavor flag", stable)
		}
	}
}

func TestPackLookupFamilies(t *testing.T) {
	r, err := NewResolver(nil, asset.NewRegistry(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	a := common.HexToAddress("0x4200000000000000000000000000000000000006")
	b := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	cases := []struct {
		name  string
		venue *domain.Venue
		want  func() ([]byte, error)
	}{
		{
			name:  "fee-tiered concentrated liquidity",
			venue: &domain.Venue{Family: domain.FamilyConcentratedLiquidity},
			want:  func() ([]byte, error) { return r.clFactory.Pack("getPool", a, b, big.NewInt(3000)) },
		},
		{
			name:  "dynamic-fee concentrated liquidity",
			venue: &domain.Venue{Family: domain.FamilyConcentratedLiquidity, DynamicFee: true},
			want:  func() ([]byte, error) { return r.dynFactory.Pack("poolByPair", a, b) },
		},
		{
			name:  "classic constant product",
			venue: &domain.Venue{Family: domain.FamilyConstantProduct},
			want:  func() ([]byte, error) { return r.cpFactory.Pack("getPair", a, b) },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.packLookup(tc.venue, a, b, 3000, false)
			if err != nil {
				t.Fatalf("packLookup: %v", err)
			}
			want, err := tc.want()
			if err != nil {
				t.Fatalf("reference pack: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatal("lookup calldata does not match the family's factory shape")
			}
		})
	}
}
