package app

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	blockchaindomain "github.com/fd1az/amm-arb-bot/business/blockchain/domain"
	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

type fakeSpreads struct {
	priceA, priceB string
	err            error
}

func (f *fakeSpreads) SpreadBetween(_ context.Context, _, _ *pricing.Pool, _, _ *asset.Asset, block uint64) (pricing.Spread, pricing.PricePoint, pricing.PricePoint, error) {
	if f.err != nil {
		return pricing.Spread{}, pricing.PricePoint{}, pricing.PricePoint{}, f.err
	}
	a := decimal.RequireFromString(f.priceA)
	b := decimal.RequireFromString(f.priceB)
	return pricing.CalculateSpread(a, b, 18),
		pricing.PricePoint{QuotePerBase: a, AsOfBlock: block},
		pricing.PricePoint{QuotePerBase: b, AsOfBlock: block},
		nil
}

type fakeLiquidity struct {
	balance asset.Amount
}

func (f *fakeLiquidity) PoolBalance(context.Context, *pricing.Pool, *asset.Asset) (asset.Amount, error) {
	return f.balance, nil
}

type simCall struct {
	in  asset.Amount
	out *asset.Asset
}

type fakeSim struct {
	calls   []simCall
	outputs []asset.Amount
	fails   map[int]error // by call index
}

func (f *fakeSim) Simulate(_ context.Context, _ *pricing.Pool, _, tokenOut *asset.Asset, amountIn asset.Amount) (asset.Amount, error) {
	i := len(f.calls)
	f.calls = append(f.calls, simCall{in: amountIn, out: tokenOut})
	if err, ok := f.fails[i]; ok {
		return asset.Amount{}, err
	}
	return f.outputs[i], nil
}

type fakeGas struct {
	quote blockchaindomain.GasQuote
	err   error
}

func (f *fakeGas) QuoteBid(context.Context, decimal.Decimal) (blockchaindomain.GasQuote, error) {
	return f.quote, f.err
}

type allowAll struct{}

func (allowAll) IsTrusted(*asset.Asset) bool { return true }

type allowNone struct{}

func (allowNone) IsTrusted(*asset.Asset) bool { return false }

func gweiAmt(n int64) *big.Int { return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e9)) }

func testPair(t *testing.T) *domain.Pair {
	t.Helper()
	weth := asset.New(asset.TokenID(8453, common.HexToAddress("0x4200000000000000000000000000000000000006")), "WETH", 18)
	usdc := asset.New(asset.TokenID(8453, common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")), "USDC", 6)

	venueA := &pricing.Venue{Name: "uniswap", Family: pricing.FamilyConcentratedLiquidity}
	venueB := &pricing.Venue{Name: "aerodrome", Family: pricing.FamilyConstantProduct}

	return &domain.Pair{
		Name:    "WETH/USDC",
		Base:    weth,
		Quote:   usdc,
		PoolA:   pricing.NewPool(venueA, common.HexToAddress("0x1111111111111111111111111111111111111111"), 3000, weth, usdc),
		PoolB:   pricing.NewPool(venueB, common.HexToAddress("0x2222222222222222222222222222222222222222"), 3000, weth, usdc),
		MaxBase: asset.Zero(weth),
	}
}

func wethRaw(whole, milli int64) *big.Int {
	raw := new(big.Int).Mul(big.NewInt(whole*1000+milli), big.NewInt(1e15))
	return raw
}

func newTestEngine(spreads SpreadSource, liq *fakeLiquidity, sim *fakeSim, gas *fakeGas, trust TrustChecker) *Engine {
	return NewEngine(spreads, liq, sim, gas, trust,
		EngineConfig{GasLimit: 400000, Precision: 18}, logger.NewNop())
}

func TestEvaluateFastRejectSkipsSimulation(t *testing.T) {
	pair := testPair(t)
	sim := &fakeSim{}
	// 0.25% spread cannot cover 0.6% of combined fees.
	engine := newTestEngine(&fakeSpreads{priceA: "100.25", priceB: "100"}, &fakeLiquidity{}, sim, &fakeGas{}, allowNone{})

	rec, plan := engine.Evaluate(context.Background(), pair, 100)
	if plan != nil {
		t.Fatal("fast-rejected cycle must not produce a plan")
	}
	if rec.Reason != domain.RejectSpreadBelowFees {
		t.Fatalf("reason = %s, want spread_below_fees", rec.Reason)
	}
	if len(sim.calls) != 0 {
		t.Fatalf("simulator called %d times on a fast reject", len(sim.calls))
	}
}

func TestEvaluateProfitable(t *testing.T) {
	pair := testPair(t)
	usdc := pair.Quote
	weth := pair.Base

	// 2% spread against 0.6% fees. 100 WETH depth sizes the trade at 2.
	liq := &fakeLiquidity{balance: asset.NewAmount(weth, wethRaw(100, 0))}
	sim := &fakeSim{outputs: []asset.Amount{
		asset.NewAmount(usdc, big.NewInt(203_388_000)), // 203.388 USDC out
		asset.NewAmount(weth, wethRaw(2, 40)),          // 2.040 WETH back
	}}
	gas := &fakeGas{quote: blockchaindomain.GasQuote{
		BaseFee: gweiAmt(1), Tip: gweiAmt(1), MaxFee: gweiAmt(3),
	}}

	engine := newTestEngine(&fakeSpreads{priceA: "102", priceB: "100"}, liq, sim, gas, allowNone{})
	rec, plan := engine.Evaluate(context.Background(), pair, 100)

	if !rec.Profitable || plan == nil {
		t.Fatalf("cycle not profitable: reason %s", rec.Reason)
	}
	if rec.Direction != pricing.DirectionSellA {
		t.Fatalf("direction = %s, want sell_a_buy_b", rec.Direction)
	}
	if plan.Sell != pair.PoolA || plan.Buy != pair.PoolB {
		t.Fatal("plan legs not ordered by spread direction")
	}
	if !rec.SizeBase.Equal(decimal.New(2, 0)) {
		t.Fatalf("size = %s, want 2", rec.SizeBase)
	}
	if !rec.GrossProfit.Equal(decimal.RequireFromString("0.04")) {
		t.Fatalf("gross = %s, want 0.04", rec.GrossProfit)
	}
	// 2 gwei effective over 400k gas is 0.0008 native, base is the wrapper.
	if !rec.GasCostBase.Equal(decimal.RequireFromString("0.0008")) {
		t.Fatalf("gas cost = %s, want 0.0008", rec.GasCostBase)
	}
	if !rec.NetProfit.Equal(decimal.RequireFromString("0.0392")) {
		t.Fatalf("net = %s, want 0.0392", rec.NetProfit)
	}
	if len(sim.calls) != 2 {
		t.Fatalf("simulator called %d times, want 2", len(sim.calls))
	}
	// Leg 2 consumes the whole leg-1 output.
	if sim.calls[1].in.Raw().Cmp(big.NewInt(203_388_000)) != 0 {
		t.Fatalf("leg 2 input = %s, want full leg 1 output", sim.calls[1].in.Raw())
	}
}

func TestEvaluateSellLegRevertIsHoneypot(t *testing.T) {
	pair := testPair(t)
	liq := &fakeLiquidity{balance: asset.NewAmount(pair.Base, wethRaw(100, 0))}
	revert := apperror.New(apperror.CodeSimulationReverted, apperror.WithContext("execution reverted"))
	sim := &fakeSim{fails: map[int]error{0: revert}}

	engine := newTestEngine(&fakeSpreads{priceA: "102", priceB: "100"}, liq, sim, &fakeGas{}, allowNone{})
	rec, plan := engine.Evaluate(context.Background(), pair, 100)

	if plan != nil {
		t.Fatal("reverted leg must not produce a plan")
	}
	if rec.Reason != domain.RejectHoneypot {
		t.Fatalf("reason = %s, want honeypot", rec.Reason)
	}
	if rec.TaxSell.String() != "HONEYPOT" {
		t.Fatalf("sell tax = %s, want HONEYPOT", rec.TaxSell)
	}
	if len(sim.calls) != 1 {
		t.Fatalf("simulator called %d times, leg 2 must be skipped", len(sim.calls))
	}
}

func TestEvaluateTransientSimFaultIsNotHoneypot(t *testing.T) {
	pair := testPair(t)
	liq := &fakeLiquidity{balance: asset.NewAmount(pair.Base, wethRaw(100, 0))}
	sim := &fakeSim{fails: map[int]error{0: fmt.Errorf("connection reset")}}

	engine := newTestEngine(&fakeSpreads{priceA: "102", priceB: "100"}, liq, sim, &fakeGas{}, allowNone{})
	rec, _ := engine.Evaluate(context.Background(), pair, 100)

	if rec.Reason != domain.RejectSimulationFailed {
		t.Fatalf("reason = %s, want simulation_failed", rec.Reason)
	}
	if rec.TaxSell.Honeypot {
		t.Fatal("transient fault must not carry the honeypot tag")
	}
}

func TestEvaluateTrustedTokensBypassSimulation(t *testing.T) {
	pair := testPair(t)
	liq := &fakeLiquidity{balance: asset.NewAmount(pair.Base, wethRaw(100, 0))}
	sim := &fakeSim{}
	gas := &fakeGas{quote: blockchaindomain.GasQuote{
		BaseFee: gweiAmt(1), Tip: gweiAmt(1), MaxFee: gweiAmt(3),
	}}

	engine := newTestEngine(&fakeSpreads{priceA: "102", priceB: "100"}, liq, sim, gas, allowAll{})
	rec, plan := engine.Evaluate(context.Background(), pair, 100)

	if len(sim.calls) != 0 {
		t.Fatalf("simulator called %d times for fully trusted pair", len(sim.calls))
	}
	if !rec.Profitable || plan == nil {
		t.Fatalf("cycle not profitable: reason %s", rec.Reason)
	}
	// Spot projection: 2 WETH sells at 102, buys back at 100.
	if !rec.GrossProfit.Equal(decimal.RequireFromString("0.04")) {
		t.Fatalf("gross = %s, want 0.04", rec.GrossProfit)
	}
	if !rec.TaxSell.Pct.IsZero() || !rec.TaxBuy.Pct.IsZero() {
		t.Fatal("spot projection must measure zero tax")
	}
}

func TestEvaluateGasUnavailable(t *testing.T) {
	pair := testPair(t)
	liq := &fakeLiquidity{balance: asset.NewAmount(pair.Base, wethRaw(100, 0))}
	sim := &fakeSim{outputs: []asset.Amount{
		asset.NewAmount(pair.Quote, big.NewInt(203_388_000)),
		asset.NewAmount(pair.Base, wethRaw(2, 40)),
	}}
	gas := &fakeGas{err: fmt.Errorf("rpc down")}

	engine := newTestEngine(&fakeSpreads{priceA: "102", priceB: "100"}, liq, sim, gas, allowNone{})
	rec, plan := engine.Evaluate(context.Background(), pair, 100)

	if plan != nil || rec.Reason != domain.RejectGasUnavailable {
		t.Fatalf("reason = %s, want gas_unavailable", rec.Reason)
	}
}

func TestEvaluatePriceUnavailable(t *testing.T) {
	pair := testPair(t)
	engine := newTestEngine(&fakeSpreads{err: fmt.Errorf("all probes failed")}, &fakeLiquidity{}, &fakeSim{}, &fakeGas{}, allowNone{})

	rec, plan := engine.Evaluate(context.Background(), pair, 100)
	if plan != nil || rec.Reason != domain.RejectPriceUnavailable {
		t.Fatalf("reason = %s, want price_unavailable", rec.Reason)
	}
}
