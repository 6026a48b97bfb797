package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	blockchainapp "github.com/fd1az/amm-arb-bot/business/blockchain/app"
	blockchaindomain "github.com/fd1az/amm-arb-bot/business/blockchain/domain"
	pricingapp "github.com/fd1az/amm-arb-bot/business/pricing/app"
	pricing "github.com/fd1az/amm-arb-bot/business/pricing/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/asset"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

const tracerName = "arbitrage"

// SpreadSource quotes both venues and computes the gap. Satisfied by the
// pricing context's oracle.
type SpreadSource interface {
	SpreadBetween(ctx context.Context, poolA, poolB *pricing.Pool, base, quote *asset.Asset, asOfBlock uint64) (pricing.Spread, pricing.PricePoint, pricing.PricePoint, error)
}

// EngineConfig holds the evaluation parameters shared by all pairs.
type EngineConfig struct {
	GasLimit  uint64
	Precision int32
}

// Engine runs one full evaluation per pair per cycle: spread, sizing,
// both simulation legs, gas, and the final profit verdict. Every outcome
// lands in a CycleRecord; a plan comes back only for profitable cycles.
// Evaluation never panics: every upstream failure degrades into a reason.
type Engine struct {
	spreads   SpreadSource
	liquidity pricingapp.LiquidityReader
	sim       SwapSimulator
	gas       blockchainapp.GasOracle
	trust     TrustChecker
	cfg       EngineConfig
	logger    logger.LoggerInterface
	tracer    trace.Tracer
}

// NewEngine creates an Engine.
func NewEngine(
	spreads SpreadSource,
	liquidity pricingapp.LiquidityReader,
	sim SwapSimulator,
	gas blockchainapp.GasOracle,
	trust TrustChecker,
	cfg EngineConfig,
	log logger.LoggerInterface,
) *Engine {
	return &Engine{
		spreads:   spreads,
		liquidity: liquidity,
		sim:       sim,
		gas:       gas,
		trust:     trust,
		cfg:       cfg,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
}

// Evaluate runs the full pipeline for one pair at one block. The record
// is always populated; plan is non-nil only when the cycle is profitable.
func (e *Engine) Evaluate(ctx context.Context, pair *domain.Pair, block uint64) (*domain.CycleRecord, *domain.ExecutionPlan) {
	ctx, span := e.tracer.Start(ctx, "arbitrage.evaluate",
		trace.WithAttributes(
			attribute.String("pair", pair.Name),
			attribute.Int64("block", int64(block)),
		),
	)
	defer span.End()

	rec := &domain.CycleRecord{
		Timestamp: time.Now().UTC(),
		Pair:      pair.Name,
		Block:     block,
	}

	spread, priceA, priceB, err := e.spreads.SpreadBetween(ctx, pair.PoolA, pair.PoolB, pair.Base, pair.Quote, block)
	if err != nil {
		e.logger.Warn(ctx, "price derivation failed", "pair", pair.Name, "error", err)
		return e.reject(span, rec, domain.RejectPriceUnavailable), nil
	}
	rec.PriceA = priceA.QuotePerBase
	rec.PriceB = priceB.QuotePerBase
	rec.SpreadPct = spread.Percent
	rec.Direction = spread.Direction

	// Fast reject: a spread that cannot even cover both swap fees is not
	// worth a single extra RPC.
	if spread.Direction == pricing.DirectionNone || !spread.Percent.Abs().GreaterThan(pair.FeeSumPercent()) {
		return e.reject(span, rec, domain.RejectSpreadBelowFees), nil
	}

	sell, buy := pair.SellBuy(spread.Direction)
	sellPrice, buyPrice := priceA, priceB
	if spread.Direction == pricing.DirectionSellB {
		sellPrice, buyPrice = priceB, priceA
	}

	liquidity, err := e.liquidity.PoolBalance(ctx, sell, pair.Base)
	if err != nil {
		e.logger.Warn(ctx, "liquidity read failed", "pair", pair.Name, "error", err)
		return e.reject(span, rec, domain.RejectNoSize), nil
	}
	sizing := domain.ComputeSize(liquidity, pair.MaxBase)
	rec.SizeBase = sizing.Amount.ToDecimal()
	rec.CappedBy = sizing.CappedBy.String()
	if sizing.Amount.IsZero() {
		return e.reject(span, rec, domain.RejectNoSize), nil
	}

	// Leg 1: sell base for quote on the richer venue. A trusted output
	// token skips the router call and projects the output at spot.
	expectedQuote := sizing.Amount.ToDecimal().Mul(sellPrice.QuotePerBase)
	var quoteOut asset.Amount
	if e.isTrusted(pair.Quote) {
		quoteOut, err = asset.FromDecimal(pair.Quote, expectedQuote)
	} else {
		quoteOut, err = e.sim.Simulate(ctx, sell, pair.Base, pair.Quote, sizing.Amount)
	}
	if err != nil {
		return e.legFailed(ctx, span, rec, pair, &rec.TaxSell, "sell leg simulation failed", err), nil
	}
	rec.QuoteOut = quoteOut.ToDecimal()
	rec.TaxSell = domain.MeasureTax(expectedQuote, quoteOut.ToDecimal())

	// Leg 2: buy base back on the cheaper venue with the full output.
	expectedBase := quoteOut.ToDecimal().DivRound(buyPrice.QuotePerBase, e.cfg.Precision)
	var baseBack asset.Amount
	if e.isTrusted(pair.Base) {
		baseBack, err = asset.FromDecimal(pair.Base, expectedBase)
	} else {
		baseBack, err = e.sim.Simulate(ctx, buy, pair.Quote, pair.Base, quoteOut)
	}
	if err != nil {
		return e.legFailed(ctx, span, rec, pair, &rec.TaxBuy, "buy leg simulation failed", err), nil
	}
	rec.BaseBack = baseBack.ToDecimal()
	rec.TaxBuy = domain.MeasureTax(expectedBase, baseBack.ToDecimal())

	gross := baseBack.ToDecimal().Sub(sizing.Amount.ToDecimal())

	gasQuote, err := e.gas.QuoteBid(ctx, spread.Percent)
	if err != nil {
		e.logger.Warn(ctx, "gas quote failed", "pair", pair.Name, "error", err)
		return e.reject(span, rec, domain.RejectGasUnavailable), nil
	}
	rec.GasClass = gasQuote.Class.String()
	rec.GasCostBase = blockchaindomain.NativeCostInBase(
		gasQuote.TotalCostWei(e.cfg.GasLimit),
		e.basePerNative(ctx, pair, sellPrice.QuotePerBase),
		e.cfg.Precision,
	)

	prof := domain.Judge(gross, rec.GasCostBase, pair.MinProfit)
	rec.GrossProfit = prof.GrossProfit
	rec.NetProfit = prof.NetProfit
	if !prof.Profitable {
		return e.reject(span, rec, prof.Reason), nil
	}

	rec.Profitable = true
	span.SetAttributes(
		attribute.String("net_profit", prof.NetProfit.String()),
		attribute.String("direction", spread.Direction.String()),
	)
	span.SetStatus(codes.Ok, "profitable")

	return rec, &domain.ExecutionPlan{
		Pair:       pair,
		Sell:       sell,
		Buy:        buy,
		AmountBase: sizing.Amount,
		MinBaseOut: sizing.Amount,
		Tip:        gasQuote.Tip,
		MaxFee:     gasQuote.MaxFee,
		GasLimit:   e.cfg.GasLimit,
	}
}

func (e *Engine) reject(span trace.Span, rec *domain.CycleRecord, reason domain.RejectionReason) *domain.CycleRecord {
	rec.Reason = reason
	span.SetAttributes(attribute.String("reason", reason.String()))
	span.SetStatus(codes.Ok, "rejected")
	return rec
}

func (e *Engine) isTrusted(token *asset.Asset) bool {
	return e.trust != nil && e.trust.IsTrusted(token)
}

// legFailed classifies a failed leg. Trusted tokens never reach here, so
// a router revert is the classic honeypot signature; anything else is a
// transient simulation fault.
func (e *Engine) legFailed(ctx context.Context, span trace.Span, rec *domain.CycleRecord, pair *domain.Pair, tax *domain.Tax, msg string, err error) *domain.CycleRecord {
	e.logger.Warn(ctx, msg, "pair", pair.Name, "error", err)
	if !apperror.IsCode(err, apperror.CodeSimulationReverted) {
		return e.reject(span, rec, domain.RejectSimulationFailed)
	}
	*tax = domain.HoneypotTax()
	return e.reject(span, rec, domain.RejectHoneypot)
}

// basePerNative converts wei costs into base units. When the base token
// is the wrapped native the rate is one; when the quote side is, the
// sell-side price inverts into it. Anything else falls back to parity
// with a warning, which overstates gas for cheap base tokens and is the
// safe direction to err.
func (e *Engine) basePerNative(ctx context.Context, pair *domain.Pair, sellQuotePerBase decimal.Decimal) decimal.Decimal {
	one := decimal.New(1, 0)
	if asset.IsWrappedNative(pair.Base) {
		return one
	}
	if asset.IsWrappedNative(pair.Quote) && !sellQuotePerBase.IsZero() {
		return one.DivRound(sellQuotePerBase, e.cfg.Precision)
	}
	e.logger.Warn(ctx, "no native leg in pair, assuming parity for gas conversion", "pair", pair.Name)
	return one
}
