package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/amm-arb-bot/business/blockchain/app"
	"github.com/fd1az/amm-arb-bot/business/blockchain/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/cache"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// Ensure FeeOracle implements GasOracle.
var _ app.GasOracle = (*FeeOracle)(nil)

// Fee history sampling parameters.
const (
	feeHistoryBlocks = 5
	dataCostCacheTTL = 12 * time.Second
)

var rewardPercentiles = []float64{25, 50, 90}

// dataCostProbeSize is the payload length used to probe the rollup data
// fee. Swap calldata lands in this neighborhood.
const dataCostProbeSize = 800

// l1FeeOracleABI is the rollup predeploy quoting L1 data fees.
const l1FeeOracleABI = `[
	{
		"inputs": [{"internalType": "bytes", "name": "_data", "type": "bytes"}],
		"name": "getL1Fee",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// FeeOracleConfig holds the rollup settings for data-cost probing.
type FeeOracleConfig struct {
	Rollup        bool
	DataFeeOracle common.Address
}

// FeeOracle derives gas bids from eth_feeHistory and probes the rollup
// predeploy for L1 data costs. Fee history failing degrades to the node's
// gas price suggestion; the data-cost probe failing degrades to zero.
type FeeOracle struct {
	reader app.ChainReader
	cfg    FeeOracleConfig
	oracle abi.ABI
	logger logger.LoggerInterface

	dataCostCache *cache.Cache[string, *big.Int]
	tracer        trace.Tracer
}

// NewFeeOracle creates a FeeOracle over the chain reader.
func NewFeeOracle(reader app.ChainReader, cfg FeeOracleConfig, log logger.LoggerInterface) (*FeeOracle, error) {
	parsed, err := abi.JSON(strings.NewReader(l1FeeOracleABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fee oracle ABI: %w", err)
	}
	return &FeeOracle{
		reader:        reader,
		cfg:           cfg,
		oracle:        parsed,
		logger:        log,
		dataCostCache: cache.New[string, *big.Int](time.Minute),
		tracer:        otel.Tracer(tracerName),
	}, nil
}

// QuoteBid derives the bid for the next transaction. The spread decides
// aggressiveness; a dead fee-history endpoint falls back to the node's
// suggestion rather than aborting the cycle.
func (f *FeeOracle) QuoteBid(ctx context.Context, spreadPct decimal.Decimal) (domain.GasQuote, error) {
	ctx, span := f.tracer.Start(ctx, "gas.quote_bid",
		trace.WithAttributes(attribute.String("spread_pct", spreadPct.String())),
	)
	defer span.End()

	var quote domain.GasQuote
	snap, err := f.snapshot(ctx)
	if err != nil {
		f.logger.Warn(ctx, "fee history unavailable, falling back to suggested price", "error", err)
		span.AddEvent("fee_history_fallback")

		suggested, gpErr := f.reader.SuggestGasPrice(ctx)
		if gpErr != nil {
			span.SetStatus(codes.Error, "no gas data")
			return domain.GasQuote{}, apperror.New(apperror.CodeGasDataUnavailable,
				apperror.WithCause(gpErr),
				apperror.WithContext("both fee history and gas price suggestion failed"),
			)
		}
		quote = domain.FallbackBid(suggested)
	} else {
		quote = domain.ComputeBid(snap, spreadPct)
	}

	quote.DataCost = f.dataCost(ctx)

	span.SetAttributes(
		attribute.String("class", quote.Class.String()),
		attribute.String("tip_wei", quote.Tip.String()),
		attribute.String("max_fee_wei", quote.MaxFee.String()),
	)
	span.SetStatus(codes.Ok, "bid quoted")
	return quote, nil
}

// snapshot samples fee history and reduces each percentile column to its
// mean over the window.
func (f *FeeOracle) snapshot(ctx context.Context) (domain.FeeSnapshot, error) {
	hist, err := f.reader.FeeHistory(ctx, feeHistoryBlocks, nil, rewardPercentiles)
	if err != nil {
		return domain.FeeSnapshot{}, err
	}
	if len(hist.BaseFee) == 0 || len(hist.Reward) == 0 {
		return domain.FeeSnapshot{}, fmt.Errorf("empty fee history")
	}

	snap := domain.FeeSnapshot{
		// BaseFee carries one extra entry: the pending block's fee.
		BaseFee: hist.BaseFee[len(hist.BaseFee)-1],
		TipP25:  meanColumn(hist.Reward, 0),
		TipP50:  meanColumn(hist.Reward, 1),
		TipP90:  meanColumn(hist.Reward, 2),
	}
	if snap.BaseFee == nil || snap.BaseFee.Sign() == 0 {
		return domain.FeeSnapshot{}, fmt.Errorf("zero base fee in history")
	}
	return snap, nil
}

func meanColumn(rewards [][]*big.Int, col int) *big.Int {
	sum := new(big.Int)
	n := 0
	for _, row := range rewards {
		if col >= len(row) || row[col] == nil {
			continue
		}
		sum.Add(sum, row[col])
		n++
	}
	if n == 0 {
		return big.NewInt(0)
	}
	return sum.Div(sum, big.NewInt(int64(n)))
}

// dataCost probes the rollup predeploy for the L1 fee of a representative
// payload. Non-rollup chains and probe failures both yield zero.
func (f *FeeOracle) dataCost(ctx context.Context) *big.Int {
	if !f.cfg.Rollup {
		return big.NewInt(0)
	}
	if cached, ok := f.dataCostCache.Get(ctx, "probe"); ok {
		return cached
	}

	callData, err := f.oracle.Pack("getL1Fee", make([]byte, dataCostProbeSize))
	if err != nil {
		f.logger.Warn(ctx, "data cost probe encode failed", "error", err)
		return big.NewInt(0)
	}

	oracleAddr := f.cfg.DataFeeOracle
	result, err := f.reader.CallContract(ctx, ethereum.CallMsg{
		To:   &oracleAddr,
		Data: callData,
	}, nil)
	if err != nil {
		f.logger.Warn(ctx, "data cost probe failed, assuming zero", "error", err)
		return big.NewInt(0)
	}

	outputs, err := f.oracle.Unpack("getL1Fee", result)
	if err != nil || len(outputs) == 0 {
		f.logger.Warn(ctx, "data cost probe undecodable, assuming zero", "error", err)
		return big.NewInt(0)
	}
	fee, ok := outputs[0].(*big.Int)
	if !ok {
		return big.NewInt(0)
	}

	f.dataCostCache.Set(ctx, "probe", fee, dataCostCacheTTL)
	return fee
}
