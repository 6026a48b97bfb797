package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/business/blockchain/domain"
	"github.com/fd1az/amm-arb-bot/internal/apperror"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

type stubReader struct {
	feeHistory    *ethereum.FeeHistory
	feeHistoryErr error
	gasPrice      *big.Int
	gasPriceErr   error
	callResult    []byte
	callErr       error
}

func (s *stubReader) BlockNumber(context.Context) (uint64, error) { return 0, nil }

func (s *stubReader) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (s *stubReader) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return s.callResult, s.callErr
}

func (s *stubReader) FeeHistory(context.Context, uint64, *big.Int, []float64) (*ethereum.FeeHistory, error) {
	return s.feeHistory, s.feeHistoryErr
}

func (s *stubReader) SuggestGasPrice(context.Context) (*big.Int, error) {
	return s.gasPrice, s.gasPriceErr
}

func (s *stubReader) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (s *stubReader) CodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func newTestOracle(t *testing.T, reader *stubReader, rollup bool) *FeeOracle {
	t.Helper()
	f, err := NewFeeOracle(reader, FeeOracleConfig{Rollup: rollup}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewFeeOracle: %v", err)
	}
	return f
}

func historyWith(baseFee int64, tips ...int64) *ethereum.FeeHistory {
	rows := make([][]*big.Int, len(tips))
	for i, tip := range tips {
		rows[i] = []*big.Int{big.NewInt(tip), big.NewInt(tip * 2), big.NewInt(tip * 8)}
	}
	return &ethereum.FeeHistory{
		BaseFee: []*big.Int{big.NewInt(baseFee - 1), big.NewInt(baseFee)},
		Reward:  rows,
	}
}

func TestQuoteBidFromHistory(t *testing.T) {
	reader := &stubReader{feeHistory: historyWith(100, 10, 20, 30)}
	oracle := newTestOracle(t, reader, false)

	q, err := oracle.QuoteBid(context.Background(), decimal.New(1, 0))
	if err != nil {
		t.Fatalf("QuoteBid: %v", err)
	}
	if q.Class != domain.BidStandard {
		t.Fatalf("class = %s, want Standard", q.Class)
	}
	// Median tip column is 20/40/60, mean 40.
	if q.Tip.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("tip = %s, want 40", q.Tip)
	}
	// Pending base fee is the last entry.
	if q.BaseFee.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("base fee = %s, want 100", q.BaseFee)
	}
	if q.DataCost.Sign() != 0 {
		t.Fatalf("data cost = %s, want 0 off rollups", q.DataCost)
	}
}

func TestQuoteBidFallsBackToSuggestion(t *testing.T) {
	reader := &stubReader{
		feeHistoryErr: fmt.Errorf("method not found"),
		gasPrice:      big.NewInt(5000),
	}
	oracle := newTestOracle(t, reader, false)

	q, err := oracle.QuoteBid(context.Background(), decimal.New(1, 0))
	if err != nil {
		t.Fatalf("QuoteBid: %v", err)
	}
	if q.Class != domain.BidFallback {
		t.Fatalf("class = %s, want Fallback", q.Class)
	}
	if q.EffectiveGasPrice().Cmp(big.NewInt(5000)) != 0 {
		t.Fatalf("effective price = %s, want 5000", q.EffectiveGasPrice())
	}
}

func TestQuoteBidBothPathsDead(t *testing.T) {
	reader := &stubReader{
		feeHistoryErr: fmt.Errorf("method not found"),
		gasPriceErr:   fmt.Errorf("connection refused"),
	}
	oracle := newTestOracle(t, reader, false)

	_, err := oracle.QuoteBid(context.Background(), decimal.New(1, 0))
	if !apperror.IsCode(err, apperror.CodeGasDataUnavailable) {
		t.Fatalf("err = %v, want GAS_DATA_UNAVAILABLE", err)
	}
}

func TestDataCostProbeFailureIsZero(t *testing.T) {
	reader := &stubReader{
		feeHistory: historyWith(100, 10),
		callErr:    fmt.Errorf("execution reverted"),
	}
	oracle := newTestOracle(t, reader, true)

	q, err := oracle.QuoteBid(context.Background(), decimal.New(1, 0))
	if err != nil {
		t.Fatalf("QuoteBid: %v", err)
	}
	if q.DataCost.Sign() != 0 {
		t.Fatalf("data cost = %s, want 0 when probe fails", q.DataCost)
	}
}
