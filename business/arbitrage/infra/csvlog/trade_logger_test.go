package csvlog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return rows
}

func sampleRecord() *domain.CycleRecord {
	return &domain.CycleRecord{
		Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Pair:        "WETH/USDC",
		Block:       12345,
		PriceA:      decimal.RequireFromString("102"),
		PriceB:      decimal.RequireFromString("100"),
		SpreadPct:   decimal.RequireFromString("2"),
		SizeBase:    decimal.RequireFromString("2"),
		GrossProfit: decimal.RequireFromString("0.04"),
		NetProfit:   decimal.RequireFromString("0.0392"),
		Profitable:  true,
	}
}

func TestTradeLoggerWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	tl, err := New(path, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tl.Record(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: restart must append, not rewrite the header.
	tl, err = New(path, logger.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rec := sampleRecord()
	rec.Profitable = false
	rec.Reason = domain.RejectGasDominates
	if err := tl.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record after reopen: %v", err)
	}
	tl.Close()

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus two records", len(rows))
	}
	if rows[0][0] != "timestamp" {
		t.Fatalf("first row is %v, want header", rows[0])
	}
	if rows[2][len(rows[2])-2] != "gas_dominates" {
		t.Fatalf("reason column = %q, want gas_dominates", rows[2][len(rows[2])-2])
	}
}

func TestTradeLoggerColumnsMatchHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	tl, err := New(path, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tl.Record(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	tl.Close()

	rows := readAll(t, path)
	if len(rows[0]) != len(rows[1]) {
		t.Fatalf("header has %d columns, row has %d", len(rows[0]), len(rows[1]))
	}
}
