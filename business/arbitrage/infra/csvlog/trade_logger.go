// Package csvlog persists cycle records to an append-only CSV file.
package csvlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	arbapp "github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	"github.com/fd1az/amm-arb-bot/business/arbitrage/domain"
	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// Ensure TradeLogger implements the port.
var _ arbapp.TradeLogger = (*TradeLogger)(nil)

// TradeLogger appends one CSV row per evaluation cycle. The header is
// written only when the file starts empty, so restarts keep appending to
// the same log.
type TradeLogger struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	logger logger.LoggerInterface
}

// New opens (or creates) the trade log at path.
func New(path string, log logger.LoggerInterface) (*TradeLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create trade log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	t := &TradeLogger{
		file:   f,
		writer: csv.NewWriter(f),
		logger: log,
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat trade log: %w", err)
	}
	if info.Size() == 0 {
		if err := t.writer.Write(domain.CSVHeader()); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write trade log header: %w", err)
		}
		t.writer.Flush()
	}
	return t, nil
}

// Record appends one row and flushes so a crash loses at most the cycle
// in flight.
func (t *TradeLogger) Record(_ context.Context, rec *domain.CycleRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writer.Write(rec.CSVRow()); err != nil {
		return fmt.Errorf("failed to write trade log row: %w", err)
	}
	t.writer.Flush()
	return t.writer.Error()
}

// Close flushes and closes the underlying file.
func (t *TradeLogger) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writer.Flush()
	if err := t.writer.Error(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}
