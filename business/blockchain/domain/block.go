// Package domain contains the blockchain context's core types: blocks,
// fee data, and gas bid policy.
package domain

import (
	"time"
)

// Block is the minimal view of a chain head the polling loop needs.
type Block struct {
	Number    uint64
	Timestamp time.Time
}

// BlockRange is a closed interval of block numbers scanned for swap logs.
type BlockRange struct {
	From uint64
	To   uint64
}

// Empty reports whether the range covers no blocks.
func (r BlockRange) Empty() bool {
	return r.To < r.From
}
