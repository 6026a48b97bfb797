// Package trust implements the trust-list port over a static allow list.
package trust

import (
	"github.com/ethereum/go-ethereum/common"

	arbapp "github.com/fd1az/amm-arb-bot/business/arbitrage/app"
	"github.com/fd1az/amm-arb-bot/internal/asset"
)

// Ensure Static implements the port.
var _ arbapp.TrustChecker = (*Static)(nil)

// Static answers trust questions from a fixed address set loaded at
// startup. The chain's wrapped native coin is always trusted.
type Static struct {
	allowed map[common.Address]struct{}
}

// New creates a Static trust list.
func New(addrs []common.Address) *Static {
	s := &Static{allowed: make(map[common.Address]struct{}, len(addrs))}
	for _, a := range addrs {
		s.allowed[a] = struct{}{}
	}
	return s
}

// IsTrusted reports whether the token is allow-listed.
func (s *Static) IsTrusted(token *asset.Asset) bool {
	if token == nil {
		return false
	}
	if asset.IsWrappedNative(token) {
		return true
	}
	_, ok := s.allowed[token.Address()]
	return ok
}
