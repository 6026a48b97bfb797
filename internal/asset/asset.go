// Package asset provides a type-safe model for on-chain assets.
// Raw token amounts stay big.Int for exact smallest-unit representation;
// decimal.Decimal is only used at boundaries (pricing, display).
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ID uniquely identifies an asset by chain and contract address.
// For native coins (ETH), address is zero. Symbols are metadata, not identity.
type ID struct {
	chainID uint64
	address common.Address
}

// NativeID creates an ID for a chain's native coin.
func NativeID(chainID uint64) ID {
	return ID{chainID: chainID}
}

// TokenID creates an ID for an ERC20 token.
func TokenID(chainID uint64, addr common.Address) ID {
	if addr == (common.Address{}) {
		panic("asset: token address cannot be zero, use NativeID for native coins")
	}
	return ID{chainID: chainID, address: addr}
}

// ChainID returns the chain ID.
func (id ID) ChainID() uint64 { return id.chainID }

// Address returns the token contract address (zero for native coins).
func (id ID) Address() common.Address { return id.address }

// IsNative returns true for a chain's native coin.
func (id ID) IsNative() bool { return id.address == (common.Address{}) }

// Equals compares two IDs for equality.
func (id ID) Equals(other ID) bool {
	return id.chainID == other.chainID && id.address == other.address
}

func (id ID) String() string {
	if id.IsNative() {
		return fmt.Sprintf("chain:%d/native", id.chainID)
	}
	return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
}

// Asset is the metadata of an on-chain asset: a reference entity with
// stable identity. Immutable once created.
type Asset struct {
	id       ID
	symbol   string
	name     string
	decimals uint8
}

// New creates an Asset with the given identity and metadata.
func New(id ID, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Asset{id: id, symbol: symbol, decimals: decimals}
}

// NewWithName creates an Asset carrying a human-readable name.
func NewWithName(id ID, symbol, name string, decimals uint8) *Asset {
	a := New(id, symbol, decimals)
	a.name = name
	return a
}

// ID returns the unique identifier for this asset.
func (a *Asset) ID() ID { return a.id }

// Symbol returns the ticker symbol (e.g. "WETH", "USDC").
func (a *Asset) Symbol() string { return a.symbol }

// Name returns the human-readable name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 { return a.decimals }

// Address returns the token contract address (zero for native coins).
func (a *Asset) Address() common.Address { return a.id.Address() }

// IsNative returns true if this is the chain's native coin.
func (a *Asset) IsNative() bool { return a.id.IsNative() }

// Equals compares two Assets by identity.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id.Equals(other.id)
}

func (a *Asset) String() string { return a.symbol }
