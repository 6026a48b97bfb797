package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs for the networks the bot runs on.
const (
	ChainIDArbitrum uint64 = 42161
	ChainIDBase     uint64 = 8453
)

// Well-known token addresses.
var (
	ArbitrumWETH   = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	ArbitrumWstETH = common.HexToAddress("0x5979D7b546E38E414F7E9822514be443A4800529")
	ArbitrumUSDC   = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	ArbitrumARB    = common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548")

	BaseWETH  = common.HexToAddress("0x4200000000000000000000000000000000000006")
	BaseUSDC  = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	BaseCbETH = common.HexToAddress("0x2Ae3F1Ec7F1F5012CFEab0185bfc7aa3cf0DEc22")
	BaseAERO  = common.HexToAddress("0x940181a94A35A4569E4529A3CDfB74e38FD98631")
)

// wrappedNative maps each supported chain to its canonical wrapped-native
// token.
var wrappedNative = map[uint64]common.Address{
	ChainIDArbitrum: ArbitrumWETH,
	ChainIDBase:     BaseWETH,
}

// IsWrappedNative reports whether the asset is the chain's canonical
// native-coin wrapper.
func IsWrappedNative(a *Asset) bool {
	if a == nil {
		return false
	}
	addr, ok := wrappedNative[a.ID().ChainID()]
	return ok && addr == a.Address()
}

// DefaultRegistry returns a registry pre-populated with the native coins and
// common tokens of the supported networks. Token metadata for anything else
// is resolved on-chain at setup time and added to this registry.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(NewWithName(NativeID(ChainIDArbitrum), "ETH", "Ether", 18))
	r.Register(NewWithName(TokenID(ChainIDArbitrum, ArbitrumWETH), "WETH", "Wrapped Ether", 18))
	r.Register(NewWithName(TokenID(ChainIDArbitrum, ArbitrumWstETH), "wstETH", "Wrapped stETH", 18))
	r.Register(NewWithName(TokenID(ChainIDArbitrum, ArbitrumUSDC), "USDC", "USD Coin", 6))
	r.Register(NewWithName(TokenID(ChainIDArbitrum, ArbitrumARB), "ARB", "Arbitrum", 18))

	r.Register(NewWithName(NativeID(ChainIDBase), "ETH", "Ether", 18))
	r.Register(NewWithName(TokenID(ChainIDBase, BaseWETH), "WETH", "Wrapped Ether", 18))
	r.Register(NewWithName(TokenID(ChainIDBase, BaseUSDC), "USDC", "USD Coin", 6))
	r.Register(NewWithName(TokenID(ChainIDBase, BaseCbETH), "cbETH", "Coinbase Wrapped Staked ETH", 18))
	r.Register(NewWithName(TokenID(ChainIDBase, BaseAERO), "AERO", "Aerodrome", 18))

	return r
}
