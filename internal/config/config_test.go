package config

import "testing"

func validVenue(name, family string) VenueConfig {
	return VenueConfig{
		Name:    name,
		Family:  family,
		Factory: "0x33128a8fC17869897dcE68Ed026d694621f6FDfD",
		Router:  "0x2626664c2603336E57B271c5C0b26F421741e481",
	}
}

func validConfig() Config {
	return Config{
		Chain: ChainConfig{
			RPCURL:       "https://mainnet.base.org",
			ChainID:      8453,
			PollInterval: 2e9,
			RPCTimeout:   15e9,
		},
		VenueA: validVenue("Uniswap V3", "concentrated_liquidity"),
		VenueB: validVenue("Aerodrome V2", "constant_product"),
		Arbitrage: ArbitrageConfig{
			GasLimit:              400000,
			PriceDecimalPrecision: 18,
			Pairs: []PairConfig{{
				Name:       "WETH-USDC",
				BaseToken:  "0x4200000000000000000000000000000000000006",
				QuoteToken: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
				FeeTierA:   500,
			}},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing_rpc_url", mutate: func(c *Config) { c.Chain.RPCURL = "" }, wantErr: true},
		{name: "zero_poll_interval", mutate: func(c *Config) { c.Chain.PollInterval = 0 }, wantErr: true},
		{name: "unknown_family", mutate: func(c *Config) { c.VenueA.Family = "orderbook" }, wantErr: true},
		{name: "bad_factory", mutate: func(c *Config) { c.VenueB.Factory = "not-an-address" }, wantErr: true},
		{name: "zero_gas_limit", mutate: func(c *Config) { c.Arbitrage.GasLimit = 0 }, wantErr: true},
		{name: "no_pairs", mutate: func(c *Config) { c.Arbitrage.Pairs = nil }, wantErr: true},
		{
			name: "live_without_executor",
			mutate: func(c *Config) {
				c.Arbitrage.LiveExecution = true
				c.Arbitrage.ExecutorAddress = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestPairConfigValidate(t *testing.T) {
	weth := "0x4200000000000000000000000000000000000006"
	usdc := "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"

	tests := []struct {
		name    string
		pair    PairConfig
		wantErr bool
	}{
		{name: "valid", pair: PairConfig{Name: "WETH-USDC", BaseToken: weth, QuoteToken: usdc}},
		{name: "missing_name", pair: PairConfig{BaseToken: weth, QuoteToken: usdc}, wantErr: true},
		{name: "bad_base", pair: PairConfig{Name: "x", BaseToken: "zzz", QuoteToken: usdc}, wantErr: true},
		{name: "same_tokens", pair: PairConfig{Name: "x", BaseToken: weth, QuoteToken: weth}, wantErr: true},
		{name: "negative_fee", pair: PairConfig{Name: "x", BaseToken: weth, QuoteToken: usdc, FeeTierA: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pair.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
