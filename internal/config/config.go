// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/fd1az/amm-arb-bot/internal/apperror"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	VenueA    VenueConfig     `mapstructure:"venue_a"`
	VenueB    VenueConfig     `mapstructure:"venue_b"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ChainConfig holds RPC endpoint and chain-cost-model settings.
type ChainConfig struct {
	RPCURL            string        `mapstructure:"rpc_url"`
	ChainID           uint64        `mapstructure:"chain_id"`
	Rollup            bool          `mapstructure:"rollup"`
	DataFeeOracle     string        `mapstructure:"data_fee_oracle"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	RPCTimeout        time.Duration `mapstructure:"rpc_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// DataFeeOracleAddress returns the rollup data-fee oracle contract address.
func (c *ChainConfig) DataFeeOracleAddress() common.Address {
	return common.HexToAddress(c.DataFeeOracle)
}

// Venue family identifiers.
const (
	FamilyConcentratedLiquidity = "concentrated_liquidity"
	FamilyConstantProduct       = "constant_product"
)

// VenueConfig describes one AMM venue.
type VenueConfig struct {
	Name       string `mapstructure:"name"`
	Family     string `mapstructure:"family"` // "concentrated_liquidity" | "constant_product"
	DynamicFee bool   `mapstructure:"dynamic_fee"`
	Stable     bool   `mapstructure:"stable"` // constant-product factories taking (a, b, stable)
	Factory    string `mapstructure:"factory"`
	Router     string `mapstructure:"router"`
}

// FactoryAddress returns the factory address as common.Address.
func (c *VenueConfig) FactoryAddress() common.Address {
	return common.HexToAddress(c.Factory)
}

// RouterAddress returns the router address as common.Address.
func (c *VenueConfig) RouterAddress() common.Address {
	return common.HexToAddress(c.Router)
}

// Validate checks the venue definition.
func (c *VenueConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("venue name is required")
	}
	switch c.Family {
	case FamilyConcentratedLiquidity, FamilyConstantProduct:
	default:
		return fmt.Errorf("venue %s: unknown family %q", c.Name, c.Family)
	}
	if !common.IsHexAddress(c.Factory) {
		return fmt.Errorf("venue %s: invalid factory address %q", c.Name, c.Factory)
	}
	if !common.IsHexAddress(c.Router) {
		return fmt.Errorf("venue %s: invalid router address %q", c.Name, c.Router)
	}
	return nil
}

// PairConfig describes one monitored token pair.
type PairConfig struct {
	Name          string `mapstructure:"name"`
	BaseToken     string `mapstructure:"base_token"`
	QuoteToken    string `mapstructure:"quote_token"`
	FeeTierA      int    `mapstructure:"fee_tier_a"` // hundredths of a bip
	FeeTierB      int    `mapstructure:"fee_tier_b"`
	Stable        bool   `mapstructure:"stable"`          // stable pool flavor on solidly-style factories
	MaxBaseAmount string `mapstructure:"max_base_amount"` // whole units, "" = unbounded
	MinProfitBase string `mapstructure:"min_profit_base"` // whole units, "" = none
}

// BaseTokenAddress returns the base token address.
func (p *PairConfig) BaseTokenAddress() common.Address {
	return common.HexToAddress(p.BaseToken)
}

// QuoteTokenAddress returns the quote token address.
func (p *PairConfig) QuoteTokenAddress() common.Address {
	return common.HexToAddress(p.QuoteToken)
}

// Validate checks the pair definition. A failing pair is skipped at setup,
// the remaining pairs proceed.
func (p *PairConfig) Validate() error {
	if p.Name == "" {
		return apperror.New(apperror.CodeConfigInvalid, apperror.WithContext("pair name is required"))
	}
	if !common.IsHexAddress(p.BaseToken) {
		return apperror.New(apperror.CodeConfigInvalid,
			apperror.WithContext(fmt.Sprintf("pair %s: invalid base token %q", p.Name, p.BaseToken)))
	}
	if !common.IsHexAddress(p.QuoteToken) {
		return apperror.New(apperror.CodeConfigInvalid,
			apperror.WithContext(fmt.Sprintf("pair %s: invalid quote token %q", p.Name, p.QuoteToken)))
	}
	if p.BaseTokenAddress() == p.QuoteTokenAddress() {
		return apperror.New(apperror.CodeConfigInvalid,
			apperror.WithContext(fmt.Sprintf("pair %s: base and quote are the same token", p.Name)))
	}
	if p.FeeTierA < 0 || p.FeeTierB < 0 {
		return apperror.New(apperror.CodeConfigInvalid,
			apperror.WithContext(fmt.Sprintf("pair %s: negative fee tier", p.Name)))
	}
	return nil
}

// ArbitrageConfig holds detection and execution settings.
type ArbitrageConfig struct {
	Pairs                 []PairConfig `mapstructure:"pairs"`
	GasLimit              uint64       `mapstructure:"gas_limit"`
	PriceDecimalPrecision int32        `mapstructure:"price_decimal_precision"`
	LiveExecution         bool         `mapstructure:"live_execution"`
	ExecutorAddress       string       `mapstructure:"executor_address"`
	PrivateKey            string       `mapstructure:"private_key"`
	TradeLogPath          string       `mapstructure:"trade_log_path"`
	TrustedTokens         []string     `mapstructure:"trusted_tokens"`
}

// ExecutorAddressHex returns the executor contract address.
func (c *ArbitrageConfig) ExecutorAddressHex() common.Address {
	return common.HexToAddress(c.ExecutorAddress)
}

// TrustedTokenAddresses returns the allow-listed token addresses that may
// bypass swap simulation.
func (c *ArbitrageConfig) TrustedTokenAddresses() []common.Address {
	out := make([]common.Address, 0, len(c.TrustedTokens))
	for _, t := range c.TrustedTokens {
		if common.IsHexAddress(t) {
			out = append(out, common.HexToAddress(t))
		}
	}
	return out
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Config file is optional, env vars can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("chain.rpc_url", "ARB_CHAIN_RPC_URL")
	_ = v.BindEnv("chain.chain_id", "ARB_CHAIN_ID")
	_ = v.BindEnv("app.log_level", "ARB_LOG_LEVEL")
	_ = v.BindEnv("arbitrage.live_execution", "ARB_LIVE_EXECUTION")
	_ = v.BindEnv("arbitrage.executor_address", "ARB_EXECUTOR_ADDRESS")
	_ = v.BindEnv("arbitrage.private_key", "ARB_PRIVATE_KEY")
	_ = v.BindEnv("telemetry.otlp_endpoint", "ARB_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "amm-arb-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("chain.poll_interval", 2*time.Second)
	v.SetDefault("chain.rpc_timeout", 15*time.Second)
	v.SetDefault("chain.requests_per_second", 20.0)
	// OP-stack predeploy; rollups on other stacks override this.
	v.SetDefault("chain.data_fee_oracle", "0x420000000000000000000000000000000000000F")

	v.SetDefault("arbitrage.gas_limit", 400000)
	v.SetDefault("arbitrage.price_decimal_precision", 18)
	v.SetDefault("arbitrage.live_execution", false)
	v.SetDefault("arbitrage.trade_log_path", "trade_logs.csv")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "amm-arb-bot")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate checks global configuration. Per-pair problems are not fatal
// here; they are surfaced at pair setup so other pairs still run.
func (c *Config) Validate() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if c.Chain.PollInterval <= 0 {
		return fmt.Errorf("chain.poll_interval must be positive")
	}
	if c.Chain.RPCTimeout <= 0 {
		return fmt.Errorf("chain.rpc_timeout must be positive")
	}
	if err := c.VenueA.Validate(); err != nil {
		return err
	}
	if err := c.VenueB.Validate(); err != nil {
		return err
	}
	if c.Arbitrage.GasLimit == 0 {
		return fmt.Errorf("arbitrage.gas_limit must be positive")
	}
	if c.Arbitrage.PriceDecimalPrecision <= 0 {
		return fmt.Errorf("arbitrage.price_decimal_precision must be positive")
	}
	if len(c.Arbitrage.Pairs) == 0 {
		return fmt.Errorf("arbitrage.pairs must not be empty")
	}
	if c.Arbitrage.LiveExecution {
		if !common.IsHexAddress(c.Arbitrage.ExecutorAddress) {
			return fmt.Errorf("arbitrage.executor_address is required for live execution")
		}
		if c.Arbitrage.PrivateKey == "" {
			return fmt.Errorf("arbitrage.private_key is required for live execution")
		}
	}
	return nil
}
