package metrics

// ProviderCfg configures one export backend.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Insecure bool
}

// Config collects metric provider settings.
type Config struct {
	ServiceName string
	Providers   []ProviderCfg
}

// OptionFn mutates the metric provider config.
type OptionFn func(Config) Config

// WithServiceName sets the service name attached to exported metrics.
func WithServiceName(name string) OptionFn {
	return func(cfg Config) Config {
		cfg.ServiceName = name
		return cfg
	}
}

// WithProviderConfig adds an export backend.
func WithProviderConfig(p ProviderCfg) OptionFn {
	return func(cfg Config) Config {
		cfg.Providers = append(cfg.Providers, p)
		return cfg
	}
}

// ServeConfig configures the Prometheus scrape endpoint.
type ServeConfig struct {
	Port string
}

// ServeOptionFn mutates the scrape server config.
type ServeOptionFn func(ServeConfig) ServeConfig

// WithPort sets the scrape server port.
func WithPort(port string) ServeOptionFn {
	return func(cfg ServeConfig) ServeConfig {
		cfg.Port = port
		return cfg
	}
}
