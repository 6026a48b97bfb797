// Package metrics wires the OTEL meter provider and serves Prometheus
// scrapes. Adapters create their instruments through otel.Meter.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// Provider identifies a metric export backend.
type Provider string

const (
	PrometheusProvider Provider = "PROMETHEUS_PROVIDER"
	OTLPProvider       Provider = "OTLP_PROVIDER"
)

// MetricProvider owns the SDK meter provider lifecycle.
type MetricProvider interface {
	Shutdown(ctx context.Context) error
}

type metricProvider struct {
	mp *sdkmetric.MeterProvider
}

func (p *metricProvider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}

// NewMetricProvider builds the meter provider from the given options and
// installs it as the global OTEL meter provider.
func NewMetricProvider(options ...OptionFn) MetricProvider {
	ctx := context.Background()

	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	var readers []sdkmetric.Reader
	for _, provider := range cfg.Providers {
		switch provider.Provider {
		case PrometheusProvider:
			exp, err := prometheus.New()
			if err != nil {
				panic(err)
			}
			readers = append(readers, exp)
		case OTLPProvider:
			opts := []otlpmetricgrpc.Option{
				otlpmetricgrpc.WithEndpointURL(provider.Endpoint),
			}
			if provider.Insecure {
				opts = append(opts, otlpmetricgrpc.WithInsecure())
			}
			exp, err := otlpmetricgrpc.New(ctx, opts...)
			if err != nil {
				panic(err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exp))
		}
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
	)

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		mpOpts = append(mpOpts, sdkmetric.WithReader(r))
	}

	mp := sdkmetric.NewMeterProvider(mpOpts...)
	otel.SetMeterProvider(mp)

	return &metricProvider{mp: mp}
}

// ServePrometheusMetrics blocks serving /metrics for Prometheus scrapes.
func ServePrometheusMetrics(options ...ServeOptionFn) error {
	cfg := ServeConfig{Port: "9090"}
	for _, opt := range options {
		cfg = opt(cfg)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
