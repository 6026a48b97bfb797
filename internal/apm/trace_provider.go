// Package apm configures OpenTelemetry tracing for the application.
package apm

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/amm-arb-bot/internal/logger"
)

// Provider identifies a trace export backend.
type Provider string

const (
	ZipkinProvider   Provider = "ZIPKIN_PROVIDER"
	OTLPGRPCProvider Provider = "OTLP_GRPC_PROVIDER"
	OTLPHTTPProvider Provider = "OTLP_HTTP_PROVIDER"
	ConsoleProvider  Provider = "CONSOLE_PROVIDER"
	EmptyProvider    Provider = "EMPTY_PROVIDER"
)

// TraceProvider owns the tracer provider lifecycle.
type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

func (p *traceProvider) Stop() error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(context.Background())
}

// Options collects tracer setup parameters.
type Options struct {
	exporter sdktrace.SpanExporter
	name     string
	useEmpty bool
}

// Option mutates tracer setup parameters.
type Option func(*Options)

// WithProvider selects the export backend. Unknown providers fall back to a
// no-op tracer so the application keeps running without telemetry.
func WithProvider(provider Provider, log logger.LoggerInterface) Option {
	switch provider {
	case ZipkinProvider:
		return useZipkin()
	case OTLPGRPCProvider:
		return useOTLPGRPC()
	case OTLPHTTPProvider:
		return useOTLPHTTP()
	case ConsoleProvider:
		return useConsole()
	default:
		log.Warn(context.Background(), "trace provider not found, tracing disabled", "provider", string(provider))
		return useEmpty()
	}
}

func useEmpty() Option {
	return func(o *Options) {
		o.useEmpty = true
		o.name = string(EmptyProvider)
	}
}

func useConsole() Option {
	return func(o *Options) {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			panic(err)
		}
		o.exporter = exp
		o.name = string(ConsoleProvider)
	}
}

func useZipkin() Option {
	return func(o *Options) {
		exp, err := zipkin.New(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
		if err != nil {
			panic(err)
		}
		o.exporter = exp
		o.name = string(ZipkinProvider)
	}
}

func useOTLPGRPC() Option {
	return func(o *Options) {
		exp, err := otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		)
		if err != nil {
			panic(err)
		}
		o.exporter = exp
		o.name = string(OTLPGRPCProvider)
	}
}

func useOTLPHTTP() Option {
	return func(o *Options) {
		exp, err := otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpoint(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		)
		if err != nil {
			panic(err)
		}
		o.exporter = exp
		o.name = string(OTLPHTTPProvider)
	}
}

// NewTraceProvider builds the tracer provider and installs it globally.
func NewTraceProvider(log logger.LoggerInterface, opts ...Option) TraceProvider {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.useEmpty || options.exporter == nil {
		return &traceProvider{}
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "amm-arb-bot"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(options.exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info(context.Background(), "tracing initialized", "provider", options.name)

	return &traceProvider{tp: tp}
}
