// Package otel wires OpenTelemetry tracing for the command entry points.
package otel

import (
	"context"
	"fmt"

	"github.com/medinal/swade-character-creator/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds tracing settings read from the environment.
type Config struct {
	Endpoint    string  `env:"SWADE_OTEL_ENDPOINT"`
	Enabled     string  `env:"SWADE_OTEL_ENABLED"`
	SampleRatio float64 `env:"SWADE_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when SWADE_OTEL_ENDPOINT is empty or SWADE_OTEL_ENABLED
// is "false", Setup returns a no-op shutdown function and no global provider
// is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	if !cfg.active() {
		return noop, nil
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return noop, fmt.Errorf("otel sample ratio must be in range 0..1, got %v", cfg.SampleRatio)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func (c Config) active() bool {
	if c.Endpoint == "" {
		return false
	}
	switch c.Enabled {
	case "false", "FALSE", "False", "0":
		return false
	}
	return true
}
