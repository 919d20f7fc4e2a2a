// Package tracing wires an exploration run's steps into OpenTelemetry
// spans: one span per action invocation, tagged with the state it ran
// from and the action name. No root span is opened for the exploration
// itself; each step span is a child of whatever span the caller's
// context already carries.
package tracing

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config configures distributed tracing for an exploration run.
type Config struct {
	// Enabled turns on span emission. When false, Init wires a noop
	// provider and Tracer.StartStep is a zero-cost passthrough.
	Enabled bool `yaml:"enabled,omitempty"`

	// Exporter selects where spans go. Values: "stdout" (default),
	// "none". venomqa ships only the stdout exporter out of the box;
	// despite its name, it writes spans to stderr.
	Exporter string `yaml:"exporter,omitempty"`

	// SamplingRate controls what fraction of traces are sampled, up to
	// 1.0 (all). 0 is treated as unset and becomes the default 1.0; to
	// emit nothing, use Enabled: false or Exporter "none".
	SamplingRate float64 `yaml:"sampling_rate,omitempty"`

	// ServiceName identifies this run in the trace backend.
	// Default: "venomqa".
	ServiceName string `yaml:"service_name,omitempty"`
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "venomqa"
	}
	if c.Exporter == "" {
		c.Exporter = "stdout"
	}
	if c.SamplingRate == 0 {
		c.SamplingRate = 1.0
	}
}

// Init builds a TracerProvider from cfg and installs it as the global
// provider, returning a shutdown func that flushes pending spans.
func Init(ctx context.Context, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	if !cfg.Enabled {
		tp := noop.NewTracerProvider()
		return tp, func(context.Context) error { return nil }, nil
	}
	cfg.SetDefaults()

	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "stdout", "":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	case "none":
		tp := noop.NewTracerProvider()
		return tp, func(context.Context) error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("tracing: unknown exporter %q (valid: stdout, none)", cfg.Exporter)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("build trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, fmt.Errorf("build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRate)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown, nil
}

// Tracer starts one span per exploration step. It satisfies
// agent.StepTracer structurally.
type Tracer struct {
	tracer trace.Tracer
}

// New wraps an OpenTelemetry TracerProvider for step-level spans.
func New(provider trace.TracerProvider) *Tracer {
	return &Tracer{tracer: provider.Tracer("venomqa/agent")}
}

// StartStep opens a span named after the action, tagged with the
// state it runs from, and returns a closer that records the outcome.
func (t *Tracer) StartStep(ctx context.Context, stateID, actionName string) (context.Context, func(success bool)) {
	if t == nil || t.tracer == nil {
		return ctx, func(bool) {}
	}
	spanCtx, span := t.tracer.Start(ctx, "action:"+actionName,
		trace.WithAttributes(
			attribute.String("venomqa.state_id", stateID),
			attribute.String("venomqa.action_name", actionName),
		),
	)
	return spanCtx, func(success bool) {
		if success {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, "action failed")
		}
		span.End()
	}
}
