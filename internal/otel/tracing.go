package otel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Init configures the global tracer provider from the standard OTEL_*
// environment variables and returns a shutdown function. When the SDK is
// disabled or the exporter cannot be built, tracing degrades to a noop
// provider and the service keeps running.
func Init(ctx context.Context, loc *time.Location) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		logJSON(loc, map[string]any{
			"level":           "info",
			"msg":             "tracing_configured",
			"tracing_enabled": false,
		})
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(envOr("OTEL_SERVICE_NAME", "fragments")),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	protocol := envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")

	var exporter *otlptrace.Exporter
	switch protocol {
	case "grpc":
		exporter, err = otlptracegrpc.New(ctx)
	case "http/protobuf":
		exporter, err = otlptracehttp.New(ctx)
	default:
		err = fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}
	if err != nil {
		logJSON(loc, map[string]any{
			"level": "error",
			"msg":   "tracing_init_failed",
			"error": err.Error(),
		})
		return func(context.Context) error { return nil }, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(samplerFromEnv()),
	)
	otel.SetTracerProvider(tp)

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	logJSON(loc, map[string]any{
		"level":           "info",
		"msg":             "tracing_configured",
		"tracing_enabled": true,
		"otlp_protocol":   protocol,
		"otlp_endpoint":   endpoint,
		"sampler":         envOr("OTEL_TRACES_SAMPLER", "parentbased_traceidratio"),
		"sampler_arg":     envOr("OTEL_TRACES_SAMPLER_ARG", "1.0"),
	})

	return tp.Shutdown, nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func samplerFromEnv() trace.Sampler {
	ratio := 1.0
	if arg := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); arg != "" {
		if parsed, err := strconv.ParseFloat(arg, 64); err == nil {
			ratio = parsed
		}
	}

	switch os.Getenv("OTEL_TRACES_SAMPLER") {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(ratio)
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}

func logJSON(loc *time.Location, entry map[string]any) {
	entry["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
