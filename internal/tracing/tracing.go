package tracing

import (
	"context"

	"github.com/linecard/filelink/internal/util"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const ServiceName = "filelink"

// Personality tells apart spans from the handler and from the provisioning CLI.
func Personality() string {
	if util.InLambda() {
		return "handler"
	}
	return "cli"
}

// InitOtel installs the global tracer provider and returns it with its shutdown function.
// Without OTEL_EXPORTER_OTLP_ENDPOINT the provider records nothing.
func InitOtel() (tp *sdktrace.TracerProvider, shutdown func()) {
	ctx := context.Background()
	tp = sdktrace.NewTracerProvider()
	shutdown = func() {}

	if util.OtelConfigPresent() {
		personality := Personality()
		log.Info().Str("personality", personality).Msg("exporting traces over OTLP")

		res, err := resource.New(ctx,
			resource.WithFromEnv(),
			resource.WithTelemetrySDK(),
			resource.WithAttributes(
				semconv.ServiceName(ServiceName),
				attribute.String("filelink.personality", personality),
			),
		)
		if err != nil {
			log.Warn().Err(err).Msg("partial trace resource")
		}

		exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create OTLP exporter")
		}

		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)

		shutdown = func() {
			_ = tp.ForceFlush(ctx)
			_ = exp.Shutdown(ctx)
			_ = tp.Shutdown(ctx)
		}
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetTracerProvider(tp)

	return tp, shutdown
}
