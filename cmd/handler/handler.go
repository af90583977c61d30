package handler

import (
	"context"
	"strings"

	"github.com/linecard/filelink/pkg/api"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/rs/zerolog/log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Handler proxies payload v2 events into the api router built for the entry that sent them.
type Handler struct {
	adapters map[config.EntryKind]*httpadapter.HandlerAdapterV2
}

func FromApps(gateway, url api.App) Handler {
	return Handler{
		adapters: map[config.EntryKind]*httpadapter.HandlerAdapterV2{
			config.Gateway: httpadapter.NewV2(gateway.Router()),
			config.Url:     httpadapter.NewV2(url.Router()),
		},
	}
}

// Listen for events from the AWS Lambda runtime.
func Listen(tp *sdktrace.TracerProvider) {
	h := BeforeAll(context.Background())

	instrumented := otellambda.InstrumentHandler(h.Handle,
		otellambda.WithTracerProvider(tp),
		otellambda.WithFlusher(tp),
	)

	lambda.Start(instrumented)
}

// KindOf tells function url events from gateway events by the domain they arrived on.
func KindOf(event events.APIGatewayV2HTTPRequest) config.EntryKind {
	if strings.Contains(event.RequestContext.DomainName, ".lambda-url.") {
		return config.Url
	}
	return config.Gateway
}

// Handle answers one request. Behind a function url, a server side failure fails the invocation.
func (h Handler) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	kind := KindOf(event)

	ctx, span := otel.Tracer("").Start(ctx, "handler")
	defer span.End()

	span.SetAttributes(
		attribute.String("filelink.entry", string(kind)),
		attribute.String("filelink.route", event.RouteKey),
	)

	ctx, sink := api.WithSink(ctx)

	response, err := h.adapters[kind].ProxyWithContext(ctx, event)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return response, err
	}

	if err := sink.Err(); err != nil {
		log.Error().Err(err).Str("path", event.RawPath).Msg("failing invocation")
		span.SetStatus(codes.Error, err.Error())
		return events.APIGatewayV2HTTPResponse{}, err
	}

	return response, nil
}
