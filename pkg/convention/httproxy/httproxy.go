package httproxy

import (
	"context"
	"fmt"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/service/gateway"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type GatewayService interface {
	FindApi(ctx context.Context, name string) (*types.Api, error)
	PutApi(ctx context.Context, name string, cors gateway.Cors, tags map[string]string) (*apigatewayv2.GetApiOutput, error)
	PutIntegration(ctx context.Context, apiId, lambdaArn string) (*types.Integration, error)
	PutRoute(ctx context.Context, apiId, integrationId, routeKey string) (*types.Route, error)
	PutStage(ctx context.Context, apiId string) error
	PutLambdaPermission(ctx context.Context, apiId, lambdaArn string) error
	DeleteLambdaPermission(ctx context.Context, lambdaArn string) error
	DeleteApi(ctx context.Context, apiId string) error
	GetRoutesByFunctionArn(ctx context.Context, apiId, functionArn string) ([]types.Route, error)
}

type UrlService interface {
	InspectUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error)
	PutFunctionUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error)
	DeleteFunctionUrl(ctx context.Context, name string) error
}

// Endpoint is the public address a mounted entry answers on.
type Endpoint struct {
	Kind   config.EntryKind `json:"kind" yaml:"kind"`
	Url    string           `json:"url" yaml:"url"`
	ApiId  string           `json:"apiId,omitempty" yaml:"apiId,omitempty"`
	Routes []string         `json:"routes,omitempty" yaml:"routes,omitempty"`
}

type Services struct {
	Gateway GatewayService
	Url     UrlService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, g GatewayService, u UrlService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Gateway: g,
			Url:     u,
		},
	}
}

// Mount exposes the function through the entry kind of spec and removes the other kind.
func (c Convention) Mount(ctx context.Context, spec manifest.EntrySpec) (Endpoint, error) {
	var endpoint Endpoint
	var err error

	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Mount")
	defer span.End()

	switch spec.Kind {
	case config.Gateway:
		if err = c.unmountUrl(ctx, spec); err == nil {
			endpoint, err = c.mountGateway(ctx, spec)
		}
	case config.Url:
		if err = c.unmountGateway(ctx, spec); err == nil {
			endpoint, err = c.mountUrl(ctx, spec)
		}
	default:
		err = fmt.Errorf("unknown entry kind %q", spec.Kind)
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Endpoint{}, err
	}

	return endpoint, nil
}

// Unmount removes both entry kinds, whichever exist.
func (c Convention) Unmount(ctx context.Context, spec manifest.EntrySpec) error {
	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Unmount")
	defer span.End()

	if err := c.unmountGateway(ctx, spec); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := c.unmountUrl(ctx, spec); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Find lists every entry currently in front of the function.
func (c Convention) Find(ctx context.Context, spec manifest.EntrySpec) ([]Endpoint, error) {
	var endpoints []Endpoint

	ctx, span := otel.Tracer("").Start(ctx, "httproxy.Find")
	defer span.End()

	api, err := c.Service.Gateway.FindApi(ctx, spec.Name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return endpoints, err
	}

	if api != nil {
		routes, err := c.Service.Gateway.GetRoutesByFunctionArn(ctx, aws.ToString(api.ApiId), spec.FunctionArn)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return endpoints, err
		}

		endpoint := Endpoint{Kind: config.Gateway, Url: aws.ToString(api.ApiEndpoint), ApiId: aws.ToString(api.ApiId)}
		for _, route := range routes {
			endpoint.Routes = append(endpoint.Routes, aws.ToString(route.RouteKey))
		}
		endpoints = append(endpoints, endpoint)
	}

	url, err := c.Service.Url.InspectUrl(ctx, spec.FunctionName)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return endpoints, err
	}

	if url != nil {
		endpoints = append(endpoints, Endpoint{Kind: config.Url, Url: aws.ToString(url.FunctionUrl)})
	}

	return endpoints, nil
}

func (c Convention) mountGateway(ctx context.Context, spec manifest.EntrySpec) (Endpoint, error) {
	var cors gateway.Cors
	if spec.Cors != nil {
		cors = gateway.Cors{
			AllowOrigins: spec.Cors.Origins,
			AllowMethods: spec.Cors.Methods,
			AllowHeaders: spec.Cors.Headers,
		}
	}

	api, err := c.Service.Gateway.PutApi(ctx, spec.Name, cors, spec.Tags)
	if err != nil {
		return Endpoint{}, err
	}

	apiId := aws.ToString(api.ApiId)

	integration, err := c.Service.Gateway.PutIntegration(ctx, apiId, spec.FunctionArn)
	if err != nil {
		return Endpoint{}, err
	}

	endpoint := Endpoint{Kind: config.Gateway, Url: aws.ToString(api.ApiEndpoint), ApiId: apiId}

	for _, routeKey := range gateway.RouteKeys {
		route, err := c.Service.Gateway.PutRoute(ctx, apiId, aws.ToString(integration.IntegrationId), routeKey)
		if err != nil {
			return Endpoint{}, err
		}
		endpoint.Routes = append(endpoint.Routes, aws.ToString(route.RouteKey))
	}

	if err := c.Service.Gateway.PutStage(ctx, apiId); err != nil {
		return Endpoint{}, err
	}

	if err := c.Service.Gateway.PutLambdaPermission(ctx, apiId, spec.FunctionArn); err != nil {
		return Endpoint{}, err
	}

	log.Info().Str("api", spec.Name).Str("url", endpoint.Url).Msg("gateway mounted")
	return endpoint, nil
}

func (c Convention) mountUrl(ctx context.Context, spec manifest.EntrySpec) (Endpoint, error) {
	url, err := c.Service.Url.PutFunctionUrl(ctx, spec.FunctionName)
	if err != nil {
		return Endpoint{}, err
	}

	endpoint := Endpoint{Kind: config.Url, Url: aws.ToString(url.FunctionUrl)}

	log.Info().Str("function", spec.FunctionName).Str("url", endpoint.Url).Msg("function url mounted")
	return endpoint, nil
}

func (c Convention) unmountGateway(ctx context.Context, spec manifest.EntrySpec) error {
	api, err := c.Service.Gateway.FindApi(ctx, spec.Name)
	if err != nil {
		return err
	}

	if api == nil {
		return nil
	}

	log.Info().Str("api", spec.Name).Msg("removing gateway")

	if err := c.Service.Gateway.DeleteLambdaPermission(ctx, spec.FunctionArn); err != nil {
		return err
	}

	return c.Service.Gateway.DeleteApi(ctx, aws.ToString(api.ApiId))
}

func (c Convention) unmountUrl(ctx context.Context, spec manifest.EntrySpec) error {
	url, err := c.Service.Url.InspectUrl(ctx, spec.FunctionName)
	if err != nil {
		return err
	}

	if url == nil {
		return nil
	}

	log.Info().Str("function", spec.FunctionName).Msg("removing function url")
	return c.Service.Url.DeleteFunctionUrl(ctx, spec.FunctionName)
}
