package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
	"github.com/linecard/filelink/internal/util"
	"github.com/rs/zerolog/log"
)

const (
	DefaultStage          = "$default"
	PermissionStatementId = "filelink-api-gateway"
	PayloadVersion        = "2.0"
)

// RouteKeys send every method and path, the root included, to the single proxy integration.
var RouteKeys = []string{"ANY /", "ANY /{proxy+}"}

type ApiGatewayV2Client interface {
	GetApis(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error)
	GetApi(ctx context.Context, params *apigatewayv2.GetApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiOutput, error)
	CreateApi(ctx context.Context, params *apigatewayv2.CreateApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateApiOutput, error)
	UpdateApi(ctx context.Context, params *apigatewayv2.UpdateApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateApiOutput, error)
	DeleteApi(ctx context.Context, params *apigatewayv2.DeleteApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.DeleteApiOutput, error)
	CreateIntegration(ctx context.Context, params *apigatewayv2.CreateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateIntegrationOutput, error)
	GetIntegrations(ctx context.Context, params *apigatewayv2.GetIntegrationsInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetIntegrationsOutput, error)
	UpdateIntegration(ctx context.Context, params *apigatewayv2.UpdateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateIntegrationOutput, error)
	CreateRoute(ctx context.Context, params *apigatewayv2.CreateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateRouteOutput, error)
	GetRoutes(ctx context.Context, params *apigatewayv2.GetRoutesInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetRoutesOutput, error)
	UpdateRoute(ctx context.Context, params *apigatewayv2.UpdateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateRouteOutput, error)
	GetStage(ctx context.Context, params *apigatewayv2.GetStageInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetStageOutput, error)
	CreateStage(ctx context.Context, params *apigatewayv2.CreateStageInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateStageOutput, error)
	UpdateStage(ctx context.Context, params *apigatewayv2.UpdateStageInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateStageOutput, error)
}

type LambdaClient interface {
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

type Client struct {
	Gw     ApiGatewayV2Client
	Lambda LambdaClient
}

type Service struct {
	Client Client
}

type Cors struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

func FromClients(gwc ApiGatewayV2Client, lmc LambdaClient) Service {
	return Service{
		Client: Client{
			Gw:     gwc,
			Lambda: lmc,
		},
	}
}

// FindApi returns the HTTP API carrying name, or nil when there is none.
func (s Service) FindApi(ctx context.Context, name string) (*types.Api, error) {
	var matches []types.Api

	getApisInput := &apigatewayv2.GetApisInput{}
	for {
		apis, err := s.Client.Gw.GetApis(ctx, getApisInput)
		if err != nil {
			return nil, err
		}

		for _, api := range apis.Items {
			if aws.ToString(api.Name) == name && api.ProtocolType == types.ProtocolTypeHttp {
				matches = append(matches, api)
			}
		}

		if aws.ToString(apis.NextToken) == "" {
			break
		}
		getApisInput.NextToken = apis.NextToken
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("multiple http apis found with name %s", name)
	}
}

// PutApi converges the HTTP API. Preflight requests are answered by the API itself from cors.
func (s Service) PutApi(ctx context.Context, name string, cors Cors, tags map[string]string) (*apigatewayv2.GetApiOutput, error) {
	corsConfiguration := &types.Cors{
		AllowOrigins: cors.AllowOrigins,
		AllowMethods: cors.AllowMethods,
		AllowHeaders: cors.AllowHeaders,
	}

	existing, err := s.FindApi(ctx, name)
	if err != nil {
		return nil, err
	}

	var apiId *string
	if existing == nil {
		log.Info().Str("api", name).Msg("creating http api")

		created, err := s.Client.Gw.CreateApi(ctx, &apigatewayv2.CreateApiInput{
			Name:              aws.String(name),
			ProtocolType:      types.ProtocolTypeHttp,
			CorsConfiguration: corsConfiguration,
			Tags:              tags,
		})
		if err != nil {
			return nil, err
		}
		apiId = created.ApiId
	} else {
		updated, err := s.Client.Gw.UpdateApi(ctx, &apigatewayv2.UpdateApiInput{
			ApiId:             existing.ApiId,
			Name:              aws.String(name),
			CorsConfiguration: corsConfiguration,
		})
		if err != nil {
			return nil, err
		}
		apiId = updated.ApiId
	}

	return s.GetApi(ctx, aws.ToString(apiId))
}

func (s Service) PutIntegration(ctx context.Context, apiId, lambdaArn string) (*types.Integration, error) {
	integrations, err := s.Client.Gw.GetIntegrations(ctx, &apigatewayv2.GetIntegrationsInput{
		ApiId: aws.String(apiId),
	})

	if err != nil {
		return nil, err
	}

	for _, integration := range integrations.Items {
		if aws.ToString(integration.IntegrationUri) == lambdaArn {
			updated, err := s.Client.Gw.UpdateIntegration(ctx, &apigatewayv2.UpdateIntegrationInput{
				ApiId:                aws.String(apiId),
				IntegrationId:        integration.IntegrationId,
				IntegrationType:      types.IntegrationTypeAwsProxy,
				IntegrationUri:       aws.String(lambdaArn),
				PayloadFormatVersion: aws.String(PayloadVersion),
			})

			if err != nil {
				return nil, err
			}

			return &types.Integration{
				IntegrationId:        updated.IntegrationId,
				IntegrationType:      updated.IntegrationType,
				IntegrationUri:       updated.IntegrationUri,
				PayloadFormatVersion: updated.PayloadFormatVersion,
			}, nil
		}
	}

	created, err := s.Client.Gw.CreateIntegration(ctx, &apigatewayv2.CreateIntegrationInput{
		ApiId:                aws.String(apiId),
		IntegrationType:      types.IntegrationTypeAwsProxy,
		IntegrationUri:       aws.String(lambdaArn),
		PayloadFormatVersion: aws.String(PayloadVersion),
	})

	if err != nil {
		return nil, err
	}

	return &types.Integration{
		IntegrationId:        created.IntegrationId,
		IntegrationType:      created.IntegrationType,
		IntegrationUri:       created.IntegrationUri,
		PayloadFormatVersion: created.PayloadFormatVersion,
	}, nil
}

func (s Service) PutRoute(ctx context.Context, apiId, integrationId, routeKey string) (*types.Route, error) {
	routes, err := s.Client.Gw.GetRoutes(ctx, &apigatewayv2.GetRoutesInput{
		ApiId: aws.String(apiId),
	})

	if err != nil {
		return nil, err
	}

	target := fmt.Sprintf("integrations/%s", integrationId)

	for _, route := range routes.Items {
		if aws.ToString(route.RouteKey) == routeKey {
			updated, err := s.Client.Gw.UpdateRoute(ctx, &apigatewayv2.UpdateRouteInput{
				ApiId:             aws.String(apiId),
				RouteId:           route.RouteId,
				RouteKey:          aws.String(routeKey),
				Target:            aws.String(target),
				AuthorizationType: types.AuthorizationTypeNone,
			})

			if err != nil {
				return nil, err
			}

			return &types.Route{RouteId: updated.RouteId, RouteKey: updated.RouteKey, Target: updated.Target}, nil
		}
	}

	created, err := s.Client.Gw.CreateRoute(ctx, &apigatewayv2.CreateRouteInput{
		ApiId:             aws.String(apiId),
		RouteKey:          aws.String(routeKey),
		Target:            aws.String(target),
		AuthorizationType: types.AuthorizationTypeNone,
	})

	if err != nil {
		return nil, err
	}

	return &types.Route{RouteId: created.RouteId, RouteKey: created.RouteKey, Target: created.Target}, nil
}

// PutStage makes sure the $default stage exists and deploys every change automatically.
func (s Service) PutStage(ctx context.Context, apiId string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Gw.GetStage(ctx, &apigatewayv2.GetStageInput{
		ApiId:     aws.String(apiId),
		StageName: aws.String(DefaultStage),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException" {
		_, err = s.Client.Gw.CreateStage(ctx, &apigatewayv2.CreateStageInput{
			ApiId:      aws.String(apiId),
			StageName:  aws.String(DefaultStage),
			AutoDeploy: aws.Bool(true),
		})
		return err
	}

	if err != nil {
		return err
	}

	_, err = s.Client.Gw.UpdateStage(ctx, &apigatewayv2.UpdateStageInput{
		ApiId:      aws.String(apiId),
		StageName:  aws.String(DefaultStage),
		AutoDeploy: aws.Bool(true),
	})
	return err
}

func (s Service) PutLambdaPermission(ctx context.Context, apiId, lambdaArn string) error {
	if err := s.DeleteLambdaPermission(ctx, lambdaArn); err != nil {
		return err
	}

	parts := strings.Split(lambdaArn, ":")
	if len(parts) < 7 {
		return fmt.Errorf("malformed function arn %s", lambdaArn)
	}
	region, accountId := parts[3], parts[4]

	_, err := s.Client.Lambda.AddPermission(ctx, &lambda.AddPermissionInput{
		Action:       aws.String("lambda:InvokeFunction"),
		FunctionName: aws.String(lambdaArn),
		Principal:    aws.String("apigateway.amazonaws.com"),
		SourceArn:    aws.String(util.ExecuteApiArn(region, accountId, apiId)),
		StatementId:  aws.String(PermissionStatementId),
	})

	return err
}

func (s Service) DeleteLambdaPermission(ctx context.Context, lambdaArn string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(lambdaArn),
		StatementId:  aws.String(PermissionStatementId),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
		return nil
	}

	return err
}

func (s Service) DeleteApi(ctx context.Context, apiId string) error {
	var apiErr smithy.APIError

	_, err := s.Client.Gw.DeleteApi(ctx, &apigatewayv2.DeleteApiInput{
		ApiId: aws.String(apiId),
	})

	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFoundException" {
		return nil
	}

	return err
}

func (s Service) GetApi(ctx context.Context, apiId string) (*apigatewayv2.GetApiOutput, error) {
	return s.Client.Gw.GetApi(ctx, &apigatewayv2.GetApiInput{
		ApiId: aws.String(apiId),
	})
}

func (s Service) GetRoutesByFunctionArn(ctx context.Context, apiId, functionArn string) ([]types.Route, error) {
	var associatedIntegrations []types.Integration
	var integratedRoutes []types.Route

	routes, err := s.Client.Gw.GetRoutes(ctx, &apigatewayv2.GetRoutesInput{
		ApiId: aws.String(apiId),
	})

	if err != nil {
		return nil, err
	}

	integrations, err := s.Client.Gw.GetIntegrations(ctx, &apigatewayv2.GetIntegrationsInput{
		ApiId: aws.String(apiId),
	})

	if err != nil {
		return nil, err
	}

	for _, integration := range integrations.Items {
		if aws.ToString(integration.IntegrationUri) == functionArn {
			associatedIntegrations = append(associatedIntegrations, integration)
		}
	}

	for _, integration := range associatedIntegrations {
		for _, route := range routes.Items {
			routeIntegrationId := strings.TrimPrefix(aws.ToString(route.Target), "integrations/")
			if routeIntegrationId == aws.ToString(integration.IntegrationId) {
				integratedRoutes = append(integratedRoutes, route)
			}
		}
	}

	return integratedRoutes, nil
}
