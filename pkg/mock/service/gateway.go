package mock

import (
	"context"

	"github.com/linecard/filelink/pkg/service/gateway"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/stretchr/testify/mock"
)

// MockGatewayService is a mock of GatewayService interface
type MockGatewayService struct {
	mock.Mock
}

func (m *MockGatewayService) FindApi(ctx context.Context, name string) (*types.Api, error) {
	args := m.Called(ctx, name)
	api, _ := args.Get(0).(*types.Api)
	return api, args.Error(1)
}

func (m *MockGatewayService) PutApi(ctx context.Context, name string, cors gateway.Cors, tags map[string]string) (*apigatewayv2.GetApiOutput, error) {
	args := m.Called(ctx, name, cors, tags)
	output, _ := args.Get(0).(*apigatewayv2.GetApiOutput)
	return output, args.Error(1)
}

func (m *MockGatewayService) PutIntegration(ctx context.Context, apiId, lambdaArn string) (*types.Integration, error) {
	args := m.Called(ctx, apiId, lambdaArn)
	integration, _ := args.Get(0).(*types.Integration)
	return integration, args.Error(1)
}

func (m *MockGatewayService) PutRoute(ctx context.Context, apiId, integrationId, routeKey string) (*types.Route, error) {
	args := m.Called(ctx, apiId, integrationId, routeKey)
	route, _ := args.Get(0).(*types.Route)
	return route, args.Error(1)
}

func (m *MockGatewayService) PutStage(ctx context.Context, apiId string) error {
	args := m.Called(ctx, apiId)
	return args.Error(0)
}

func (m *MockGatewayService) PutLambdaPermission(ctx context.Context, apiId, lambdaArn string) error {
	args := m.Called(ctx, apiId, lambdaArn)
	return args.Error(0)
}

func (m *MockGatewayService) DeleteLambdaPermission(ctx context.Context, lambdaArn string) error {
	args := m.Called(ctx, lambdaArn)
	return args.Error(0)
}

func (m *MockGatewayService) DeleteApi(ctx context.Context, apiId string) error {
	args := m.Called(ctx, apiId)
	return args.Error(0)
}

func (m *MockGatewayService) GetRoutesByFunctionArn(ctx context.Context, apiId, functionArn string) ([]types.Route, error) {
	args := m.Called(ctx, apiId, functionArn)
	routes, _ := args.Get(0).([]types.Route)
	return routes, args.Error(1)
}
