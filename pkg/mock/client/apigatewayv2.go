package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/stretchr/testify/mock"
)

type MockApiGatewayV2Client struct {
	mock.Mock
}

func (m *MockApiGatewayV2Client) GetApis(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.GetApisOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) GetApi(ctx context.Context, params *apigatewayv2.GetApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.GetApiOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) CreateApi(ctx context.Context, params *apigatewayv2.CreateApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateApiOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.CreateApiOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) UpdateApi(ctx context.Context, params *apigatewayv2.UpdateApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateApiOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.UpdateApiOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) DeleteApi(ctx context.Context, params *apigatewayv2.DeleteApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.DeleteApiOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.DeleteApiOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) CreateIntegration(ctx context.Context, params *apigatewayv2.CreateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateIntegrationOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.CreateIntegrationOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) GetIntegrations(ctx context.Context, params *apigatewayv2.GetIntegrationsInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetIntegrationsOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.GetIntegrationsOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) UpdateIntegration(ctx context.Context, params *apigatewayv2.UpdateIntegrationInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateIntegrationOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.UpdateIntegrationOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) CreateRoute(ctx context.Context, params *apigatewayv2.CreateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateRouteOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.CreateRouteOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) GetRoutes(ctx context.Context, params *apigatewayv2.GetRoutesInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetRoutesOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.GetRoutesOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) UpdateRoute(ctx context.Context, params *apigatewayv2.UpdateRouteInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateRouteOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.UpdateRouteOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) GetStage(ctx context.Context, params *apigatewayv2.GetStageInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetStageOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.GetStageOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) CreateStage(ctx context.Context, params *apigatewayv2.CreateStageInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.CreateStageOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.CreateStageOutput)
	return output, args.Error(1)
}

func (m *MockApiGatewayV2Client) UpdateStage(ctx context.Context, params *apigatewayv2.UpdateStageInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.UpdateStageOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*apigatewayv2.UpdateStageOutput)
	return output, args.Error(1)
}
