package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/mock"
)

type MockDynamoDBClient struct {
	mock.Mock
}

func (m *MockDynamoDBClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return output, args.Error(1)
}

func (m *MockDynamoDBClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return output, args.Error(1)
}

func (m *MockDynamoDBClient) UpdateTable(ctx context.Context, params *dynamodb.UpdateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateTableOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*dynamodb.UpdateTableOutput)
	return output, args.Error(1)
}

func (m *MockDynamoDBClient) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*dynamodb.DeleteTableOutput)
	return output, args.Error(1)
}

func (m *MockDynamoDBClient) TagResource(ctx context.Context, params *dynamodb.TagResourceInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TagResourceOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*dynamodb.TagResourceOutput)
	return output, args.Error(1)
}

func (m *MockDynamoDBClient) ListTagsOfResource(ctx context.Context, params *dynamodb.ListTagsOfResourceInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTagsOfResourceOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*dynamodb.ListTagsOfResourceOutput)
	return output, args.Error(1)
}
