package mock

import (
	"context"

	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/service/function"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/mock"
)

// MockFunctionService is a mock of FunctionService interface
type MockFunctionService struct {
	mock.Mock
}

func (m *MockFunctionService) Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, name)
	output, _ := args.Get(0).(*lambda.GetFunctionOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) GetRole(ctx context.Context, name string) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, name)
	output, _ := args.Get(0).(*iam.GetRoleOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) PutPolicy(ctx context.Context, arn string, document string, tags map[string]string) (*iam.GetPolicyOutput, error) {
	args := m.Called(ctx, arn, document, tags)
	output, _ := args.Get(0).(*iam.GetPolicyOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) DeletePolicy(ctx context.Context, arn string) (*iam.DeletePolicyOutput, error) {
	args := m.Called(ctx, arn)
	output, _ := args.Get(0).(*iam.DeletePolicyOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) PutRole(ctx context.Context, name string, trustDocument string, policyArns []string, tags map[string]string) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, name, trustDocument, policyArns, tags)
	output, _ := args.Get(0).(*iam.GetRoleOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) DeleteRole(ctx context.Context, name string) (*iam.DeleteRoleOutput, error) {
	args := m.Called(ctx, name)
	output, _ := args.Get(0).(*iam.DeleteRoleOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) PutFunction(ctx context.Context, d function.Definition) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, d)
	output, _ := args.Get(0).(*lambda.GetFunctionOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) DeleteFunction(ctx context.Context, name string) (*lambda.DeleteFunctionOutput, error) {
	args := m.Called(ctx, name)
	output, _ := args.Get(0).(*lambda.DeleteFunctionOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) Simulate(ctx context.Context, roleArn string, actions, resources []string) ([]iamtypes.EvaluationResult, error) {
	args := m.Called(ctx, roleArn, actions, resources)
	results, _ := args.Get(0).([]iamtypes.EvaluationResult)
	return results, args.Error(1)
}

func (m *MockFunctionService) InspectUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	args := m.Called(ctx, name)
	output, _ := args.Get(0).(*lambda.GetFunctionUrlConfigOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) PutFunctionUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	args := m.Called(ctx, name)
	output, _ := args.Get(0).(*lambda.GetFunctionUrlConfigOutput)
	return output, args.Error(1)
}

func (m *MockFunctionService) DeleteFunctionUrl(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockGetFunctionOutput is what GetFunction reports for the settled function of plan.
func MockGetFunctionOutput(plan manifest.Plan) *lambda.GetFunctionOutput {
	return &lambda.GetFunctionOutput{
		Configuration: &types.FunctionConfiguration{
			FunctionName:     aws.String(plan.Function.Name),
			FunctionArn:      aws.String(plan.Function.Arn),
			Role:             aws.String(plan.Role.Arn),
			Runtime:          function.Runtime,
			Handler:          aws.String(function.Handler),
			Architectures:    []types.Architecture{types.Architecture(plan.Function.Architecture)},
			MemorySize:       aws.Int32(plan.Function.MemorySize),
			Timeout:          aws.Int32(plan.Function.Timeout),
			Environment:      &types.EnvironmentResponse{Variables: plan.Function.Environment},
			State:            types.StateActive,
			LastUpdateStatus: types.LastUpdateStatusSuccessful,
			LastModified:     aws.String("2024-05-01T12:00:00.000+0000"),
		},
		Tags: plan.Function.Tags,
	}
}

func MockGetRoleOutput(plan manifest.Plan) *iam.GetRoleOutput {
	return &iam.GetRoleOutput{
		Role: &iamtypes.Role{
			RoleName: aws.String(plan.Role.Name),
			Arn:      aws.String(plan.Role.Arn),
		},
	}
}

func MockGetPolicyOutput(plan manifest.Plan) *iam.GetPolicyOutput {
	return &iam.GetPolicyOutput{
		Policy: &iamtypes.Policy{
			PolicyName: aws.String(plan.Role.PolicyName),
			Arn:        aws.String(plan.Role.PolicyArn),
		},
	}
}
