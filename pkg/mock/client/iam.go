package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/stretchr/testify/mock"
)

type MockIAMClient struct {
	mock.Mock
}

func (m *MockIAMClient) GetPolicy(ctx context.Context, params *iam.GetPolicyInput, optFns ...func(*iam.Options)) (*iam.GetPolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.GetPolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) CreatePolicy(ctx context.Context, params *iam.CreatePolicyInput, optFns ...func(*iam.Options)) (*iam.CreatePolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.CreatePolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) DeletePolicy(ctx context.Context, params *iam.DeletePolicyInput, optFns ...func(*iam.Options)) (*iam.DeletePolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.DeletePolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) ListPolicyTags(ctx context.Context, params *iam.ListPolicyTagsInput, optFns ...func(*iam.Options)) (*iam.ListPolicyTagsOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.ListPolicyTagsOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) TagPolicy(ctx context.Context, params *iam.TagPolicyInput, optFns ...func(*iam.Options)) (*iam.TagPolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.TagPolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) UntagPolicy(ctx context.Context, params *iam.UntagPolicyInput, optFns ...func(*iam.Options)) (*iam.UntagPolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.UntagPolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) ListPolicyVersions(ctx context.Context, params *iam.ListPolicyVersionsInput, optFns ...func(*iam.Options)) (*iam.ListPolicyVersionsOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.ListPolicyVersionsOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) CreatePolicyVersion(ctx context.Context, params *iam.CreatePolicyVersionInput, optFns ...func(*iam.Options)) (*iam.CreatePolicyVersionOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.CreatePolicyVersionOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) DeletePolicyVersion(ctx context.Context, params *iam.DeletePolicyVersionInput, optFns ...func(*iam.Options)) (*iam.DeletePolicyVersionOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.DeletePolicyVersionOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.CreateRoleOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.GetRoleOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.DeleteRoleOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) ListRoleTags(ctx context.Context, params *iam.ListRoleTagsInput, optFns ...func(*iam.Options)) (*iam.ListRoleTagsOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.ListRoleTagsOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) UpdateAssumeRolePolicy(ctx context.Context, params *iam.UpdateAssumeRolePolicyInput, optFns ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.UpdateAssumeRolePolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) TagRole(ctx context.Context, params *iam.TagRoleInput, optFns ...func(*iam.Options)) (*iam.TagRoleOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.TagRoleOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) UntagRole(ctx context.Context, params *iam.UntagRoleInput, optFns ...func(*iam.Options)) (*iam.UntagRoleOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.UntagRoleOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.ListAttachedRolePoliciesOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.AttachRolePolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.DetachRolePolicyOutput)
	return output, args.Error(1)
}

func (m *MockIAMClient) SimulatePrincipalPolicy(ctx context.Context, params *iam.SimulatePrincipalPolicyInput, optFns ...func(*iam.Options)) (*iam.SimulatePrincipalPolicyOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*iam.SimulatePrincipalPolicyOutput)
	return output, args.Error(1)
}
