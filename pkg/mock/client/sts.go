package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/mock"
)

type MockSTSClient struct {
	mock.Mock
}

// GetCallerIdentity tolerates a nil output so a case can script only the error.
func (m *MockSTSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*sts.GetCallerIdentityOutput)
	return output, args.Error(1)
}
