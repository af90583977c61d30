package mock

import (
	"context"

	"github.com/linecard/filelink/pkg/service/bucket"
	"github.com/linecard/filelink/pkg/service/table"

	"github.com/stretchr/testify/mock"
)

// MockBucketService is a mock of BucketService interface
type MockBucketService struct {
	mock.Mock
}

func (m *MockBucketService) Inspect(ctx context.Context, name string) (bucket.State, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(bucket.State), args.Error(1)
}

func (m *MockBucketService) PutBucket(ctx context.Context, d bucket.Definition) (bucket.State, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(bucket.State), args.Error(1)
}

func (m *MockBucketService) EmptyBucket(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *MockBucketService) DeleteBucket(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockTableService is a mock of TableService interface
type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) Inspect(ctx context.Context, name string) (table.State, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(table.State), args.Error(1)
}

func (m *MockTableService) PutTable(ctx context.Context, d table.Definition) (table.State, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(table.State), args.Error(1)
}

func (m *MockTableService) Tags(ctx context.Context, arn string) (map[string]string, error) {
	args := m.Called(ctx, arn)
	tags, _ := args.Get(0).(map[string]string)
	return tags, args.Error(1)
}

func (m *MockTableService) DeleteTable(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
