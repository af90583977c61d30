package mock

import (
	"context"
	"io"

	"github.com/linecard/filelink/pkg/store/blob"
	"github.com/linecard/filelink/pkg/store/index"

	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a mock of the api Blobs interface
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (blob.Object, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.Get(0).(blob.Object), args.Error(1)
}

func (m *MockBlobStore) Get(ctx context.Context, key, versionId string) (blob.Blob, error) {
	args := m.Called(ctx, key, versionId)
	return args.Get(0).(blob.Blob), args.Error(1)
}

func (m *MockBlobStore) Versions(ctx context.Context, key string) ([]blob.Version, error) {
	args := m.Called(ctx, key)
	versions, _ := args.Get(0).([]blob.Version)
	return versions, args.Error(1)
}

// MockLinkStore is a mock of the api Links interface
type MockLinkStore struct {
	mock.Mock
}

func (m *MockLinkStore) Put(ctx context.Context, record index.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLinkStore) ByID(ctx context.Context, id string) ([]index.Record, error) {
	args := m.Called(ctx, id)
	records, _ := args.Get(0).([]index.Record)
	return records, args.Error(1)
}

func (m *MockLinkStore) ByPath(ctx context.Context, path string) ([]index.Record, error) {
	args := m.Called(ctx, path)
	records, _ := args.Get(0).([]index.Record)
	return records, args.Error(1)
}

func (m *MockLinkStore) DeleteID(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
