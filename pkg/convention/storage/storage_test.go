package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/manifest"
	servicemock "github.com/linecard/filelink/pkg/mock/service"
	"github.com/linecard/filelink/pkg/service/bucket"
	"github.com/linecard/filelink/pkg/service/table"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func planFor(t *testing.T, preset string) (config.Config, manifest.Plan) {
	c, err := config.Preset(preset)
	require.NoError(t, err)

	c.Stage = "dev"
	c.Account = config.Account{Id: "123456789012", Region: "us-west-2"}
	return c, manifest.FromConfig(c)
}

func TestStorage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		preset   string
		setup    func(*servicemock.MockBucketService, *servicemock.MockTableService)
		teardown func(*servicemock.MockBucketService, *servicemock.MockTableService)
		test     func(*testing.T, Convention, manifest.Plan, *servicemock.MockBucketService, *servicemock.MockTableService)
	}{
		{
			name:   "convention.Deploy converges the bucket and the table of an indexed stack.",
			preset: "gateway-indexed",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.MatchedBy(func(d bucket.Definition) bool {
					return d.Name == "file-link-s3bucket" && d.Versioned && d.Region == "us-west-2" &&
						d.Tags["filelink:stack"] == "filelink"
				})).Return(bucket.State{Exists: true, Versioning: types.BucketVersioningStatusEnabled}, nil)
				mts.On("PutTable", mock.Anything, table.Definition{
					Name:         "FileLinkDB",
					PartitionKey: "ID",
					SortKey:      "Path",
					IndexName:    "Path-ID-Index",
					Tags:         map[string]string{"filelink:stack": "filelink", "filelink:stage": "dev", "filelink:retention": "ephemeral", "filelink:variant": "gateway-indexed"},
				}).Return(table.State{Exists: true}, nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Deploy(ctx, plan)
				assert.NoError(t, err)
				assert.True(t, got.Bucket.Exists)
				assert.True(t, got.Table.Exists)
			},
			teardown: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.AssertExpectations(t)
				mts.AssertExpectations(t)
			},
		},
		{
			name:   "convention.Deploy never touches a table for a basic stack.",
			preset: "url-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{Exists: true}, nil)
				mts.On("Inspect", mock.Anything, mock.Anything).Return(table.State{}, nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Deploy(ctx, plan)
				assert.NoError(t, err)
				assert.False(t, got.Table.Exists)
				mts.AssertNotCalled(t, "PutTable", mock.Anything, mock.Anything)
				mts.AssertNotCalled(t, "DeleteTable", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Deploy drops the table an ephemeral stack left behind when its index was switched off.",
			preset: "url-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{Exists: true}, nil)
				mts.On("Inspect", mock.Anything, "filelink-dev").Return(table.State{}, nil)
				mts.On("Inspect", mock.Anything, "FileLinkDB").Return(table.State{Exists: true, Arn: "arn:aws:dynamodb:us-west-2:123456789012:table/FileLinkDB"}, nil)
				mts.On("Tags", mock.Anything, "arn:aws:dynamodb:us-west-2:123456789012:table/FileLinkDB").
					Return(map[string]string{"filelink:stack": "filelink", "filelink:stage": "dev"}, nil)
				mts.On("DeleteTable", mock.Anything, "FileLinkDB").Return(nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Deploy(ctx, plan)
				assert.NoError(t, err)
				assert.False(t, got.Table.Exists)
			},
			teardown: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.AssertExpectations(t)
				mts.AssertExpectations(t)
			},
		},
		{
			name:   "convention.Deploy leaves a table tagged for another stage alone.",
			preset: "url-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{Exists: true}, nil)
				mts.On("Inspect", mock.Anything, "filelink-dev").Return(table.State{}, nil)
				mts.On("Inspect", mock.Anything, "FileLinkDB").Return(table.State{Exists: true, Arn: "arn:table/FileLinkDB"}, nil)
				mts.On("Tags", mock.Anything, "arn:table/FileLinkDB").
					Return(map[string]string{"filelink:stack": "filelink", "filelink:stage": "prod"}, nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				_, err := c.Deploy(ctx, plan)
				assert.NoError(t, err)
				mts.AssertNotCalled(t, "DeleteTable", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Deploy retains the leftover table of a persistent stack.",
			preset: "gateway-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{Exists: true}, nil)
				mts.On("Inspect", mock.Anything, "filelink-dev").Return(table.State{Exists: true, Arn: "arn:table/filelink-dev"}, nil)
				mts.On("Inspect", mock.Anything, "FileLinkDB").Return(table.State{}, nil)
				mts.On("Tags", mock.Anything, "arn:table/filelink-dev").
					Return(map[string]string{"filelink:stack": "filelink", "filelink:stage": "dev"}, nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				_, err := c.Deploy(ctx, plan)
				assert.NoError(t, err)
				mts.AssertNotCalled(t, "DeleteTable", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Deploy surfaces a failed orphan lookup.",
			preset: "url-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{Exists: true}, nil)
				mts.On("Inspect", mock.Anything, "filelink-dev").Return(table.State{}, fmt.Errorf("AccessDeniedException"))
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				_, err := c.Deploy(ctx, plan)
				assert.Error(t, err)
				mts.AssertNotCalled(t, "DeleteTable", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Deploy stops when the bucket fails.",
			preset: "gateway-indexed",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{}, fmt.Errorf("AccessDenied"))
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				_, err := c.Deploy(ctx, plan)
				assert.Error(t, err)
				mts.AssertNotCalled(t, "PutTable", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Destroy empties and deletes an ephemeral bucket and its table.",
			preset: "gateway-indexed",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mts.On("DeleteTable", mock.Anything, "FileLinkDB").Return(nil)
				mbs.On("EmptyBucket", mock.Anything, "file-link-s3bucket").Return(12, nil)
				mbs.On("DeleteBucket", mock.Anything, "file-link-s3bucket").Return(nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Destroy(ctx, plan)
				assert.NoError(t, err)
				assert.Equal(t, Teardown{ObjectsRemoved: 12, TableDeleted: true}, got)
			},
			teardown: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.AssertExpectations(t)
				mts.AssertExpectations(t)
			},
		},
		{
			name:   "convention.Destroy leaves a persistent stack's storage untouched.",
			preset: "url-indexed",
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Destroy(ctx, plan)
				assert.NoError(t, err)
				assert.True(t, got.Retained)
				mbs.AssertNotCalled(t, "EmptyBucket", mock.Anything, mock.Anything)
				mbs.AssertNotCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
				mts.AssertNotCalled(t, "DeleteTable", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Destroy keeps the bucket when emptying fails.",
			preset: "url-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mts.On("Inspect", mock.Anything, mock.Anything).Return(table.State{}, nil)
				mbs.On("EmptyBucket", mock.Anything, mock.Anything).Return(3, fmt.Errorf("delete a_0@v1: Access Denied"))
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Destroy(ctx, plan)
				assert.Error(t, err)
				assert.Equal(t, 3, got.ObjectsRemoved)
				mbs.AssertNotCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Destroy deletes a leftover table of a basic ephemeral stack.",
			preset: "url-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mts.On("Inspect", mock.Anything, "filelink-dev").Return(table.State{Exists: true, Arn: "arn:table/filelink-dev"}, nil)
				mts.On("Inspect", mock.Anything, "FileLinkDB").Return(table.State{}, nil)
				mts.On("Tags", mock.Anything, "arn:table/filelink-dev").
					Return(map[string]string{"filelink:stack": "filelink", "filelink:stage": "dev"}, nil)
				mts.On("DeleteTable", mock.Anything, "filelink-dev").Return(nil)
				mbs.On("EmptyBucket", mock.Anything, mock.Anything).Return(0, nil)
				mbs.On("DeleteBucket", mock.Anything, mock.Anything).Return(nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Destroy(ctx, plan)
				assert.NoError(t, err)
				assert.Equal(t, Teardown{TableDeleted: true}, got)
			},
			teardown: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.AssertExpectations(t)
				mts.AssertExpectations(t)
			},
		},
		{
			name:   "convention.Find inspects only the stores the plan has.",
			preset: "gateway-basic",
			setup: func(mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				mbs.On("Inspect", mock.Anything, "filelink-dev-123456789012-us-west-2").Return(bucket.State{}, nil)
			},
			test: func(t *testing.T, c Convention, plan manifest.Plan, mbs *servicemock.MockBucketService, mts *servicemock.MockTableService) {
				got, err := c.Find(ctx, plan)
				assert.NoError(t, err)
				assert.False(t, got.Bucket.Exists)
				mts.AssertNotCalled(t, "Inspect", mock.Anything, mock.Anything)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mbs := &servicemock.MockBucketService{}
			mts := &servicemock.MockTableService{}

			c, plan := planFor(t, tc.preset)

			if tc.setup != nil {
				tc.setup(mbs, mts)
			}

			tc.test(t, FromServices(c, mbs, mts), plan, mbs, mts)

			if tc.teardown != nil {
				tc.teardown(mbs, mts)
			}
		})
	}
}
