package stack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/deployment"
	"github.com/linecard/filelink/pkg/convention/httproxy"
	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/convention/storage"
	"github.com/linecard/filelink/pkg/fault"
	servicemock "github.com/linecard/filelink/pkg/mock/service"
	"github.com/linecard/filelink/pkg/service/bucket"
	"github.com/linecard/filelink/pkg/service/table"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mocks struct {
	bucket   *servicemock.MockBucketService
	table    *servicemock.MockTableService
	function *servicemock.MockFunctionService
	gateway  *servicemock.MockGatewayService
	order    *[]string
}

// record appends step to the shared call order whenever the expectation is hit.
func (m mocks) record(step string) func(mock.Arguments) {
	return func(mock.Arguments) {
		*m.order = append(*m.order, step)
	}
}

func configFor(t *testing.T, preset string) config.Config {
	c, err := config.Preset(preset)
	require.NoError(t, err)

	artifact := filepath.Join(t.TempDir(), "bootstrap")
	require.NoError(t, os.WriteFile(artifact, []byte("\x7fELF"), 0o755))

	c.Stage = "dev"
	c.Account = config.Account{Id: "123456789012", Region: "us-west-2"}
	c.Function.Artifact = artifact
	return c
}

func TestStack(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		preset string
		mutate func(*config.Config)
		setup  func(mocks, manifest.Plan)
		test   func(*testing.T, Convention, mocks)
	}{
		{
			name:   "convention.Deploy converges stores, then function, then entry.",
			preset: "url-indexed",
			setup: func(m mocks, plan manifest.Plan) {
				m.bucket.On("PutBucket", mock.Anything, mock.Anything).Return(bucket.State{Exists: true}, nil).Run(m.record("bucket"))
				m.table.On("PutTable", mock.Anything, mock.Anything).Return(table.State{Exists: true}, nil).Run(m.record("table"))
				m.function.On("PutPolicy", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(servicemock.MockGetPolicyOutput(plan), nil).Run(m.record("policy"))
				m.function.On("PutRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(servicemock.MockGetRoleOutput(plan), nil).Run(m.record("role"))
				m.function.On("PutFunction", mock.Anything, mock.Anything).Return(servicemock.MockGetFunctionOutput(plan), nil).Run(m.record("function"))
				m.gateway.On("FindApi", mock.Anything, "filelink-dev").Return(nil, nil)
				m.function.On("PutFunctionUrl", mock.Anything, "filelink-dev").Return(&lambda.GetFunctionUrlConfigOutput{
					FunctionUrl: aws.String("https://xyz.lambda-url.us-west-2.on.aws/"),
				}, nil).Run(m.record("url"))
			},
			test: func(t *testing.T, c Convention, m mocks) {
				release, err := c.Deploy(ctx)
				assert.NoError(t, err)
				assert.Equal(t, "https://xyz.lambda-url.us-west-2.on.aws/", release.Endpoint.Url)
				assert.Equal(t, []string{"bucket", "table", "policy", "role", "function", "url"}, *m.order)
			},
		},
		{
			name:   "convention.Deploy rejects invalid configuration before any call.",
			preset: "gateway-basic",
			mutate: func(c *config.Config) {
				c.Function.MemorySize = 128
			},
			test: func(t *testing.T, c Convention, m mocks) {
				_, err := c.Deploy(ctx)
				assert.ErrorIs(t, err, fault.ErrInvalidConfig)
				m.bucket.AssertNotCalled(t, "PutBucket", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Destroy walks backwards and deletes an ephemeral bucket.",
			preset: "gateway-indexed",
			setup: func(m mocks, plan manifest.Plan) {
				m.gateway.On("FindApi", mock.Anything, "filelink-dev").Return(nil, nil).Run(m.record("entry"))
				m.function.On("InspectUrl", mock.Anything, "filelink-dev").Return(nil, nil)
				m.function.On("DeleteFunction", mock.Anything, "filelink-dev").Return(&lambda.DeleteFunctionOutput{}, nil).Run(m.record("function"))
				m.function.On("DeleteRole", mock.Anything, "filelink-dev").Return(&iam.DeleteRoleOutput{}, nil).Run(m.record("role"))
				m.function.On("DeletePolicy", mock.Anything, plan.Role.PolicyArn).Return(&iam.DeletePolicyOutput{}, nil).Run(m.record("policy"))
				m.table.On("DeleteTable", mock.Anything, "FileLinkDB").Return(nil).Run(m.record("table"))
				m.bucket.On("EmptyBucket", mock.Anything, "file-link-s3bucket").Return(4, nil).Run(m.record("empty"))
				m.bucket.On("DeleteBucket", mock.Anything, "file-link-s3bucket").Return(nil).Run(m.record("bucket"))
			},
			test: func(t *testing.T, c Convention, m mocks) {
				teardown, err := c.Destroy(ctx)
				assert.NoError(t, err)
				assert.Equal(t, storage.Teardown{ObjectsRemoved: 4, TableDeleted: true}, teardown)
				assert.Equal(t, []string{"entry", "function", "role", "policy", "table", "empty", "bucket"}, *m.order)
			},
		},
		{
			name:   "convention.Destroy retains a persistent bucket.",
			preset: "gateway-basic",
			setup: func(m mocks, plan manifest.Plan) {
				m.gateway.On("FindApi", mock.Anything, mock.Anything).Return(nil, nil)
				m.function.On("InspectUrl", mock.Anything, mock.Anything).Return(nil, nil)
				m.function.On("DeleteFunction", mock.Anything, mock.Anything).Return(&lambda.DeleteFunctionOutput{}, nil)
				m.function.On("DeleteRole", mock.Anything, mock.Anything).Return(&iam.DeleteRoleOutput{}, nil)
				m.function.On("DeletePolicy", mock.Anything, mock.Anything).Return(&iam.DeletePolicyOutput{}, nil)
			},
			test: func(t *testing.T, c Convention, m mocks) {
				teardown, err := c.Destroy(ctx)
				assert.NoError(t, err)
				assert.True(t, teardown.Retained)
				m.bucket.AssertNotCalled(t, "EmptyBucket", mock.Anything, mock.Anything)
				m.bucket.AssertNotCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "convention.Status tolerates a missing function.",
			preset: "url-basic",
			setup: func(m mocks, plan manifest.Plan) {
				m.bucket.On("Inspect", mock.Anything, plan.Bucket.Name).Return(bucket.State{Exists: true}, nil)
				m.function.On("Inspect", mock.Anything, "filelink-dev").Return(nil, nil)
				m.gateway.On("FindApi", mock.Anything, "filelink-dev").Return(nil, nil)
				m.function.On("InspectUrl", mock.Anything, "filelink-dev").Return(nil, nil)
			},
			test: func(t *testing.T, c Convention, m mocks) {
				status, err := c.Status(ctx)
				assert.NoError(t, err)
				assert.True(t, status.Storage.Bucket.Exists)
				assert.Nil(t, status.Deployment)
				assert.Empty(t, status.Endpoints)
			},
		},
		{
			name:   "convention.Verify reports the expectations that did not hold.",
			preset: "gateway-indexed",
			setup: func(m mocks, plan manifest.Plan) {
				m.function.On("GetRole", mock.Anything, "filelink-dev").Return(servicemock.MockGetRoleOutput(plan), nil)
				m.function.On("Simulate", mock.Anything, plan.Role.Arn, []string{"dynamodb:DeleteTable"}, mock.Anything).Return([]iamtypes.EvaluationResult{
					{EvalDecision: iamtypes.PolicyEvaluationDecisionTypeAllowed},
				}, nil)
				m.function.On("Simulate", mock.Anything, plan.Role.Arn, mock.Anything, mock.Anything).Return([]iamtypes.EvaluationResult{
					{EvalDecision: iamtypes.PolicyEvaluationDecisionTypeAllowed},
				}, nil)
			},
			test: func(t *testing.T, c Convention, m mocks) {
				checks, err := c.Verify(ctx)
				assert.NoError(t, err)

				failed := Failed(checks)
				assert.NotEmpty(t, failed)
				for _, check := range failed {
					assert.False(t, check.Allowed)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := mocks{
				bucket:   &servicemock.MockBucketService{},
				table:    &servicemock.MockTableService{},
				function: &servicemock.MockFunctionService{},
				gateway:  &servicemock.MockGatewayService{},
				order:    &[]string{},
			}

			c := configFor(t, tc.preset)
			if tc.mutate != nil {
				tc.mutate(&c)
			}

			if tc.setup != nil {
				tc.setup(m, manifest.FromConfig(c))
			}

			convention := FromConventions(
				c,
				storage.FromServices(c, m.bucket, m.table),
				deployment.FromServices(c, m.function),
				httproxy.FromServices(c, m.gateway, m.function),
			)

			tc.test(t, convention, m)
		})
	}
}
