package blob

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linecard/filelink/pkg/fault"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBucket(t *testing.T, ctx context.Context, bucket string, versioned bool) Store {
	t.Helper()

	server := httptest.NewServer(gofakes3.New(s3mem.New()).Server())
	t.Cleanup(server.Close)

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(server.URL)
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	require.NoError(t, err)

	if versioned {
		_, err = client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
			Bucket:                  aws.String(bucket),
			VersioningConfiguration: &types.VersioningConfiguration{Status: types.BucketVersioningStatusEnabled},
		})
		require.NoError(t, err)
	}

	return FromClient(client, bucket)
}

func read(t *testing.T, blob Blob) string {
	t.Helper()
	defer blob.Body.Close()

	content, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	return string(content)
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		versioned bool
		test      func(*testing.T, Store, []Object)
	}{
		{
			name:      "versioned bucket keeps both writes",
			versioned: true,
			test: func(t *testing.T, store Store, written []Object) {
				latest, err := store.Get(ctx, "abc_0", "")
				require.NoError(t, err)
				assert.Equal(t, "B", read(t, latest))

				versions, err := store.Versions(ctx, "abc_0")
				require.NoError(t, err)
				require.Len(t, versions, 2)

				require.NotEmpty(t, written[0].VersionId)
				first, err := store.Get(ctx, "abc_0", written[0].VersionId)
				require.NoError(t, err)
				assert.Equal(t, "A", read(t, first))
			},
		},
		{
			name:      "unversioned bucket keeps only the last write",
			versioned: false,
			test: func(t *testing.T, store Store, written []Object) {
				latest, err := store.Get(ctx, "abc_0", "")
				require.NoError(t, err)
				assert.Equal(t, "B", read(t, latest))

				assert.Empty(t, written[0].VersionId)
				assert.Empty(t, written[1].VersionId)

				versions, err := store.Versions(ctx, "abc_0")
				require.NoError(t, err)
				require.Len(t, versions, 1)
				assert.True(t, versions[0].Latest)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := fakeBucket(t, ctx, "file-link-s3bucket", tc.versioned)

			var written []Object
			for _, content := range []string{"A", "B"} {
				object, err := store.Put(ctx, "abc_0", strings.NewReader(content), "application/zip")
				require.NoError(t, err)
				assert.Equal(t, int64(1), object.Size)
				written = append(written, object)
			}

			tc.test(t, store, written)
		})
	}
}

func TestVersionsFiltersLongerKeys(t *testing.T) {
	ctx := context.Background()
	store := fakeBucket(t, ctx, "file-link-s3bucket", true)

	for _, key := range []string{"abc_1", "abc_10", "abc_1"} {
		_, err := store.Put(ctx, key, strings.NewReader(key), "application/zip")
		require.NoError(t, err)
	}

	versions, err := store.Versions(ctx, "abc_1")
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	store := fakeBucket(t, ctx, "file-link-s3bucket", false)

	_, err := store.Get(ctx, "nothing_0", "")
	assert.True(t, errors.Is(err, fault.ErrNotFound))
	assert.Equal(t, 404, fault.Status(err))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := fakeBucket(t, ctx, "file-link-s3bucket", false)

	_, err := store.Put(ctx, "abc_0", strings.NewReader("A"), "application/zip")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "abc_0"))

	_, err = store.Get(ctx, "abc_0", "")
	assert.ErrorIs(t, err, fault.ErrNotFound)
}
