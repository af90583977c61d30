package umwelt

import (
	"context"
	"fmt"
	"testing"

	"github.com/linecard/filelink/internal/gitlib"
	clientmock "github.com/linecard/filelink/pkg/mock/client"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFromCwd(t *testing.T) {
	ctx := context.Background()
	checkout := gitlib.Checkout{Root: "/src/filelink", Branch: "feature/upload", Sha: "0123456789abcdef0123456789abcdef01234567"}

	cases := []struct {
		name      string
		awsConfig aws.Config
		setup     func(*clientmock.MockSTSClient)
		test      func(*testing.T, Here, error)
	}{
		{
			name:      "perceives caller, region and checkout",
			awsConfig: aws.Config{Region: "us-east-2"},
			setup: func(msts *clientmock.MockSTSClient) {
				msts.On("GetCallerIdentity", ctx, mock.Anything).Return(&sts.GetCallerIdentityOutput{
					UserId:  aws.String("user-123"),
					Account: aws.String("123456789012"),
					Arn:     aws.String("arn:aws:iam::123456789012:user/test"),
				}, nil)
			},
			test: func(t *testing.T, here Here, err error) {
				assert.NoError(t, err)
				assert.Equal(t, Here{
					Caller: ThisCaller{
						Id:      "user-123",
						Arn:     "arn:aws:iam::123456789012:user/test",
						Account: "123456789012",
						Region:  "us-east-2",
					},
					Git: checkout,
				}, here)
			},
		},
		{
			name:      "fails without a region",
			awsConfig: aws.Config{},
			setup: func(msts *clientmock.MockSTSClient) {
				msts.On("GetCallerIdentity", ctx, mock.Anything).Return(&sts.GetCallerIdentityOutput{
					Account: aws.String("123456789012"),
				}, nil)
			},
			test: func(t *testing.T, here Here, err error) {
				assert.ErrorContains(t, err, "region")
			},
		},
		{
			name:      "propagates identity failures",
			awsConfig: aws.Config{Region: "us-east-2"},
			setup: func(msts *clientmock.MockSTSClient) {
				msts.On("GetCallerIdentity", ctx, mock.Anything).Return((*sts.GetCallerIdentityOutput)(nil), fmt.Errorf("expired token"))
			},
			test: func(t *testing.T, here Here, err error) {
				assert.ErrorContains(t, err, "expired token")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msts := &clientmock.MockSTSClient{}
			tc.setup(msts)

			here, err := FromCwd(ctx, checkout, tc.awsConfig, msts)
			tc.test(t, here, err)
		})
	}
}
