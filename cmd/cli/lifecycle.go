package cli

import (
	"context"
	"fmt"

	"github.com/linecard/filelink/internal/umwelt"
	"github.com/linecard/filelink/internal/util"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/sdk"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog/log"
)

// BeforeAll resolves who and where the CLI is running, reads the stack file and builds the SDK.
func BeforeAll(ctx context.Context, file string) (sdk.API, error) {
	retryLogger := util.RetryLogger{
		Log: &log.Logger,
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithLogger(&retryLogger),
		awsconfig.WithClientLogMode(aws.LogRetries))

	if err != nil {
		return sdk.API{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	checkout, err := umwelt.Checkout()
	if err != nil {
		return sdk.API{}, fmt.Errorf("failed to read git checkout: %w", err)
	}

	here, err := umwelt.FromCwd(ctx, checkout, awsConfig, sts.NewFromConfig(awsConfig))
	if err != nil {
		return sdk.API{}, fmt.Errorf("failed to resolve caller: %w", err)
	}

	cfg, err := config.FromHere(here, file)
	if err != nil {
		return sdk.API{}, fmt.Errorf("failed to load configuration from %s: %w", file, err)
	}

	return sdk.Init(ctx, awsConfig, cfg)
}
