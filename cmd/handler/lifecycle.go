package handler

import (
	"context"

	"github.com/linecard/filelink/internal/util"
	"github.com/linecard/filelink/pkg/api"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/store"
	"github.com/linecard/filelink/pkg/store/blob"
	"github.com/linecard/filelink/pkg/store/index"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rs/zerolog/log"
)

// BeforeAll reads the store names once per cold start. A missing bucket aborts the start.
func BeforeAll(ctx context.Context) Handler {
	util.SetLogLevel()

	env, err := api.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load handler environment")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS configuration")
	}

	awsConfig = store.Configure(awsConfig)

	blobs := blob.FromClient(s3.NewFromConfig(awsConfig), env.Bucket)

	var links api.Links
	if env.Indexed() {
		links, err = index.Discover(ctx, dynamodb.NewFromConfig(awsConfig), env.Table)
		if err != nil {
			log.Fatal().Err(err).Str("table", env.Table).Msg("failed to discover metadata index")
		}
	}

	log.Info().Str("bucket", env.Bucket).Str("table", env.Table).Msg("handler ready")

	return FromApps(
		api.New(config.Gateway, blobs, links),
		api.New(config.Url, blobs, links),
	)
}
