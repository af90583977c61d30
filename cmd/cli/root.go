package cli

import (
	"context"
	"os"

	"github.com/linecard/filelink/cmd/cli/param"
	"github.com/linecard/filelink/cmd/cli/router"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/sdk"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

func Invoke() {
	var err error
	var api sdk.API

	ctx := context.Background()
	ctx, span := otel.Tracer("").Start(ctx, "filelink")
	defer span.End()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	var root router.Root
	arg.MustParse(&root)

	configEnv(root.GlobalOpts)

	if !root.Local() {
		if api, err = BeforeAll(ctx, root.File); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize")
		}
	}

	if err := root.Route(ctx, api); err != nil {
		log.Fatal().Err(err).Strs("argv", os.Args).Msgf("failed command")
	}
}

// Take options given to the CLI and export them to their respective environment variables.
func configEnv(opts param.GlobalOpts) {
	exports := map[string]string{
		config.EnvFile:      opts.File,
		config.EnvPreset:    opts.Preset,
		config.EnvStack:     opts.Stack,
		config.EnvStage:     opts.Stage,
		config.EnvEntry:     opts.Entry,
		config.EnvIndexed:   opts.Indexed,
		config.EnvBucket:    opts.Bucket,
		config.EnvRetention: opts.Retention,
		config.EnvArtifact:  opts.Artifact,
		config.EnvImageUri:  opts.ImageUri,
	}

	for key, value := range exports {
		if value != "" {
			os.Setenv(key, value)
		}
	}
}
