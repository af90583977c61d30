package method

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linecard/filelink/cmd/cli/param"
	"github.com/linecard/filelink/cmd/cli/view"
	linkapi "github.com/linecard/filelink/pkg/api"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/httproxy"
	"github.com/linecard/filelink/pkg/convention/stack"
	"github.com/linecard/filelink/pkg/sdk"
	"github.com/linecard/filelink/pkg/store"
	"github.com/linecard/filelink/pkg/store/blob"
	"github.com/linecard/filelink/pkg/store/index"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

func Init(ctx context.Context, p *param.Init) error {
	if err := config.Scaffold(p.Preset, p.Output); err != nil {
		return fmt.Errorf("failed to scaffold stack file: %w", err)
	}

	log.Info().Str("preset", p.Preset).Str("file", p.Output).Msg("wrote stack file")
	return nil
}

func Plan(ctx context.Context, api sdk.API, p *param.Plan) error {
	plan, err := api.Stack.Plan()
	if err != nil {
		return err
	}

	return view.Plan(os.Stdout, plan, p.Format)
}

func Deploy(ctx context.Context, api sdk.API, p *param.Deploy) error {
	release, err := api.Stack.Deploy(ctx)
	if err != nil {
		return err
	}

	view.Release(os.Stdout, release)

	if p.Verify {
		return verify(ctx, api, false)
	}

	return nil
}

func Destroy(ctx context.Context, api sdk.API, p *param.Destroy) error {
	if !p.Yes {
		return fmt.Errorf("refusing to destroy %s without --yes", api.Config.ResourceName())
	}

	teardown, err := api.Stack.Destroy(ctx)
	if err != nil {
		return err
	}

	view.Teardown(os.Stdout, api.Config, teardown)
	return nil
}

func Status(ctx context.Context, api sdk.API, p *param.Status) error {
	status, err := api.Stack.Status(ctx)
	if err != nil {
		return err
	}

	view.Status(os.Stdout, status)
	return nil
}

func Verify(ctx context.Context, api sdk.API, p *param.Verify) error {
	return verify(ctx, api, p.Live)
}

func verify(ctx context.Context, api sdk.API, live bool) error {
	checks, err := api.Stack.Verify(ctx)
	if err != nil {
		return err
	}

	view.Checks(os.Stdout, checks)

	if failed := stack.Failed(checks); len(failed) > 0 {
		return fmt.Errorf("%d of %d grant checks failed", len(failed), len(checks))
	}

	if !live {
		return nil
	}

	status, err := api.Stack.Status(ctx)
	if err != nil {
		return err
	}

	if len(status.Endpoints) == 0 {
		return errors.New("no public entry is mounted")
	}

	var failures int
	for _, endpoint := range status.Endpoints {
		results, err := api.Curl.Smoke(ctx, endpoint.Url)
		if err != nil {
			return fmt.Errorf("smoke %s: %w", endpoint.Url, err)
		}

		view.Smoke(os.Stdout, endpoint, results)

		for _, result := range results {
			if !result.Pass() {
				failures++
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d smoke checks failed", failures)
	}

	return nil
}

// Serve runs the handler against the deployed stores behind an emulation of the configured entry.
func Serve(ctx context.Context, api sdk.API, p *param.Serve) error {
	plan, err := api.Stack.Plan()
	if err != nil {
		return err
	}

	awsConfig := store.Configure(api.AwsConfig.Copy())

	blobs := blob.FromClient(s3.NewFromConfig(awsConfig), plan.Bucket.Name)

	var links linkapi.Links
	if plan.Table.Enabled {
		links, err = index.Discover(ctx, dynamodb.NewFromConfig(awsConfig), plan.Table.Name)
		if err != nil {
			return fmt.Errorf("metadata index: %w", err)
		}
	}

	app := linkapi.New(plan.Entry.Kind, blobs, links)

	server := &http.Server{
		Addr:              p.Addr,
		Handler:           httproxy.Local(plan.Entry.Kind, app.Router()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", p.Addr).Str("entry", string(plan.Entry.Kind)).Str("bucket", plan.Bucket.Name).Msg("serving")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func PrintConfig(ctx context.Context, api sdk.API, p *param.Config) error {
	cJson, err := api.Config.Json(ctx)
	if err != nil {
		return fmt.Errorf("failed to print configuration: %w", err)
	}

	fmt.Println(cJson)
	return nil
}
