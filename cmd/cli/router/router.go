package router

import (
	"context"
	"os"

	"github.com/linecard/filelink/cmd/cli/method"
	"github.com/linecard/filelink/cmd/cli/param"
	"github.com/linecard/filelink/pkg/sdk"

	"github.com/alexflint/go-arg"
)

type Root struct {
	param.GlobalOpts
	Init    *param.Init    `arg:"subcommand:init" help:"Write a stack file from a preset"`
	Plan    *param.Plan    `arg:"subcommand:plan" help:"Print every resource the stack consists of"`
	Deploy  *param.Deploy  `arg:"subcommand:deploy" help:"Converge the stack"`
	Destroy *param.Destroy `arg:"subcommand:destroy" help:"Tear the stack down, honoring retention"`
	Status  *param.Status  `arg:"subcommand:status" help:"Show the live state of the stack"`
	Verify  *param.Verify  `arg:"subcommand:verify" help:"Simulate the function grants"`
	Serve   *param.Serve   `arg:"subcommand:serve" help:"Serve the handler locally behind an emulated entry"`
	Config  *param.Config  `arg:"subcommand:config" help:"Print configuration"`
}

// Local reports whether the command runs without touching AWS.
func (r Root) Local() bool {
	return r.Init != nil
}

func (r Root) Route(ctx context.Context, api sdk.API) error {
	switch {
	case r.Init != nil:
		return method.Init(ctx, r.Init)

	case r.Plan != nil:
		return method.Plan(ctx, api, r.Plan)

	case r.Deploy != nil:
		return method.Deploy(ctx, api, r.Deploy)

	case r.Destroy != nil:
		return method.Destroy(ctx, api, r.Destroy)

	case r.Status != nil:
		return method.Status(ctx, api, r.Status)

	case r.Verify != nil:
		return method.Verify(ctx, api, r.Verify)

	case r.Serve != nil:
		return method.Serve(ctx, api, r.Serve)

	case r.Config != nil:
		return method.PrintConfig(ctx, api, r.Config)

	default:
		arg.MustParse(&r).WriteHelp(os.Stdout)
	}

	return nil
}
