package stack

import (
	"context"
	"errors"
	"fmt"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/deployment"
	"github.com/linecard/filelink/pkg/convention/httproxy"
	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/convention/storage"
	"github.com/linecard/filelink/pkg/fault"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// Release is what one Deploy converged.
type Release struct {
	Plan       manifest.Plan         `json:"plan" yaml:"plan"`
	Storage    storage.Storage       `json:"storage" yaml:"storage"`
	Deployment deployment.Deployment `json:"-" yaml:"-"`
	Endpoint   httproxy.Endpoint     `json:"endpoint" yaml:"endpoint"`
}

// Status is the live state of every resource the plan names. Deployment is nil when the function is missing.
type Status struct {
	Plan       manifest.Plan          `json:"plan" yaml:"plan"`
	Storage    storage.Storage        `json:"storage" yaml:"storage"`
	Deployment *deployment.Deployment `json:"-" yaml:"-"`
	Endpoints  []httproxy.Endpoint    `json:"endpoints" yaml:"endpoints"`
}

type Convention struct {
	Config     config.Config
	Storage    storage.Convention
	Deployment deployment.Convention
	Httproxy   httproxy.Convention
}

func FromConventions(c config.Config, s storage.Convention, d deployment.Convention, h httproxy.Convention) Convention {
	return Convention{
		Config:     c,
		Storage:    s,
		Deployment: d,
		Httproxy:   h,
	}
}

func (c Convention) Plan() (manifest.Plan, error) {
	if err := c.Config.Validate(); err != nil {
		return manifest.Plan{}, err
	}
	return manifest.FromConfig(c.Config), nil
}

// Deploy converges stores, then identity and function, then the public entry.
func (c Convention) Deploy(ctx context.Context) (Release, error) {
	ctx, span := otel.Tracer("").Start(ctx, "stack.Deploy")
	defer span.End()

	if err := c.Config.ValidateCode(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Release{}, err
	}

	plan, err := c.Plan()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Release{}, err
	}

	release := Release{Plan: plan}

	log.Info().Str("stack", plan.Stack).Str("stage", plan.Stage).Str("variant", plan.Variant).Msg("deploying")

	if release.Storage, err = c.Storage.Deploy(ctx, plan); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return release, fmt.Errorf("storage: %w", err)
	}

	if release.Deployment, err = c.Deployment.Deploy(ctx, plan); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return release, fmt.Errorf("function: %w", err)
	}

	if release.Endpoint, err = c.Httproxy.Mount(ctx, plan.Entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return release, fmt.Errorf("entry: %w", err)
	}

	return release, nil
}

// Destroy walks Deploy backwards. Storage is only removed from ephemeral stacks.
func (c Convention) Destroy(ctx context.Context) (storage.Teardown, error) {
	ctx, span := otel.Tracer("").Start(ctx, "stack.Destroy")
	defer span.End()

	plan, err := c.Plan()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return storage.Teardown{}, err
	}

	log.Info().Str("stack", plan.Stack).Str("stage", plan.Stage).Str("retention", string(plan.Bucket.Retention)).Msg("destroying")

	if err := c.Httproxy.Unmount(ctx, plan.Entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return storage.Teardown{}, fmt.Errorf("entry: %w", err)
	}

	if err := c.Deployment.Destroy(ctx, plan); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return storage.Teardown{}, fmt.Errorf("function: %w", err)
	}

	teardown, err := c.Storage.Destroy(ctx, plan)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return teardown, fmt.Errorf("storage: %w", err)
	}

	return teardown, nil
}

func (c Convention) Status(ctx context.Context) (Status, error) {
	ctx, span := otel.Tracer("").Start(ctx, "stack.Status")
	defer span.End()

	plan, err := c.Plan()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Status{}, err
	}

	status := Status{Plan: plan}

	if status.Storage, err = c.Storage.Find(ctx, plan); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return status, err
	}

	found, err := c.Deployment.Find(ctx, plan.Function.Name)
	switch {
	case errors.Is(err, fault.ErrNotFound):
	case err != nil:
		span.SetStatus(codes.Error, err.Error())
		return status, err
	default:
		status.Deployment = &found
	}

	if status.Endpoints, err = c.Httproxy.Find(ctx, plan.Entry); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return status, err
	}

	return status, nil
}

// Verify simulates the deployed role against every expectation of the plan.
func (c Convention) Verify(ctx context.Context) ([]deployment.Check, error) {
	ctx, span := otel.Tracer("").Start(ctx, "stack.Verify")
	defer span.End()

	plan, err := c.Plan()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	checks, err := c.Deployment.Verify(ctx, plan)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return checks, err
	}

	return checks, nil
}

// Failed filters checks down to the ones that did not match expectation.
func Failed(checks []deployment.Check) []deployment.Check {
	var failed []deployment.Check
	for _, check := range checks {
		if !check.Pass() {
			failed = append(failed, check)
		}
	}
	return failed
}
