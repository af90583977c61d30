package deployment

import (
	"context"
	"fmt"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/fault"
	"github.com/linecard/filelink/pkg/service/function"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog/log"
)

type FunctionService interface {
	Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error)
	GetRole(ctx context.Context, name string) (*iam.GetRoleOutput, error)
	PutPolicy(ctx context.Context, arn string, document string, tags map[string]string) (*iam.GetPolicyOutput, error)
	DeletePolicy(ctx context.Context, arn string) (*iam.DeletePolicyOutput, error)
	PutRole(ctx context.Context, name string, trustDocument string, policyArns []string, tags map[string]string) (*iam.GetRoleOutput, error)
	DeleteRole(ctx context.Context, name string) (*iam.DeleteRoleOutput, error)
	PutFunction(ctx context.Context, d function.Definition) (*lambda.GetFunctionOutput, error)
	DeleteFunction(ctx context.Context, name string) (*lambda.DeleteFunctionOutput, error)
	Simulate(ctx context.Context, roleArn string, actions, resources []string) ([]iamtypes.EvaluationResult, error)
}

type Deployment struct {
	lambda.GetFunctionOutput
}

// Check is the simulated outcome of one expectation.
type Check struct {
	manifest.Expectation
	Decision iamtypes.PolicyEvaluationDecisionType `json:"decision" yaml:"decision"`
}

func (c Check) Pass() bool {
	if c.Allowed {
		return c.Decision == iamtypes.PolicyEvaluationDecisionTypeAllowed
	}
	return c.Decision != iamtypes.PolicyEvaluationDecisionTypeAllowed
}

type Services struct {
	Function FunctionService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, f FunctionService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Function: f,
		},
	}
}

// Find wraps fault.ErrNotFound when the function does not exist.
func (c Convention) Find(ctx context.Context, name string) (Deployment, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Find")
	defer span.End()

	output, err := c.Service.Function.Inspect(ctx, name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	if output == nil {
		return Deployment{}, fmt.Errorf("%w: function %s", fault.ErrNotFound, name)
	}

	return Deployment{*output}, nil
}

// Deploy converges policy, role and function in that order.
func (c Convention) Deploy(ctx context.Context, plan manifest.Plan) (Deployment, error) {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Deploy")
	defer span.End()

	code, err := Package(plan.Function)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	log.Info().Str("policy", plan.Role.PolicyArn).Msg("putting data plane policy")

	policy, err := c.Service.Function.PutPolicy(ctx, plan.Role.PolicyArn, plan.Role.Policy.String(), plan.Role.Tags)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	policyArns := append([]string{aws.ToString(policy.Policy.Arn)}, plan.Role.ManagedPolicyArns...)

	role, err := c.Service.Function.PutRole(ctx, plan.Role.Name, plan.Role.TrustPolicy.String(), policyArns, plan.Role.Tags)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	definition := function.Definition{
		Name:         plan.Function.Name,
		RoleArn:      aws.ToString(role.Role.Arn),
		Architecture: types.Architecture(plan.Function.Architecture),
		MemorySize:   plan.Function.MemorySize,
		Timeout:      plan.Function.Timeout,
		Environment:  plan.Function.Environment,
		Code:         code,
		Tags:         plan.Function.Tags,
	}

	output, err := c.Service.Function.PutFunction(ctx, definition)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deployment{}, err
	}

	return Deployment{*output}, nil
}

// Destroy removes function, role and policy. Each step tolerates an already missing resource.
func (c Convention) Destroy(ctx context.Context, plan manifest.Plan) error {
	ctx, span := otel.Tracer("").Start(ctx, "deployment.Destroy")
	defer span.End()

	if _, err := c.Service.Function.DeleteFunction(ctx, plan.Function.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := c.Service.Function.DeleteRole(ctx, plan.Role.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := c.Service.Function.DeletePolicy(ctx, plan.Role.PolicyArn); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Verify simulates every expectation of the plan as the deployed role.
func (c Convention) Verify(ctx context.Context, plan manifest.Plan) ([]Check, error) {
	var checks []Check

	ctx, span := otel.Tracer("").Start(ctx, "deployment.Verify")
	defer span.End()

	role, err := c.Service.Function.GetRole(ctx, plan.Role.Name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return checks, err
	}

	if role == nil {
		err := fmt.Errorf("%w: role %s", fault.ErrNotFound, plan.Role.Name)
		span.SetStatus(codes.Error, err.Error())
		return checks, err
	}

	for _, expectation := range plan.Expectations() {
		results, err := c.Service.Function.Simulate(ctx, aws.ToString(role.Role.Arn), []string{expectation.Action}, []string{expectation.Resource})
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return checks, err
		}

		check := Check{Expectation: expectation, Decision: iamtypes.PolicyEvaluationDecisionTypeImplicitDeny}
		if len(results) > 0 {
			check.Decision = results[0].EvalDecision
		}

		log.Debug().Str("action", expectation.Action).Str("resource", expectation.Resource).Str("decision", string(check.Decision)).Msg("simulated")
		checks = append(checks, check)
	}

	return checks, nil
}
