package function

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	types "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

const (
	Runtime = types.RuntimeProvidedal2023
	Handler = "bootstrap"

	settleTimeout = 5 * time.Minute
)

// Code is either a deployment zip or a container image, never both.
type Code struct {
	ZipFile  []byte
	ImageUri string
}

func (c Code) Image() bool {
	return c.ImageUri != ""
}

type Definition struct {
	Name         string
	RoleArn      string
	Architecture types.Architecture
	MemorySize   int32
	Timeout      int32
	Environment  map[string]string
	Code         Code
	Tags         map[string]string
}

func (s Service) PutFunction(ctx context.Context, d Definition) (*lambda.GetFunctionOutput, error) {
	var apiErr smithy.APIError

	getFunctionInput := &lambda.GetFunctionInput{
		FunctionName: aws.String(d.Name),
	}

	createFunctionInput := &lambda.CreateFunctionInput{
		FunctionName:  aws.String(d.Name),
		Role:          aws.String(d.RoleArn),
		Architectures: []types.Architecture{d.Architecture},
		MemorySize:    aws.Int32(d.MemorySize),
		Timeout:       aws.Int32(d.Timeout),
		Environment:   &types.Environment{Variables: d.Environment},
		Tags:          d.Tags,
	}

	if d.Code.Image() {
		createFunctionInput.PackageType = types.PackageTypeImage
		createFunctionInput.Code = &types.FunctionCode{ImageUri: aws.String(d.Code.ImageUri)}
	} else {
		createFunctionInput.PackageType = types.PackageTypeZip
		createFunctionInput.Runtime = Runtime
		createFunctionInput.Handler = aws.String(Handler)
		createFunctionInput.Code = &types.FunctionCode{ZipFile: d.Code.ZipFile}
	}

	getFunctionOutput, err := s.Client.Lambda.GetFunction(ctx, getFunctionInput)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			log.Info().Str("function", d.Name).Msg("creating function")

			// a freshly created role is not assumable by lambda until IAM has propagated it
			_, err := s.Client.Lambda.CreateFunction(ctx, createFunctionInput, func(options *lambda.Options) {
				options.Retryer = retry.AddWithErrorCodes(options.Retryer, (*types.InvalidParameterValueException)(nil).ErrorCode())
				options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
			})

			if err != nil {
				return &lambda.GetFunctionOutput{}, err
			}

			waiter := lambda.NewFunctionActiveV2Waiter(s.Client.Lambda)
			if err := waiter.Wait(ctx, getFunctionInput, settleTimeout); err != nil {
				return &lambda.GetFunctionOutput{}, err
			}

			return s.Client.Lambda.GetFunction(ctx, getFunctionInput)
		default:
			return &lambda.GetFunctionOutput{}, err
		}
	} else if err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	log.Info().Str("function", d.Name).Msg("updating function")

	updateFunctionConfigurationInput := &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(d.Name),
		Role:         aws.String(d.RoleArn),
		MemorySize:   createFunctionInput.MemorySize,
		Timeout:      createFunctionInput.Timeout,
		Environment:  createFunctionInput.Environment,
	}

	if !d.Code.Image() {
		updateFunctionConfigurationInput.Runtime = Runtime
		updateFunctionConfigurationInput.Handler = aws.String(Handler)
	}

	updateFunctionCodeInput := &lambda.UpdateFunctionCodeInput{
		FunctionName:  aws.String(d.Name),
		Architectures: createFunctionInput.Architectures,
		Publish:       true,
	}

	if d.Code.Image() {
		updateFunctionCodeInput.ImageUri = aws.String(d.Code.ImageUri)
	} else {
		updateFunctionCodeInput.ZipFile = d.Code.ZipFile
	}

	settling := func(options *lambda.Options) {
		options.Retryer = retry.AddWithErrorCodes(options.Retryer, (*types.ResourceConflictException)(nil).ErrorCode())
		options.Retryer = retry.AddWithMaxAttempts(options.Retryer, 10)
	}

	if _, err = s.Client.Lambda.UpdateFunctionConfiguration(ctx, updateFunctionConfigurationInput, settling); err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	waiter := lambda.NewFunctionUpdatedV2Waiter(s.Client.Lambda)
	if err = waiter.Wait(ctx, getFunctionInput, settleTimeout); err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	if _, err = s.Client.Lambda.UpdateFunctionCode(ctx, updateFunctionCodeInput, settling); err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	if err = waiter.Wait(ctx, getFunctionInput, settleTimeout); err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	tagResourceInput := &lambda.TagResourceInput{
		Resource: getFunctionOutput.Configuration.FunctionArn,
		Tags:     d.Tags,
	}

	if _, err = s.Client.Lambda.TagResource(ctx, tagResourceInput); err != nil {
		return &lambda.GetFunctionOutput{}, err
	}

	return s.Client.Lambda.GetFunction(ctx, getFunctionInput)
}

// DeleteFunction treats an already missing function as deleted.
func (s Service) DeleteFunction(ctx context.Context, name string) (*lambda.DeleteFunctionOutput, error) {
	deleteInput := &lambda.DeleteFunctionInput{
		FunctionName: aws.String(name),
	}

	deleteOutput, err := s.Client.Lambda.DeleteFunction(ctx, deleteInput)
	if notFound(err) {
		return &lambda.DeleteFunctionOutput{}, nil
	}

	return deleteOutput, err
}
