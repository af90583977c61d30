package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
)

// Inspect returns nil output and nil error when the function does not exist.
func (s Service) Inspect(ctx context.Context, name string) (*lambda.GetFunctionOutput, error) {
	getFunctionInput := &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	}

	getFunctionOutput, err := s.Client.Lambda.GetFunction(ctx, getFunctionInput)
	if notFound(err) {
		return nil, nil
	}

	return getFunctionOutput, err
}

func (s Service) InspectUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	getFunctionUrlConfigInput := &lambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	}

	getFunctionUrlConfigOutput, err := s.Client.Lambda.GetFunctionUrlConfig(ctx, getFunctionUrlConfigInput)
	if notFound(err) {
		return nil, nil
	}

	return getFunctionUrlConfigOutput, err
}

func notFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "NoSuchEntity":
			return true
		}
	}
	return false
}
