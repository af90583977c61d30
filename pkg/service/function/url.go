package function

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	types "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

const (
	UrlStatementId    = "filelink-function-url"
	InvokeStatementId = "filelink-function-url-invoke"
)

// PutFunctionUrl mounts an unauthenticated URL on the function. The URL carries no CORS
// configuration, the handler answers cross origin requests itself.
func (s Service) PutFunctionUrl(ctx context.Context, name string) (*lambda.GetFunctionUrlConfigOutput, error) {
	var apiErr smithy.APIError

	getFunctionUrlConfigInput := &lambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	}

	_, err := s.Client.Lambda.GetFunctionUrlConfig(ctx, getFunctionUrlConfigInput)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			createFunctionUrlConfigInput := &lambda.CreateFunctionUrlConfigInput{
				FunctionName: aws.String(name),
				AuthType:     types.FunctionUrlAuthTypeNone,
			}

			if _, err := s.Client.Lambda.CreateFunctionUrlConfig(ctx, createFunctionUrlConfigInput); err != nil {
				return &lambda.GetFunctionUrlConfigOutput{}, err
			}
		default:
			return &lambda.GetFunctionUrlConfigOutput{}, err
		}
	} else if err != nil {
		return &lambda.GetFunctionUrlConfigOutput{}, err
	} else {
		updateFunctionUrlConfigInput := &lambda.UpdateFunctionUrlConfigInput{
			FunctionName: aws.String(name),
			AuthType:     types.FunctionUrlAuthTypeNone,
			Cors:         &types.Cors{},
		}

		if _, err := s.Client.Lambda.UpdateFunctionUrlConfig(ctx, updateFunctionUrlConfigInput); err != nil {
			return &lambda.GetFunctionUrlConfigOutput{}, err
		}
	}

	for _, addPermissionInput := range urlPermissions(name) {
		if err := s.PutPermission(ctx, addPermissionInput); err != nil {
			return &lambda.GetFunctionUrlConfigOutput{}, err
		}
	}

	return s.Client.Lambda.GetFunctionUrlConfig(ctx, getFunctionUrlConfigInput)
}

// urlPermissions opens a public url. Invoking through the url needs both statements, and
// the InvokeFunction one only holds for requests arriving through the url.
func urlPermissions(name string) []*lambda.AddPermissionInput {
	return []*lambda.AddPermissionInput{
		{
			FunctionName:        aws.String(name),
			StatementId:         aws.String(UrlStatementId),
			Action:              aws.String("lambda:InvokeFunctionUrl"),
			Principal:           aws.String("*"),
			FunctionUrlAuthType: types.FunctionUrlAuthTypeNone,
		},
		{
			FunctionName:          aws.String(name),
			StatementId:           aws.String(InvokeStatementId),
			Action:                aws.String("lambda:InvokeFunction"),
			Principal:             aws.String("*"),
			InvokedViaFunctionUrl: aws.Bool(true),
		},
	}
}

func (s Service) DeleteFunctionUrl(ctx context.Context, name string) error {
	for _, statementId := range []string{UrlStatementId, InvokeStatementId} {
		if err := s.RemovePermission(ctx, name, statementId); err != nil {
			return err
		}
	}

	deleteFunctionUrlConfigInput := &lambda.DeleteFunctionUrlConfigInput{
		FunctionName: aws.String(name),
	}

	if _, err := s.Client.Lambda.DeleteFunctionUrlConfig(ctx, deleteFunctionUrlConfigInput); err != nil && !notFound(err) {
		return err
	}

	return nil
}

// PutPermission replaces the statement so a changed source or principal always takes effect.
func (s Service) PutPermission(ctx context.Context, input *lambda.AddPermissionInput) error {
	if err := s.RemovePermission(ctx, aws.ToString(input.FunctionName), aws.ToString(input.StatementId)); err != nil {
		return err
	}

	_, err := s.Client.Lambda.AddPermission(ctx, input)
	return err
}

func (s Service) RemovePermission(ctx context.Context, name, statementId string) error {
	removePermissionInput := &lambda.RemovePermissionInput{
		FunctionName: aws.String(name),
		StatementId:  aws.String(statementId),
	}

	if _, err := s.Client.Lambda.RemovePermission(ctx, removePermissionInput); err != nil && !notFound(err) {
		return err
	}

	return nil
}
