package umwelt

import (
	"context"
	"errors"

	"github.com/linecard/filelink/internal/gitlib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// https://en.wikipedia.org/wiki/Umwelt
//
// Umwelt (German for "environment" or "surroundings") is what the CLI perceives about where it runs:
// who is calling AWS, in which region, and from which git checkout.

type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type ThisCaller struct {
	Id      string
	Arn     string
	Account string
	Region  string
}

type Here struct {
	Caller ThisCaller
	Git    gitlib.Checkout
}

func FromCwd(ctx context.Context, checkout gitlib.Checkout, awsConfig aws.Config, stsc STSClient) (here Here, err error) {
	if here.Caller, err = Caller(ctx, awsConfig, stsc); err != nil {
		return here, err
	}

	here.Git = checkout

	return here, nil
}

func Caller(ctx context.Context, awsConfig aws.Config, stsc STSClient) (ThisCaller, error) {
	whoAmI, err := stsc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return ThisCaller{}, err
	}

	if awsConfig.Region == "" {
		return ThisCaller{}, errors.New("no AWS region configured, set AWS_REGION or a profile region")
	}

	return ThisCaller{
		Id:      aws.ToString(whoAmI.UserId),
		Arn:     aws.ToString(whoAmI.Arn),
		Account: aws.ToString(whoAmI.Account),
		Region:  awsConfig.Region,
	}, nil
}

// Checkout tolerates running outside of a repository; the stage then has to come from configuration.
func Checkout() (gitlib.Checkout, error) {
	checkout, err := gitlib.FromCwd()
	if errors.Is(err, gitlib.ErrNoRepository) {
		return gitlib.Checkout{}, nil
	}

	return checkout, err
}
