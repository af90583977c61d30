package function

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
	"github.com/linecard/filelink/internal/util"
	"github.com/rs/zerolog/log"
)

// PutPolicy creates the customer managed policy or makes document its default version.
func (s Service) PutPolicy(ctx context.Context, arn string, document string, tags map[string]string) (*iam.GetPolicyOutput, error) {
	var apiErr smithy.APIError

	createPolicyInput := &iam.CreatePolicyInput{
		PolicyName:     aws.String(util.PolicyNameFromArn(arn)),
		PolicyDocument: aws.String(document),
		Tags:           iamTags(tags),
	}

	_, err := s.Client.Iam.CreatePolicy(ctx, createPolicyInput)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "EntityAlreadyExists":
			log.Info().Str("policy", arn).Msg("policy exists, publishing new version")

			if err := s.publishPolicyVersion(ctx, arn, document); err != nil {
				return &iam.GetPolicyOutput{}, err
			}

			if err := s.retagPolicy(ctx, arn, tags); err != nil {
				return &iam.GetPolicyOutput{}, err
			}
		default:
			return &iam.GetPolicyOutput{}, err
		}
	} else if err != nil {
		return &iam.GetPolicyOutput{}, err
	}

	getPolicyInput := &iam.GetPolicyInput{
		PolicyArn: aws.String(arn),
	}

	waiter := iam.NewPolicyExistsWaiter(s.Client.Iam)
	if err := waiter.Wait(ctx, getPolicyInput, iamPropagation); err != nil {
		return &iam.GetPolicyOutput{}, err
	}

	return s.Client.Iam.GetPolicy(ctx, getPolicyInput)
}

// DeletePolicy treats an already missing policy as deleted.
func (s Service) DeletePolicy(ctx context.Context, arn string) (*iam.DeletePolicyOutput, error) {
	if _, err := s.prunePolicyVersions(ctx, arn); err != nil {
		return &iam.DeletePolicyOutput{}, err
	}

	deletePolicyInput := &iam.DeletePolicyInput{
		PolicyArn: aws.String(arn),
	}

	deletePolicyOutput, err := s.Client.Iam.DeletePolicy(ctx, deletePolicyInput)
	if notFound(err) {
		return &iam.DeletePolicyOutput{}, nil
	}

	return deletePolicyOutput, err
}

func (s Service) publishPolicyVersion(ctx context.Context, arn, document string) error {
	if _, err := s.prunePolicyVersions(ctx, arn); err != nil {
		return err
	}

	createPolicyVersionInput := &iam.CreatePolicyVersionInput{
		PolicyArn:      aws.String(arn),
		PolicyDocument: aws.String(document),
		SetAsDefault:   true,
	}

	_, err := s.Client.Iam.CreatePolicyVersion(ctx, createPolicyVersionInput)
	return err
}

// prunePolicyVersions deletes every non default version. IAM keeps at most five.
func (s Service) prunePolicyVersions(ctx context.Context, arn string) ([]types.PolicyVersion, error) {
	var deleted []types.PolicyVersion

	listPolicyVersionsInput := &iam.ListPolicyVersionsInput{
		PolicyArn: aws.String(arn),
	}

	listPolicyVersionsOutput, err := s.Client.Iam.ListPolicyVersions(ctx, listPolicyVersionsInput)
	if notFound(err) {
		return deleted, nil
	} else if err != nil {
		return deleted, err
	}

	for _, version := range listPolicyVersionsOutput.Versions {
		if version.IsDefaultVersion {
			continue
		}

		deletePolicyVersionInput := &iam.DeletePolicyVersionInput{
			PolicyArn: aws.String(arn),
			VersionId: version.VersionId,
		}

		if _, err := s.Client.Iam.DeletePolicyVersion(ctx, deletePolicyVersionInput); err != nil {
			return deleted, err
		}
		deleted = append(deleted, version)
	}

	return deleted, nil
}

func (s Service) retagPolicy(ctx context.Context, arn string, tags map[string]string) error {
	listPolicyTagsOutput, err := s.Client.Iam.ListPolicyTags(ctx, &iam.ListPolicyTagsInput{
		PolicyArn: aws.String(arn),
	})
	if err != nil {
		return err
	}

	if stale := staleTagKeys(listPolicyTagsOutput.Tags, tags); len(stale) > 0 {
		if _, err := s.Client.Iam.UntagPolicy(ctx, &iam.UntagPolicyInput{
			PolicyArn: aws.String(arn),
			TagKeys:   stale,
		}); err != nil {
			return err
		}
	}

	if len(tags) == 0 {
		return nil
	}

	_, err = s.Client.Iam.TagPolicy(ctx, &iam.TagPolicyInput{
		PolicyArn: aws.String(arn),
		Tags:      iamTags(tags),
	})
	return err
}

func iamTags(tags map[string]string) []types.Tag {
	var converted []types.Tag
	for _, key := range slices.Sorted(maps.Keys(tags)) {
		converted = append(converted, types.Tag{
			Key:   aws.String(key),
			Value: aws.String(tags[key]),
		})
	}
	return converted
}

func staleTagKeys(current []types.Tag, desired map[string]string) []string {
	var stale []string
	for _, tag := range current {
		if _, keep := desired[aws.ToString(tag.Key)]; !keep {
			stale = append(stale, aws.ToString(tag.Key))
		}
	}
	return stale
}
