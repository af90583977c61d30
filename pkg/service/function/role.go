package function

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

const iamPropagation = 2 * time.Minute

func (s Service) GetRole(ctx context.Context, name string) (*iam.GetRoleOutput, error) {
	getRoleInput := &iam.GetRoleInput{
		RoleName: aws.String(name),
	}

	getRoleOutput, err := s.Client.Iam.GetRole(ctx, getRoleInput)
	if notFound(err) {
		return nil, nil
	}

	return getRoleOutput, err
}

func (s Service) GetRolePolicies(ctx context.Context, name string) (*iam.ListAttachedRolePoliciesOutput, error) {
	getRolePoliciesInput := &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(name),
	}
	return s.Client.Iam.ListAttachedRolePolicies(ctx, getRolePoliciesInput)
}

// PutRole converges the execution role, its trust document and the exact set of attached policies.
func (s Service) PutRole(ctx context.Context, name string, trustDocument string, policyArns []string, tags map[string]string) (*iam.GetRoleOutput, error) {
	var apiErr smithy.APIError

	createRoleInput := &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(trustDocument),
		Tags:                     iamTags(tags),
	}

	_, err := s.Client.Iam.CreateRole(ctx, createRoleInput)
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "EntityAlreadyExists":
			log.Info().Str("role", name).Msg("role exists, updating trust and tags")

			updateAssumeRolePolicyInput := &iam.UpdateAssumeRolePolicyInput{
				RoleName:       aws.String(name),
				PolicyDocument: aws.String(trustDocument),
			}

			if _, err := s.Client.Iam.UpdateAssumeRolePolicy(ctx, updateAssumeRolePolicyInput); err != nil {
				return &iam.GetRoleOutput{}, err
			}

			if err := s.retagRole(ctx, name, tags); err != nil {
				return &iam.GetRoleOutput{}, err
			}
		default:
			return &iam.GetRoleOutput{}, err
		}
	} else if err != nil {
		return &iam.GetRoleOutput{}, err
	}

	getRoleInput := &iam.GetRoleInput{
		RoleName: aws.String(name),
	}

	waiter := iam.NewRoleExistsWaiter(s.Client.Iam)
	if err := waiter.Wait(ctx, getRoleInput, iamPropagation); err != nil {
		return &iam.GetRoleOutput{}, err
	}

	if err := s.syncAttachments(ctx, name, policyArns); err != nil {
		return &iam.GetRoleOutput{}, err
	}

	return s.Client.Iam.GetRole(ctx, getRoleInput)
}

// DeleteRole detaches every managed policy first, IAM refuses to delete a role that still has any.
func (s Service) DeleteRole(ctx context.Context, name string) (*iam.DeleteRoleOutput, error) {
	if err := s.syncAttachments(ctx, name, nil); err != nil {
		if notFound(err) {
			return &iam.DeleteRoleOutput{}, nil
		}
		return &iam.DeleteRoleOutput{}, err
	}

	deleteRoleInput := &iam.DeleteRoleInput{
		RoleName: aws.String(name),
	}

	deleteRoleOutput, err := s.Client.Iam.DeleteRole(ctx, deleteRoleInput)
	if notFound(err) {
		return &iam.DeleteRoleOutput{}, nil
	}

	return deleteRoleOutput, err
}

func (s Service) AttachPolicyToRole(ctx context.Context, policyArn, roleName string) (*iam.AttachRolePolicyOutput, error) {
	attachRolePolicyInput := &iam.AttachRolePolicyInput{
		PolicyArn: aws.String(policyArn),
		RoleName:  aws.String(roleName),
	}
	return s.Client.Iam.AttachRolePolicy(ctx, attachRolePolicyInput)
}

func (s Service) DetachPolicyFromRole(ctx context.Context, policyArn, roleName string) (*iam.DetachRolePolicyOutput, error) {
	detachRolePolicyInput := &iam.DetachRolePolicyInput{
		PolicyArn: aws.String(policyArn),
		RoleName:  aws.String(roleName),
	}
	return s.Client.Iam.DetachRolePolicy(ctx, detachRolePolicyInput)
}

func (s Service) syncAttachments(ctx context.Context, roleName string, policyArns []string) error {
	attached, err := s.GetRolePolicies(ctx, roleName)
	if err != nil {
		return err
	}

	present := map[string]bool{}
	for _, policy := range attached.AttachedPolicies {
		arn := aws.ToString(policy.PolicyArn)
		present[arn] = true

		wanted := false
		for _, desired := range policyArns {
			if desired == arn {
				wanted = true
			}
		}

		if !wanted {
			if _, err := s.DetachPolicyFromRole(ctx, arn, roleName); err != nil {
				return err
			}
		}
	}

	for _, arn := range policyArns {
		if present[arn] {
			continue
		}

		if _, err := s.AttachPolicyToRole(ctx, arn, roleName); err != nil {
			return err
		}
	}

	return nil
}

func (s Service) retagRole(ctx context.Context, name string, tags map[string]string) error {
	listRoleTagsOutput, err := s.Client.Iam.ListRoleTags(ctx, &iam.ListRoleTagsInput{
		RoleName: aws.String(name),
	})
	if err != nil {
		return err
	}

	if stale := staleTagKeys(listRoleTagsOutput.Tags, tags); len(stale) > 0 {
		if _, err := s.Client.Iam.UntagRole(ctx, &iam.UntagRoleInput{
			RoleName: aws.String(name),
			TagKeys:  stale,
		}); err != nil {
			return err
		}
	}

	if len(tags) == 0 {
		return nil
	}

	_, err = s.Client.Iam.TagRole(ctx, &iam.TagRoleInput{
		RoleName: aws.String(name),
		Tags:     iamTags(tags),
	})
	return err
}
