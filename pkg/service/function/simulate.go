package function

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// Simulate evaluates every action against every resource as the role would, using the
// policies actually attached to it.
func (s Service) Simulate(ctx context.Context, roleArn string, actions, resources []string) ([]types.EvaluationResult, error) {
	var results []types.EvaluationResult

	simulatePrincipalPolicyInput := &iam.SimulatePrincipalPolicyInput{
		PolicySourceArn: aws.String(roleArn),
		ActionNames:     actions,
		ResourceArns:    resources,
	}

	paginator := iam.NewSimulatePrincipalPolicyPaginator(s.Client.Iam, simulatePrincipalPolicyInput)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, page.EvaluationResults...)
	}

	return results, nil
}
