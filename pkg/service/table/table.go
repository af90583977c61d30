package table

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

const settleTimeout = 5 * time.Minute

var indexPollInterval = 10 * time.Second

type DynamoDBClient interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	UpdateTable(ctx context.Context, params *dynamodb.UpdateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateTableOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
	TagResource(ctx context.Context, params *dynamodb.TagResourceInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TagResourceOutput, error)
	ListTagsOfResource(ctx context.Context, params *dynamodb.ListTagsOfResourceInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTagsOfResourceOutput, error)
}

type Service struct {
	Client DynamoDBClient
}

// Definition is a table keyed by (PartitionKey, SortKey) with one global index inverting the pair.
type Definition struct {
	Name         string
	PartitionKey string
	SortKey      string
	IndexName    string
	Tags         map[string]string
}

type State struct {
	Exists    bool
	Arn       string
	Status    types.TableStatus
	Billing   types.BillingMode
	Indexes   []string
	Pending   []string
	ItemCount int64
}

func FromClients(ddbClient DynamoDBClient) Service {
	return Service{
		Client: ddbClient,
	}
}

func (d Definition) attributes() []types.AttributeDefinition {
	return []types.AttributeDefinition{
		{AttributeName: aws.String(d.PartitionKey), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String(d.SortKey), AttributeType: types.ScalarAttributeTypeS},
	}
}

func (d Definition) invertedIndex() types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName: aws.String(d.IndexName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(d.SortKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(d.PartitionKey), KeyType: types.KeyTypeRange},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

// PutTable creates the on-demand table, or adds the inverted index to an existing one.
func (s Service) PutTable(ctx context.Context, d Definition) (State, error) {
	state, err := s.Inspect(ctx, d.Name)
	if err != nil {
		return State{}, err
	}

	describeTableInput := &dynamodb.DescribeTableInput{TableName: aws.String(d.Name)}
	waiter := dynamodb.NewTableExistsWaiter(s.Client)

	var tags []types.Tag
	for _, key := range slices.Sorted(maps.Keys(d.Tags)) {
		tags = append(tags, types.Tag{Key: aws.String(key), Value: aws.String(d.Tags[key])})
	}

	if !state.Exists {
		log.Info().Str("table", d.Name).Msg("creating table")

		_, err := s.Client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:            aws.String(d.Name),
			BillingMode:          types.BillingModePayPerRequest,
			AttributeDefinitions: d.attributes(),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(d.PartitionKey), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(d.SortKey), KeyType: types.KeyTypeRange},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{d.invertedIndex()},
			Tags:                   tags,
		})

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceInUseException" {
			log.Debug().Str("table", d.Name).Msg("table is being created elsewhere")
		} else if err != nil {
			return State{}, err
		}

		if err := waiter.Wait(ctx, describeTableInput, settleTimeout); err != nil {
			return State{}, err
		}

		return s.Inspect(ctx, d.Name)
	}

	if !slices.Contains(state.Indexes, d.IndexName) {
		log.Info().Str("table", d.Name).Str("index", d.IndexName).Msg("adding index to table")

		index := d.invertedIndex()
		if _, err := s.Client.UpdateTable(ctx, &dynamodb.UpdateTableInput{
			TableName:            aws.String(d.Name),
			AttributeDefinitions: d.attributes(),
			GlobalSecondaryIndexUpdates: []types.GlobalSecondaryIndexUpdate{
				{
					Create: &types.CreateGlobalSecondaryIndexAction{
						IndexName:  index.IndexName,
						KeySchema:  index.KeySchema,
						Projection: index.Projection,
					},
				},
			},
		}); err != nil {
			return State{}, err
		}

		if err := waiter.Wait(ctx, describeTableInput, settleTimeout); err != nil {
			return State{}, err
		}

		state.Pending = append(state.Pending, d.IndexName)
	}

	if slices.Contains(state.Pending, d.IndexName) {
		if err := s.waitForIndex(ctx, d.Name, d.IndexName); err != nil {
			return State{}, err
		}
	}

	if len(tags) > 0 {
		if _, err := s.Client.TagResource(ctx, &dynamodb.TagResourceInput{
			ResourceArn: aws.String(state.Arn),
			Tags:        tags,
		}); err != nil {
			return State{}, err
		}
	}

	return s.Inspect(ctx, d.Name)
}

// Inspect reports a missing table as State{Exists: false} rather than an error.
func (s Service) Inspect(ctx context.Context, name string) (State, error) {
	var notFound *types.ResourceNotFoundException

	described, err := s.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if errors.As(err, &notFound) {
		return State{}, nil
	} else if err != nil {
		return State{}, err
	}

	table := described.Table
	state := State{
		Exists:    true,
		Arn:       aws.ToString(table.TableArn),
		Status:    table.TableStatus,
		ItemCount: aws.ToInt64(table.ItemCount),
	}

	if table.BillingModeSummary != nil {
		state.Billing = table.BillingModeSummary.BillingMode
	}

	for _, index := range table.GlobalSecondaryIndexes {
		state.Indexes = append(state.Indexes, aws.ToString(index.IndexName))
		if index.IndexStatus != types.IndexStatusActive {
			state.Pending = append(state.Pending, aws.ToString(index.IndexName))
		}
	}

	return state, nil
}

// waitForIndex polls until the index is ACTIVE. The table turns ACTIVE while a new
// index is still backfilling, and queries against the index fail until it finishes.
func (s Service) waitForIndex(ctx context.Context, name, index string) error {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	for {
		described, err := s.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err != nil {
			return err
		}

		for _, gsi := range described.Table.GlobalSecondaryIndexes {
			if aws.ToString(gsi.IndexName) == index && gsi.IndexStatus == types.IndexStatusActive {
				return nil
			}
		}

		log.Debug().Str("table", name).Str("index", index).Msg("waiting for index backfill")

		select {
		case <-ctx.Done():
			return fmt.Errorf("index %s on %s did not become active: %w", index, name, ctx.Err())
		case <-time.After(indexPollInterval):
		}
	}
}

// Tags reads every tag on the table at arn.
func (s Service) Tags(ctx context.Context, arn string) (map[string]string, error) {
	tags := map[string]string{}
	input := &dynamodb.ListTagsOfResourceInput{ResourceArn: aws.String(arn)}

	for {
		output, err := s.Client.ListTagsOfResource(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, tag := range output.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}

		if output.NextToken == nil {
			return tags, nil
		}
		input.NextToken = output.NextToken
	}
}

// DeleteTable treats an already missing table as deleted.
func (s Service) DeleteTable(ctx context.Context, name string) error {
	var notFound *types.ResourceNotFoundException

	_, err := s.Client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)})
	if errors.As(err, &notFound) {
		return nil
	} else if err != nil {
		return err
	}

	waiter := dynamodb.NewTableNotExistsWaiter(s.Client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, settleTimeout)
}
