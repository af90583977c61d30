// Package index is the handler's view of the Metadata Index.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/linecard/filelink/pkg/fault"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type DynamoDBClient interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Schema names the key attributes and the inverted index of a table.
type Schema struct {
	PartitionKey string
	SortKey      string
	IndexName    string
}

var DefaultSchema = Schema{
	PartitionKey: "ID",
	SortKey:      "Path",
	IndexName:    "Path-ID-Index",
}

// Record is one metadata item. (ID, Path) is unique.
type Record struct {
	ID          string    `dynamodbav:"-" json:"id"`
	Path        string    `dynamodbav:"-" json:"path"`
	Key         string    `dynamodbav:"Key" json:"key"`
	ContentType string    `dynamodbav:"ContentType,omitempty" json:"contentType,omitempty"`
	Size        int64     `dynamodbav:"Size" json:"size"`
	VersionId   string    `dynamodbav:"VersionId,omitempty" json:"versionId,omitempty"`
	Created     time.Time `dynamodbav:"Created" json:"created"`
}

type Store struct {
	Client DynamoDBClient
	Table  string
	Schema Schema
}

func FromClient(client DynamoDBClient, table string, schema Schema) Store {
	return Store{
		Client: client,
		Table:  table,
		Schema: schema,
	}
}

// Discover reads the key schema from the table itself, so the handler needs nothing but its name.
func Discover(ctx context.Context, client DynamoDBClient, table string) (Store, error) {
	described, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err != nil {
		return Store{}, fault.Classify(err)
	}

	schema := Schema{}
	for _, key := range described.Table.KeySchema {
		switch key.KeyType {
		case types.KeyTypeHash:
			schema.PartitionKey = aws.ToString(key.AttributeName)
		case types.KeyTypeRange:
			schema.SortKey = aws.ToString(key.AttributeName)
		}
	}

	for _, index := range described.Table.GlobalSecondaryIndexes {
		for _, key := range index.KeySchema {
			if key.KeyType == types.KeyTypeHash && aws.ToString(key.AttributeName) == schema.SortKey {
				schema.IndexName = aws.ToString(index.IndexName)
			}
		}
	}

	if schema.PartitionKey == "" || schema.SortKey == "" || schema.IndexName == "" {
		return Store{}, fmt.Errorf("%w: table %s lacks a composite key with an inverted index", fault.ErrInvalidConfig, table)
	}

	log.Debug().Str("table", table).Str("partition", schema.PartitionKey).Str("sort", schema.SortKey).Str("index", schema.IndexName).Msg("discovered table schema")

	return FromClient(client, table, schema), nil
}

func (s Store) key(id, path string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.Schema.PartitionKey: &types.AttributeValueMemberS{Value: id},
		s.Schema.SortKey:      &types.AttributeValueMemberS{Value: path},
	}
}

func (s Store) marshal(record Record) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, err
	}

	for name, value := range s.key(record.ID, record.Path) {
		item[name] = value
	}

	return item, nil
}

func (s Store) unmarshal(item map[string]types.AttributeValue) (Record, error) {
	var record Record
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return Record{}, err
	}

	if id, ok := item[s.Schema.PartitionKey].(*types.AttributeValueMemberS); ok {
		record.ID = id.Value
	}

	if path, ok := item[s.Schema.SortKey].(*types.AttributeValueMemberS); ok {
		record.Path = path.Value
	}

	return record, nil
}

// Put writes the record, replacing any record with the same (ID, Path).
func (s Store) Put(ctx context.Context, record Record) error {
	ctx, span := otel.Tracer("").Start(ctx, "index.Put")
	defer span.End()

	if record.Created.IsZero() {
		record.Created = time.Now().UTC()
	}

	item, err := s.marshal(record)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	}); err != nil {
		err = fault.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Get returns fault.ErrNotFound when no record has this (ID, Path).
func (s Store) Get(ctx context.Context, id, path string) (Record, error) {
	ctx, span := otel.Tracer("").Start(ctx, "index.Get")
	defer span.End()

	got, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key:       s.key(id, path),
	})
	if err != nil {
		err = fault.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		return Record{}, err
	}

	if len(got.Item) == 0 {
		return Record{}, fmt.Errorf("%w: record %s %s", fault.ErrNotFound, id, path)
	}

	return s.unmarshal(got.Item)
}

// ByID lists every record under id, ordered by Path.
func (s Store) ByID(ctx context.Context, id string) ([]Record, error) {
	ctx, span := otel.Tracer("").Start(ctx, "index.ByID")
	defer span.End()

	records, err := s.query(ctx, "", s.Schema.PartitionKey, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return records, err
}

// ByPath lists every record for path through the inverted index, ordered by ID.
func (s Store) ByPath(ctx context.Context, path string) ([]Record, error) {
	ctx, span := otel.Tracer("").Start(ctx, "index.ByPath")
	defer span.End()

	records, err := s.query(ctx, s.Schema.IndexName, s.Schema.SortKey, path)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return records, err
}

func (s Store) query(ctx context.Context, indexName, attribute, value string) ([]Record, error) {
	records := []Record{}

	queryInput := &dynamodb.QueryInput{
		TableName:                 aws.String(s.Table),
		KeyConditionExpression:    aws.String("#k = :v"),
		ExpressionAttributeNames:  map[string]string{"#k": attribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
	}

	if indexName != "" {
		queryInput.IndexName = aws.String(indexName)
	}

	paginator := dynamodb.NewQueryPaginator(s.Client, queryInput)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fault.Classify(err)
		}

		for _, item := range page.Items {
			record, err := s.unmarshal(item)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// Delete removes one record. A missing record is already deleted.
func (s Store) Delete(ctx context.Context, id, path string) error {
	ctx, span := otel.Tracer("").Start(ctx, "index.Delete")
	defer span.End()

	if _, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.Table),
		Key:       s.key(id, path),
	}); err != nil {
		err = fault.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// DeleteID removes every record under id and reports how many went.
func (s Store) DeleteID(ctx context.Context, id string) (int, error) {
	ctx, span := otel.Tracer("").Start(ctx, "index.DeleteID")
	defer span.End()

	records, err := s.query(ctx, "", s.Schema.PartitionKey, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	for i, record := range records {
		if err := s.Delete(ctx, record.ID, record.Path); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return i, err
		}
	}

	return len(records), nil
}
