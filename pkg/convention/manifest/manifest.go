package manifest

import (
	"maps"
	"slices"

	"github.com/linecard/filelink/internal/util"
	"github.com/linecard/filelink/pkg/convention/config"
)

// Environment keys the handler reads at cold start.
const (
	BucketKey = "s3Bucket"
	TableKey  = "dynamoTable"
)

type Kind string

const (
	KindBucket      Kind = "s3:bucket"
	KindTable       Kind = "dynamodb:table"
	KindRole        Kind = "iam:role"
	KindPolicy      Kind = "iam:policy"
	KindFunction    Kind = "lambda:function"
	KindGateway     Kind = "apigateway:http-api"
	KindFunctionUrl Kind = "lambda:function-url"
)

type BucketSpec struct {
	Name      string            `json:"name" yaml:"name"`
	Arn       string            `json:"arn" yaml:"arn"`
	Region    string            `json:"region" yaml:"region"`
	Versioned bool              `json:"versioned" yaml:"versioned"`
	Cors      config.Cors       `json:"cors" yaml:"cors"`
	Policy    PolicyDocument    `json:"policy" yaml:"-"`
	Retention config.Retention  `json:"retention" yaml:"retention"`
	Tags      map[string]string `json:"tags" yaml:"tags"`
}

type TableSpec struct {
	Enabled      bool              `json:"enabled" yaml:"enabled"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Arn          string            `json:"arn,omitempty" yaml:"arn,omitempty"`
	PartitionKey string            `json:"partitionKey,omitempty" yaml:"partitionKey,omitempty"`
	SortKey      string            `json:"sortKey,omitempty" yaml:"sortKey,omitempty"`
	IndexName    string            `json:"indexName,omitempty" yaml:"indexName,omitempty"`
	Retention    config.Retention  `json:"retention,omitempty" yaml:"retention,omitempty"`
	Tags         map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type RoleSpec struct {
	Name              string            `json:"name" yaml:"name"`
	Arn               string            `json:"arn" yaml:"arn"`
	TrustPolicy       PolicyDocument    `json:"trustPolicy" yaml:"-"`
	PolicyName        string            `json:"policyName" yaml:"policyName"`
	PolicyArn         string            `json:"policyArn" yaml:"policyArn"`
	Policy            PolicyDocument    `json:"policy" yaml:"-"`
	ManagedPolicyArns []string          `json:"managedPolicyArns" yaml:"managedPolicyArns"`
	Tags              map[string]string `json:"tags" yaml:"tags"`
}

type FunctionSpec struct {
	Name         string            `json:"name" yaml:"name"`
	Arn          string            `json:"arn" yaml:"arn"`
	Architecture string            `json:"architecture" yaml:"architecture"`
	MemorySize   int32             `json:"memorySize" yaml:"memorySize"`
	Timeout      int32             `json:"timeout" yaml:"timeout"`
	Artifact     string            `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	ImageUri     string            `json:"imageUri,omitempty" yaml:"imageUri,omitempty"`
	Environment  map[string]string `json:"environment" yaml:"environment"`
	Tags         map[string]string `json:"tags" yaml:"tags"`
}

type EntrySpec struct {
	Kind         config.EntryKind  `json:"kind" yaml:"kind"`
	Name         string            `json:"name" yaml:"name"`
	FunctionName string            `json:"functionName" yaml:"functionName"`
	FunctionArn  string            `json:"functionArn" yaml:"functionArn"`
	Cors         *config.Cors      `json:"cors,omitempty" yaml:"cors,omitempty"`
	Tags         map[string]string `json:"tags" yaml:"tags"`
}

// Plan is every resource one stack consists of, fully named, before any of it exists.
type Plan struct {
	Stack    string       `json:"stack" yaml:"stack"`
	Stage    string       `json:"stage" yaml:"stage"`
	Variant  string       `json:"variant" yaml:"variant"`
	Account  string       `json:"account" yaml:"account"`
	Region   string       `json:"region" yaml:"region"`
	Bucket   BucketSpec   `json:"bucket" yaml:"bucket"`
	Table    TableSpec    `json:"table" yaml:"table"`
	Role     RoleSpec     `json:"role" yaml:"role"`
	Function FunctionSpec `json:"function" yaml:"function"`
	Entry    EntrySpec    `json:"entry" yaml:"entry"`
}

type Resource struct {
	Kind      Kind     `json:"kind" yaml:"kind"`
	Name      string   `json:"name" yaml:"name"`
	Arn       string   `json:"arn,omitempty" yaml:"arn,omitempty"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

func FromConfig(c config.Config) Plan {
	tags := c.Tags()

	p := Plan{
		Stack:   c.Stack,
		Stage:   c.Stage,
		Variant: c.Variant(),
		Account: c.Account.Id,
		Region:  c.Account.Region,
	}

	p.Bucket = BucketSpec{
		Name:      c.BucketName(),
		Arn:       util.BucketArn(c.BucketName()),
		Region:    c.Account.Region,
		Versioned: c.Bucket.Versioned,
		Cors:      c.Bucket.Cors,
		Retention: c.Retention,
		Tags:      maps.Clone(tags),
	}
	p.Bucket.Policy = TransportPolicy(p.Bucket.Arn)

	if c.Indexed() {
		p.Table = TableSpec{
			Enabled:      true,
			Name:         c.TableName(),
			Arn:          util.TableArn(c.Account.Region, c.Account.Id, c.TableName()),
			PartitionKey: c.Table.PartitionKey,
			SortKey:      c.Table.SortKey,
			IndexName:    c.Table.IndexName,
			Retention:    c.Retention,
			Tags:         maps.Clone(tags),
		}
	}

	p.Role = RoleSpec{
		Name:              c.RoleName(),
		Arn:               util.RoleArnFromName(c.Account.Id, c.RoleName()),
		TrustPolicy:       TrustPolicy(),
		PolicyName:        c.PolicyName(),
		PolicyArn:         util.PolicyArnFromName(c.Account.Id, c.PolicyName()),
		Policy:            GrantPolicy(p.Bucket.Arn, p.Table.Arn),
		ManagedPolicyArns: []string{BasicExecutionPolicyArn},
		Tags:              maps.Clone(tags),
	}

	p.Function = FunctionSpec{
		Name:         c.FunctionName(),
		Arn:          util.FunctionArn(c.Account.Region, c.Account.Id, c.FunctionName()),
		Architecture: c.Function.Architecture,
		MemorySize:   c.Function.MemorySize,
		Timeout:      c.Function.Timeout,
		Artifact:     c.Function.Artifact,
		ImageUri:     c.Function.ImageUri,
		Environment:  Environment(p.Bucket.Name, p.Table.Name),
		Tags:         maps.Clone(tags),
	}

	p.Entry = EntrySpec{
		Kind:         c.Entry.Kind,
		Name:         c.ApiName(),
		FunctionName: p.Function.Name,
		FunctionArn:  p.Function.Arn,
		Tags:         maps.Clone(tags),
	}

	if c.Entry.Kind == config.Gateway {
		p.Entry.Cors = &config.Cors{
			Methods: []string{"*"},
			Origins: []string{"*"},
			Headers: []string{"*"},
		}
	}

	return p
}

// Environment holds exactly one key per provisioned store.
func Environment(bucketName, tableName string) map[string]string {
	env := map[string]string{BucketKey: bucketName}
	if tableName != "" {
		env[TableKey] = tableName
	}
	return env
}

// Resources lists the plan in provisioning order. Teardown walks it backwards.
func (p Plan) Resources() []Resource {
	resources := []Resource{
		{Kind: KindBucket, Name: p.Bucket.Name, Arn: p.Bucket.Arn},
	}

	stores := []string{p.Bucket.Name}
	if p.Table.Enabled {
		resources = append(resources, Resource{Kind: KindTable, Name: p.Table.Name, Arn: p.Table.Arn})
		stores = append(stores, p.Table.Name)
	}

	resources = append(resources,
		Resource{Kind: KindPolicy, Name: p.Role.PolicyName, Arn: p.Role.PolicyArn, DependsOn: stores},
		Resource{Kind: KindRole, Name: p.Role.Name, Arn: p.Role.Arn, DependsOn: []string{p.Role.PolicyName}},
		Resource{Kind: KindFunction, Name: p.Function.Name, Arn: p.Function.Arn, DependsOn: append(slices.Clone(stores), p.Role.Name)},
	)

	switch p.Entry.Kind {
	case config.Gateway:
		resources = append(resources, Resource{Kind: KindGateway, Name: p.Entry.Name, DependsOn: []string{p.Function.Name}})
	case config.Url:
		resources = append(resources, Resource{Kind: KindFunctionUrl, Name: p.Entry.FunctionName, DependsOn: []string{p.Function.Name}})
	}

	return resources
}

// GrantedArns lists every resource the function identity may reach on the data plane.
func (p Plan) GrantedArns() []string {
	var arns []string
	for _, statement := range p.Role.Policy.Statement {
		arns = append(arns, statement.Resource...)
	}
	return arns
}
