package manifest

import (
	"encoding/json"
)

const policyVersion = "2012-10-17"

const BasicExecutionPolicyArn = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

var objectStoreReadWrite = []string{
	"s3:GetObject*",
	"s3:GetBucket*",
	"s3:List*",
	"s3:DeleteObject*",
	"s3:PutObject",
	"s3:PutObjectLegalHold",
	"s3:PutObjectRetention",
	"s3:PutObjectTagging",
	"s3:PutObjectVersionTagging",
	"s3:Abort*",
}

var metadataIndexReadWrite = []string{
	"dynamodb:BatchGetItem",
	"dynamodb:GetRecords",
	"dynamodb:GetShardIterator",
	"dynamodb:Query",
	"dynamodb:GetItem",
	"dynamodb:Scan",
	"dynamodb:ConditionCheckItem",
	"dynamodb:BatchWriteItem",
	"dynamodb:PutItem",
	"dynamodb:UpdateItem",
	"dynamodb:DeleteItem",
	"dynamodb:DescribeTable",
}

type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

type Statement struct {
	Sid       string                       `json:"Sid,omitempty"`
	Effect    string                       `json:"Effect"`
	Principal map[string]string            `json:"Principal,omitempty"`
	Action    []string                     `json:"Action"`
	Resource  []string                     `json:"Resource,omitempty"`
	Condition map[string]map[string]string `json:"Condition,omitempty"`
}

func (d PolicyDocument) String() string {
	encoded, err := json.Marshal(d)
	if err != nil {
		// PolicyDocument holds only strings, maps and slices.
		panic(err)
	}
	return string(encoded)
}

func TrustPolicy() PolicyDocument {
	return PolicyDocument{
		Version: policyVersion,
		Statement: []Statement{
			{
				Effect:    "Allow",
				Principal: map[string]string{"Service": "lambda.amazonaws.com"},
				Action:    []string{"sts:AssumeRole"},
			},
		},
	}
}

// GrantPolicy holds the data plane grants of the function and nothing else.
// The table statement is present only when the table is.
func GrantPolicy(bucketArn, tableArn string) PolicyDocument {
	doc := PolicyDocument{
		Version: policyVersion,
		Statement: []Statement{
			{
				Sid:      "ObjectStoreReadWrite",
				Effect:   "Allow",
				Action:   objectStoreReadWrite,
				Resource: []string{bucketArn, bucketArn + "/*"},
			},
		},
	}

	if tableArn != "" {
		doc.Statement = append(doc.Statement, Statement{
			Sid:      "MetadataIndexReadWrite",
			Effect:   "Allow",
			Action:   metadataIndexReadWrite,
			Resource: []string{tableArn, tableArn + "/index/*"},
		})
	}

	return doc
}

// TransportPolicy denies every request to the bucket that does not arrive over TLS.
func TransportPolicy(bucketArn string) PolicyDocument {
	return PolicyDocument{
		Version: policyVersion,
		Statement: []Statement{
			{
				Sid:       "DenyInsecureTransport",
				Effect:    "Deny",
				Principal: map[string]string{"AWS": "*"},
				Action:    []string{"s3:*"},
				Resource:  []string{bucketArn, bucketArn + "/*"},
				Condition: map[string]map[string]string{
					"Bool": {"aws:SecureTransport": "false"},
				},
			},
		},
	}
}

func ObjectStoreActions() []string {
	return append([]string(nil), objectStoreReadWrite...)
}

func MetadataIndexActions() []string {
	return append([]string(nil), metadataIndexReadWrite...)
}
