package manifest

import "strings"

// Expectation is one action the function identity is expected to be allowed or denied on a resource.
type Expectation struct {
	Action   string `json:"action" yaml:"action"`
	Resource string `json:"resource" yaml:"resource"`
	Allowed  bool   `json:"allowed" yaml:"allowed"`
}

// Expectations pairs the data-plane operations the handler performs with resources it owns, and the
// same operations against lookalike foreign resources it must never reach.
func (p Plan) Expectations() []Expectation {
	objects := p.Bucket.Arn + "/*"
	foreignBucket := p.Bucket.Arn + "-foreign"

	expectations := []Expectation{
		{Action: "s3:PutObject", Resource: objects, Allowed: true},
		{Action: "s3:GetObject", Resource: objects, Allowed: true},
		{Action: "s3:GetObjectVersion", Resource: objects, Allowed: true},
		{Action: "s3:DeleteObject", Resource: objects, Allowed: true},
		{Action: "s3:ListBucketVersions", Resource: p.Bucket.Arn, Allowed: true},
		{Action: "s3:GetObject", Resource: foreignBucket + "/*", Allowed: false},
		{Action: "s3:PutObject", Resource: foreignBucket + "/*", Allowed: false},
		{Action: "s3:DeleteBucket", Resource: p.Bucket.Arn, Allowed: false},
		{Action: "s3:PutBucketPolicy", Resource: p.Bucket.Arn, Allowed: false},
	}

	if !p.Table.Enabled {
		return expectations
	}

	index := p.Table.Arn + "/index/" + p.Table.IndexName
	foreignTable := p.Table.Arn[:strings.LastIndex(p.Table.Arn, "/")+1] + p.Table.Name + "Foreign"

	return append(expectations,
		Expectation{Action: "dynamodb:PutItem", Resource: p.Table.Arn, Allowed: true},
		Expectation{Action: "dynamodb:GetItem", Resource: p.Table.Arn, Allowed: true},
		Expectation{Action: "dynamodb:Query", Resource: p.Table.Arn, Allowed: true},
		Expectation{Action: "dynamodb:Query", Resource: index, Allowed: true},
		Expectation{Action: "dynamodb:DeleteItem", Resource: p.Table.Arn, Allowed: true},
		Expectation{Action: "dynamodb:GetItem", Resource: foreignTable, Allowed: false},
		Expectation{Action: "dynamodb:PutItem", Resource: foreignTable, Allowed: false},
		Expectation{Action: "dynamodb:DeleteTable", Resource: p.Table.Arn, Allowed: false},
	)
}
