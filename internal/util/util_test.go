package util

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestArns(t *testing.T) {
	assert.Equal(t, "arn:aws:iam::123456789012:role/filelink-dev", RoleArnFromName("123456789012", "filelink-dev"))
	assert.Equal(t, "filelink-dev", PolicyNameFromArn(PolicyArnFromName("123456789012", "filelink-dev")))
	assert.Equal(t, "arn:aws:s3:::file-link-s3bucket", BucketArn("file-link-s3bucket"))
	assert.Equal(t, "arn:aws:dynamodb:us-east-2:123456789012:table/FileLinkDB", TableArn("us-east-2", "123456789012", "FileLinkDB"))
	assert.Equal(t, "arn:aws:execute-api:us-east-2:123456789012:abc123/*/*", ExecuteApiArn("us-east-2", "123456789012", "abc123"))
}

func TestBucketSafe(t *testing.T) {
	tests := []struct {
		name string
		in   string
		test func(*testing.T, string)
	}{
		{
			name: "lowercases and replaces illegal runs",
			in:   "FileLink_Feature/Branch",
			test: func(t *testing.T, got string) {
				assert.Equal(t, "filelink-feature-branch", got)
			},
		},
		{
			name: "caps length at 63 and keeps names distinct",
			in:   strings.Repeat("a", 80),
			test: func(t *testing.T, got string) {
				assert.LessOrEqual(t, len(got), 63)
				assert.NotEqual(t, got, BucketSafe(strings.Repeat("a", 81)))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.test(t, BucketSafe(tc.in))
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	defer os.Unsetenv("LOG_LEVEL")

	os.Setenv("LOG_LEVEL", "DEBUG")
	SetLogLevel()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	os.Setenv("LOG_LEVEL", "nonsense")
	SetLogLevel()
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	os.Unsetenv("LOG_LEVEL")
	SetLogLevel()
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
