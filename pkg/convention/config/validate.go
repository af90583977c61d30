package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/linecard/filelink/internal/util"
	"github.com/linecard/filelink/pkg/fault"
)

const (
	MinMemory  = 512
	MaxMemory  = 3008
	MinTimeout = 30
	MaxTimeout = 900
)

var corsMethods = []string{"GET", "PUT", "HEAD", "POST", "DELETE"}

var architectures = []string{"arm64", "x86_64"}

// Validate rejects configurations that must never reach AWS. All problems are reported at once.
func (c Config) Validate() error {
	var problems []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Stack != "", "stack name is required")
	check(c.Stage != "", "stage is required")
	check(c.Entry.Kind == Gateway || c.Entry.Kind == Url, "entry kind %q must be %s or %s", c.Entry.Kind, Gateway, Url)
	check(c.Retention == Ephemeral || c.Retention == Persistent, "retention %q must be %s or %s", c.Retention, Ephemeral, Persistent)
	check(c.Function.MemorySize >= MinMemory && c.Function.MemorySize <= MaxMemory, "memory %d must be within %d..%d", c.Function.MemorySize, MinMemory, MaxMemory)
	check(c.Function.Timeout >= MinTimeout && c.Function.Timeout <= MaxTimeout, "timeout %d must be within %d..%d seconds", c.Function.Timeout, MinTimeout, MaxTimeout)
	check(slices.Contains(architectures, c.Function.Architecture), "architecture %q must be one of %s", c.Function.Architecture, strings.Join(architectures, ", "))

	if c.Bucket.Name != "" {
		check(util.BucketSafe(c.Bucket.Name) == c.Bucket.Name && len(c.Bucket.Name) >= 3, "bucket name %q is not a valid S3 bucket name", c.Bucket.Name)
	}

	check(len(c.Bucket.Cors.Methods) > 0, "at least one CORS method is required")
	for _, method := range c.Bucket.Cors.Methods {
		check(slices.Contains(corsMethods, method), "CORS method %q must be one of %s", method, strings.Join(corsMethods, ", "))
	}
	check(len(c.Bucket.Cors.Origins) > 0, "at least one CORS origin is required")

	if c.Indexed() {
		check(c.Table.PartitionKey != "", "table partition key is required")
		check(c.Table.SortKey != "", "table sort key is required")
		check(c.Table.PartitionKey != c.Table.SortKey, "table partition and sort key must differ")
		check(c.Table.IndexName != "", "table index name is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", fault.ErrInvalidConfig, errors.Join(problems...))
	}

	return nil
}

// ValidateCode additionally requires something to deploy as the function.
func (c Config) ValidateCode() error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch {
	case c.Function.Artifact == "" && c.Function.ImageUri == "":
		return fmt.Errorf("%w: function artifact or image uri is required, set %s or %s", fault.ErrInvalidConfig, EnvArtifact, EnvImageUri)
	case c.Function.Artifact != "" && c.Function.ImageUri != "":
		return fmt.Errorf("%w: function artifact and image uri are mutually exclusive", fault.ErrInvalidConfig)
	case c.Function.Artifact != "" && !util.PathExists(c.Function.Artifact):
		return fmt.Errorf("%w: function artifact %s does not exist", fault.ErrInvalidConfig, c.Function.Artifact)
	}

	return nil
}
