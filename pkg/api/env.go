package api

import (
	"fmt"
	"os"

	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/fault"
)

// Env is what the handler learns about its stores at cold start.
type Env struct {
	Bucket string
	Table  string
}

func (e Env) Indexed() bool {
	return e.Table != ""
}

func FromEnv() (Env, error) {
	bucket, exists := os.LookupEnv(manifest.BucketKey)
	if !exists || bucket == "" {
		return Env{}, fmt.Errorf("%w: %s is not set", fault.ErrInvalidConfig, manifest.BucketKey)
	}

	return Env{
		Bucket: bucket,
		Table:  os.Getenv(manifest.TableKey),
	}, nil
}
