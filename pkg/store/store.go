// Package store holds what the blob and index stores share at runtime.
package store

import (
	"github.com/linecard/filelink/internal/util"
	"github.com/linecard/filelink/pkg/fault"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/ratelimit"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/rs/zerolog/log"
)

const DefaultMaxAttempts = 5

// Retryer backs off exponentially on every throttle code the data plane can see and gives up
// after maxAttempts. Give up errors classify as fault.ErrThrottled.
func Retryer(maxAttempts int, optFns ...func(*retry.StandardOptions)) func() aws.Retryer {
	codes := map[string]struct{}{}
	for _, code := range fault.ThrottleCodes() {
		codes[code] = struct{}{}
	}

	return func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxAttempts
			o.RateLimiter = ratelimit.None
			o.Retryables = append(o.Retryables, retry.RetryableErrorCode{Codes: codes})
			for _, fn := range optFns {
				fn(o)
			}
		})
	}
}

// Configure applies the data plane retry policy and routes SDK retry logs through zerolog.
func Configure(cfg aws.Config) aws.Config {
	cfg.Retryer = Retryer(DefaultMaxAttempts)
	cfg.Logger = &util.RetryLogger{Log: &log.Logger}
	cfg.ClientLogMode |= aws.LogRetries
	return cfg
}
