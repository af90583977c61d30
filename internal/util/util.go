package util

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"regexp"
	"strings"

	"github.com/aws/smithy-go/logging"
	"github.com/rs/zerolog"
)

var nonBucketChars = regexp.MustCompile(`[^a-z0-9-]+`)

func DeSlasher(str string) string {
	dashes := strings.Replace(str, "/", "-", -1)
	dashes = strings.TrimSuffix(dashes, "-")
	dashes = strings.TrimPrefix(dashes, "-")
	return dashes
}

func PolicyNameFromArn(arn string) string {
	return strings.Split(arn, ":policy/")[1]
}

func RoleArnFromName(accountId, name string) string {
	return "arn:aws:iam::" + accountId + ":role/" + name
}

func PolicyArnFromName(accountId, name string) string {
	return "arn:aws:iam::" + accountId + ":policy/" + name
}

func BucketArn(name string) string {
	return "arn:aws:s3:::" + name
}

func TableArn(region, accountId, name string) string {
	return "arn:aws:dynamodb:" + region + ":" + accountId + ":table/" + name
}

func FunctionArn(region, accountId, name string) string {
	return "arn:aws:lambda:" + region + ":" + accountId + ":function:" + name
}

func ExecuteApiArn(region, accountId, apiId string) string {
	return "arn:aws:execute-api:" + region + ":" + accountId + ":" + apiId + "/*/*"
}

// BucketSafe lowercases and strips a name down to what S3 accepts, capped at 63 characters.
// Names that had to be truncated keep a short hash suffix so they stay distinct.
func BucketSafe(name string) string {
	safe := nonBucketChars.ReplaceAllString(strings.ToLower(name), "-")
	safe = strings.Trim(safe, "-")

	if len(safe) <= 63 {
		return safe
	}

	sum := sha1.Sum([]byte(name))
	suffix := hex.EncodeToString(sum[:])[:8]
	return strings.TrimRight(safe[:63-len(suffix)-1], "-") + "-" + suffix
}

func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func InLambda() bool {
	_, inLambda := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME")
	return inLambda
}

func OtelConfigPresent() bool {
	_, present := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT")
	return present
}

func SetLogLevel() {
	if level, exists := os.LookupEnv("LOG_LEVEL"); exists {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil || parsed == zerolog.NoLevel {
			parsed = zerolog.WarnLevel
		}
		zerolog.SetGlobalLevel(parsed)
		return
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// RetryLogger wraps a zerolog.Logger so the AWS SDK can report retries through it.
type RetryLogger struct {
	Log *zerolog.Logger
}

var _ logging.Logger = (*RetryLogger)(nil)

func (l *RetryLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	switch classification {
	case logging.Warn:
		l.Log.Warn().Msgf(format, v...)
	case logging.Debug:
		if strings.Contains(format, "retrying request") {
			l.Log.Info().Msgf(format, v...)
		} else {
			l.Log.Debug().Msgf(format, v...)
		}
	default:
		l.Log.Error().Msgf(format, v...)
	}
}
