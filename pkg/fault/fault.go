// Package fault classifies failures at the infrastructure boundary.
//
// Every AWS or context error that reaches the handler is mapped onto one of a small
// set of sentinels so callers can decide on retry and response shape with errors.Is.
package fault

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/smithy-go"
)

var (
	// ErrAccessDenied means the calling identity lacks a grant. Never retried.
	ErrAccessDenied = errors.New("access denied")
	// ErrThrottled means the store rejected the request rate after retries were exhausted.
	ErrThrottled = errors.New("request throttled")
	// ErrTimeout means the invocation ran out of time.
	ErrTimeout = errors.New("invocation timed out")
	// ErrInvalidConfig is a deploy time failure. It aborts provisioning or handler start.
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNotFound      = errors.New("not found")
	// ErrUnavailable marks a feature whose backing resource is not provisioned in this variant.
	ErrUnavailable = errors.New("not provisioned")
)

var accessDeniedCodes = map[string]bool{
	"AccessDenied":                 true,
	"AccessDeniedException":        true,
	"UnauthorizedOperation":        true,
	"UnrecognizedClientException":  true,
	"InvalidAccessKeyId":           true,
	"AllAccessDisabled":            true,
	"AuthorizationErrorException":  true,
	"NotAuthorizedException":       true,
	"ExpiredToken":                 true,
	"ExpiredTokenException":        true,
	"InvalidClientTokenId":         true,
	"SignatureDoesNotMatch":        true,
	"MissingAuthenticationToken":   true,
	"IncompleteSignatureException": true,
}

var throttleCodes = map[string]bool{
	"ThrottlingException":                    true,
	"Throttling":                             true,
	"ThrottledException":                     true,
	"RequestThrottledException":              true,
	"TooManyRequestsException":               true,
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"SlowDown":                               true,
	"RequestThrottled":                       true,
}

var notFoundCodes = map[string]bool{
	"NoSuchKey":                 true,
	"NoSuchBucket":              true,
	"NoSuchVersion":             true,
	"NotFound":                  true,
	"ResourceNotFoundException": true,
	"NoSuchEntity":              true,
	"NotFoundException":         true,
}

// ThrottleCodes lists the error codes retried with backoff by the data plane clients.
func ThrottleCodes() []string {
	codes := make([]string, 0, len(throttleCodes))
	for code := range throttleCodes {
		codes = append(codes, code)
	}
	return codes
}

// Classify wraps err with the sentinel it belongs to. Errors that fit no class are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{ErrAccessDenied, ErrThrottled, ErrTimeout, ErrInvalidConfig, ErrNotFound, ErrUnavailable} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case accessDeniedCodes[code]:
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		case throttleCodes[code]:
			return fmt.Errorf("%w: %w", ErrThrottled, err)
		case notFoundCodes[code]:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}

	return err
}

// Status maps an error onto the HTTP status a caller should see.
func Status(err error) int {
	err = Classify(err)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrThrottled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ServerSide reports whether the failure belongs to the service rather than to the request.
func ServerSide(err error) bool {
	return Status(err) >= http.StatusInternalServerError && !errors.Is(Classify(err), ErrUnavailable)
}

// Message is the text a caller may see. Server side failures collapse into a generic message.
func Message(err error) string {
	if err == nil {
		return ""
	}

	err = Classify(err)
	switch {
	case errors.Is(err, ErrAccessDenied):
		return ErrAccessDenied.Error()
	case errors.Is(err, ErrThrottled):
		return "service busy, retry later"
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.Is(err, ErrUnavailable):
		return err.Error()
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}
