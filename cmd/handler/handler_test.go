package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/linecard/filelink/pkg/api"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/fault"
	mockservice "github.com/linecard/filelink/pkg/mock/service"
	"github.com/linecard/filelink/pkg/store/blob"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func versionsEvent(domain string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		Version:  "2.0",
		RouteKey: "ANY /{proxy+}",
		RawPath:  "/api/versions/abc_0",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: domain,
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodGet,
				Path:   "/api/versions/abc_0",
			},
		},
	}
}

const (
	gatewayDomain = "k3x9q1.execute-api.us-west-2.amazonaws.com"
	urlDomain     = "5ujeq2rk3xb.lambda-url.us-west-2.on.aws"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, config.Gateway, KindOf(versionsEvent(gatewayDomain)))
	assert.Equal(t, config.Url, KindOf(versionsEvent(urlDomain)))
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		domain string
		setup  func(*mockservice.MockBlobStore)
		test   func(*testing.T, events.APIGatewayV2HTTPResponse, error)
	}{
		{
			name:   "answers through the gateway",
			domain: gatewayDomain,
			setup: func(m *mockservice.MockBlobStore) {
				m.On("Versions", mock.Anything, "abc_0").Return([]blob.Version{{VersionId: "v1", Latest: true}}, nil)
			},
			test: func(t *testing.T, response events.APIGatewayV2HTTPResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, response.StatusCode)
				assert.Contains(t, response.Body, `"versionId":"v1"`)
			},
		},
		{
			name:   "gateway entry turns server failures into a response",
			domain: gatewayDomain,
			setup: func(m *mockservice.MockBlobStore) {
				m.On("Versions", mock.Anything, "abc_0").Return(nil, errors.New("connection reset"))
			},
			test: func(t *testing.T, response events.APIGatewayV2HTTPResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
				assert.Contains(t, response.Body, "Internal Server Error")
			},
		},
		{
			name:   "url entry fails the invocation on server failures",
			domain: urlDomain,
			setup: func(m *mockservice.MockBlobStore) {
				m.On("Versions", mock.Anything, "abc_0").Return(nil, fmt.Errorf("%w: retries exhausted", fault.ErrThrottled))
			},
			test: func(t *testing.T, response events.APIGatewayV2HTTPResponse, err error) {
				assert.ErrorIs(t, err, fault.ErrThrottled)
			},
		},
		{
			name:   "url entry keeps client failures as responses",
			domain: urlDomain,
			setup: func(m *mockservice.MockBlobStore) {
				m.On("Versions", mock.Anything, "abc_0").Return(nil, fmt.Errorf("%w: AccessDenied", fault.ErrAccessDenied))
			},
			test: func(t *testing.T, response events.APIGatewayV2HTTPResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusForbidden, response.StatusCode)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blobs := &mockservice.MockBlobStore{}
			tc.setup(blobs)

			h := FromApps(api.New(config.Gateway, blobs, nil), api.New(config.Url, blobs, nil))

			response, err := h.Handle(ctx, versionsEvent(tc.domain))
			tc.test(t, response, err)
		})
	}
}
