package curl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linecard/filelink/pkg/api"
	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/httproxy"
	mockservice "github.com/linecard/filelink/pkg/mock/service"
	"github.com/linecard/filelink/pkg/store/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSmoke(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		preset string
		test   func(*testing.T, []Result)
	}{
		{
			preset: "gateway-indexed",
			test: func(t *testing.T, results []Result) {
				require.Len(t, results, 3)
				for _, result := range results {
					assert.True(t, result.Pass(), "%s: want %d got %d %s", result.Name, result.Want, result.Got, result.Detail)
				}
				assert.Equal(t, http.StatusOK, results[2].Got)
			},
		},
		{
			preset: "url-basic",
			test: func(t *testing.T, results []Result) {
				require.Len(t, results, 3)
				for _, result := range results {
					assert.True(t, result.Pass(), "%s: want %d got %d %s", result.Name, result.Want, result.Got, result.Detail)
				}
				assert.Equal(t, http.StatusNotImplemented, results[2].Got)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.preset, func(t *testing.T) {
			cfg, err := config.Preset(tc.preset)
			require.NoError(t, err)

			blobs := &mockservice.MockBlobStore{}
			links := &mockservice.MockLinkStore{}
			links.On("ByID", mock.Anything, mock.Anything).Return([]index.Record{}, nil)

			var app api.App
			if cfg.Indexed() {
				app = api.New(cfg.Entry.Kind, blobs, links)
			} else {
				app = api.New(cfg.Entry.Kind, blobs, nil)
			}

			server := httptest.NewServer(httproxy.Local(cfg.Entry.Kind, app.Router()))
			defer server.Close()

			results, err := FromClient(cfg, server.Client()).Smoke(ctx, server.URL+"/")
			require.NoError(t, err)

			tc.test(t, results)
			blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSmokeReportsMissingCors(t *testing.T) {
	ctx := context.Background()

	cfg, err := config.Preset("url-basic")
	require.NoError(t, err)

	// a gateway flavoured router behind no entry emulation answers preflight with nothing
	app := api.New(config.Gateway, &mockservice.MockBlobStore{}, nil)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	results, err := FromClient(cfg, server.Client()).Smoke(ctx, server.URL)
	require.NoError(t, err)

	assert.True(t, results[0].Pass())
	assert.False(t, results[1].Pass())
}
