package httproxy

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/linecard/filelink/pkg/convention/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func countingHandler(calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTeapot)
	})
}

func preflight(path string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", "https://files.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	return req
}

func TestLocal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		kind    config.EntryKind
		request *http.Request
		test    func(*testing.T, *httptest.ResponseRecorder, int32)
	}{
		{
			name:    "gateway answers preflight without invoking the handler",
			kind:    config.Gateway,
			request: preflight("/api/share/abc"),
			test: func(t *testing.T, rec *httptest.ResponseRecorder, calls int32) {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
				assert.Equal(t, int32(0), calls)
			},
		},
		{
			name: "gateway forwards real requests with cors headers",
			kind: config.Gateway,
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/createNewUrl", nil)
				req.Header.Set("Origin", "https://files.example.com")
				return req
			}(),
			test: func(t *testing.T, rec *httptest.ResponseRecorder, calls int32) {
				assert.Equal(t, http.StatusTeapot, rec.Code)
				assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, int32(1), calls)
			},
		},
		{
			name:    "url kind forwards preflight to the handler",
			kind:    config.Url,
			request: preflight("/api/share/abc"),
			test: func(t *testing.T, rec *httptest.ResponseRecorder, calls int32) {
				assert.Equal(t, http.StatusTeapot, rec.Code)
				assert.Equal(t, int32(1), calls)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32

			rec := httptest.NewRecorder()
			Local(tc.kind, countingHandler(&calls)).ServeHTTP(rec, tc.request)

			tc.test(t, rec, calls.Load())
		})
	}
}
