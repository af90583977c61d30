package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/fault"
	mockservice "github.com/linecard/filelink/pkg/mock/service"
	"github.com/linecard/filelink/pkg/store/blob"
	"github.com/linecard/filelink/pkg/store/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, field, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(field, "upload.zip")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

type fixture struct {
	blobs *mockservice.MockBlobStore
	links *mockservice.MockLinkStore
}

func (f fixture) app(kind config.EntryKind, indexed bool) App {
	var links Links
	if indexed {
		links = f.links
	}

	app := New(kind, f.blobs, links)
	app.NewKey = func() string { return "0b8e2a5c-7a4e-4f51-9f0a-3d6c1c2b9f10" }
	return app
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name    string
		indexed bool
		request func(*testing.T) *http.Request
		setup   func(fixture)
		test    func(*testing.T, *httptest.ResponseRecorder, fixture)
	}{
		{
			name: "creates a new url key",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/createNewUrl", nil)
			},
			setup: func(f fixture) {},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `{"url_key":"0b8e2a5c-7a4e-4f51-9f0a-3d6c1c2b9f10"}`, w.Body.String())
			},
		},
		{
			name: "shares a file as the first key without an index",
			request: func(t *testing.T) *http.Request {
				body, contentType := upload(t, UploadField, "zip")
				req := httptest.NewRequest(http.MethodPost, "/api/share/abc", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setup: func(f fixture) {
				f.blobs.On("Put", mock.Anything, "abc_0", mock.Anything, "application/octet-stream").
					Return(blob.Object{Key: "abc_0", Size: 3, ContentType: "application/octet-stream"}, nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusCreated, w.Code)
				assert.JSONEq(t, `["abc_0"]`, w.Body.String())
				f.links.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
			},
		},
		{
			name:    "shares a file after the ones already linked and records it",
			indexed: true,
			request: func(t *testing.T) *http.Request {
				body, contentType := upload(t, UploadField, "zip")
				req := httptest.NewRequest(http.MethodPost, "/api/share/abc", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setup: func(f fixture) {
				f.links.On("ByID", mock.Anything, "abc").Return([]index.Record{{ID: "abc", Path: "abc_0"}, {ID: "abc", Path: "abc_1"}}, nil)
				f.blobs.On("Put", mock.Anything, "abc_2", mock.Anything, mock.Anything).
					Return(blob.Object{Key: "abc_2", Size: 3, VersionId: "v7"}, nil)
				f.links.On("Put", mock.Anything, mock.MatchedBy(func(r index.Record) bool {
					return r.ID == "abc" && r.Path == "abc_2" && r.Key == "abc_2" && r.VersionId == "v7" && r.Size == 3
				})).Return(nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusCreated, w.Code)
				assert.JSONEq(t, `["abc_2"]`, w.Body.String())
				f.links.AssertExpectations(t)
			},
		},
		{
			name: "rejects a share without the upload field",
			request: func(t *testing.T) *http.Request {
				body, contentType := upload(t, "file", "zip")
				req := httptest.NewRequest(http.MethodPost, "/api/share/abc", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setup: func(f fixture) {},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), UploadField)
				f.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "downloads a file as an attachment",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/download/abc_0?versionId=v1", nil)
			},
			setup: func(f fixture) {
				f.blobs.On("Get", mock.Anything, "abc_0", "v1").Return(blob.Blob{
					Object: blob.Object{Key: "abc_0", Size: 3, VersionId: "v1"},
					Body:   io.NopCloser(strings.NewReader("zip")),
				}, nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, "zip", w.Body.String())
				assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename="abc_0"`, w.Header().Get("Content-Disposition"))
				assert.Equal(t, "v1", w.Header().Get("X-Version-Id"))
			},
		},
		{
			name: "answers a missing file with not found",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/download/abc_9", nil)
			},
			setup: func(f fixture) {
				f.blobs.On("Get", mock.Anything, "abc_9", "").Return(blob.Blob{}, fmt.Errorf("%w: NoSuchKey", fault.ErrNotFound))
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusNotFound, w.Code)
				assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
			},
		},
		{
			name: "lists versions of a key",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/versions/abc_0", nil)
			},
			setup: func(f fixture) {
				f.blobs.On("Versions", mock.Anything, "abc_0").Return([]blob.Version{{VersionId: "v2", Latest: true}, {VersionId: "v1"}}, nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				var versions []blob.Version
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &versions))
				assert.Len(t, versions, 2)
				assert.True(t, versions[0].Latest)
			},
		},
		{
			name: "refuses link listing without an index",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/links/abc", nil)
			},
			setup: func(f fixture) {},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusNotImplemented, w.Code)
				assert.Contains(t, w.Body.String(), "not provisioned")
			},
		},
		{
			name:    "lists links by id",
			indexed: true,
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/links/abc", nil)
			},
			setup: func(f fixture) {
				f.links.On("ByID", mock.Anything, "abc").Return([]index.Record{{ID: "abc", Path: "abc_0", Key: "abc_0"}}, nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				var records []index.Record
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
				require.Len(t, records, 1)
				assert.Equal(t, "abc_0", records[0].Path)
			},
		},
		{
			name:    "looks links up by path",
			indexed: true,
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/lookup?path=abc_0", nil)
			},
			setup: func(f fixture) {
				f.links.On("ByPath", mock.Anything, "abc_0").Return([]index.Record{{ID: "abc", Path: "abc_0"}, {ID: "xyz", Path: "abc_0"}}, nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				var records []index.Record
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
				assert.Len(t, records, 2)
			},
		},
		{
			name:    "requires a path to look up",
			indexed: true,
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/lookup", nil)
			},
			setup: func(f fixture) {},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			},
		},
		{
			name:    "deletes the links of an id",
			indexed: true,
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodDelete, "/api/links/abc", nil)
			},
			setup: func(f fixture) {
				f.links.On("DeleteID", mock.Anything, "abc").Return(2, nil)
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `{"removed":2}`, w.Body.String())
			},
		},
		{
			name:    "answers exhausted throttling as busy",
			indexed: true,
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/links/abc", nil)
			},
			setup: func(f fixture) {
				f.links.On("ByID", mock.Anything, "abc").Return(nil, fmt.Errorf("%w: ProvisionedThroughputExceededException", fault.ErrThrottled))
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusServiceUnavailable, w.Code)
				assert.JSONEq(t, `{"error":"service busy, retry later"}`, w.Body.String())
			},
		},
		{
			name: "hides the cause of unknown failures",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/versions/abc_0", nil)
			},
			setup: func(f fixture) {
				f.blobs.On("Versions", mock.Anything, "abc_0").Return(nil, errors.New("socket: connection reset"))
			},
			test: func(t *testing.T, w *httptest.ResponseRecorder, f fixture) {
				assert.Equal(t, http.StatusInternalServerError, w.Code)
				assert.NotContains(t, w.Body.String(), "socket")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := fixture{blobs: &mockservice.MockBlobStore{}, links: &mockservice.MockLinkStore{}}
			tc.setup(f)

			w := httptest.NewRecorder()
			f.app(config.Gateway, tc.indexed).Router().ServeHTTP(w, tc.request(t))

			tc.test(t, w, f)
		})
	}
}

func TestUrlEntry(t *testing.T) {
	t.Run("server side failures reach the sink instead of the body", func(t *testing.T) {
		f := fixture{blobs: &mockservice.MockBlobStore{}, links: &mockservice.MockLinkStore{}}
		f.blobs.On("Versions", mock.Anything, "abc_0").Return(nil, fmt.Errorf("%w: context deadline exceeded", fault.ErrTimeout))

		ctx, sink := WithSink(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/versions/abc_0", nil).WithContext(ctx)

		w := httptest.NewRecorder()
		f.app(config.Url, false).Router().ServeHTTP(w, req)

		assert.ErrorIs(t, sink.Err(), fault.ErrTimeout)
		assert.Empty(t, w.Body.String())
	})

	t.Run("client failures keep their status", func(t *testing.T) {
		f := fixture{blobs: &mockservice.MockBlobStore{}, links: &mockservice.MockLinkStore{}}
		f.blobs.On("Get", mock.Anything, "abc_9", "").Return(blob.Blob{}, fmt.Errorf("%w: NoSuchKey", fault.ErrNotFound))

		ctx, sink := WithSink(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/download/abc_9", nil).WithContext(ctx)

		w := httptest.NewRecorder()
		f.app(config.Url, false).Router().ServeHTTP(w, req)

		assert.NoError(t, sink.Err())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("answers preflight itself", func(t *testing.T) {
		f := fixture{blobs: &mockservice.MockBlobStore{}, links: &mockservice.MockLinkStore{}}

		// the origin must differ from the request host or cors treats it as same origin
		req := httptest.NewRequest(http.MethodOptions, "/api/share/abc", nil)
		req.Header.Set("Origin", "https://app.example.org")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := httptest.NewRecorder()
		f.app(config.Url, false).Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		f.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFromEnv(t *testing.T) {
	t.Run("requires the bucket", func(t *testing.T) {
		t.Setenv("s3Bucket", "")
		_, err := FromEnv()
		assert.ErrorIs(t, err, fault.ErrInvalidConfig)
	})

	t.Run("table is optional", func(t *testing.T) {
		t.Setenv("s3Bucket", "file-link-s3bucket")
		t.Setenv("dynamoTable", "")

		env, err := FromEnv()
		require.NoError(t, err)
		assert.False(t, env.Indexed())
	})

	t.Run("reads both stores", func(t *testing.T) {
		t.Setenv("s3Bucket", "file-link-s3bucket")
		t.Setenv("dynamoTable", "FileLinkDB")

		env, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, Env{Bucket: "file-link-s3bucket", Table: "FileLinkDB"}, env)
	})
}
