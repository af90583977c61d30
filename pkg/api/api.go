// Package api is the file link HTTP surface served by the Compute Entry Point.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/fault"
	"github.com/linecard/filelink/pkg/store/blob"
	"github.com/linecard/filelink/pkg/store/index"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UploadField is the multipart field a shared file arrives in.
const UploadField = "zip-file"

type Blobs interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (blob.Object, error)
	Get(ctx context.Context, key, versionId string) (blob.Blob, error)
	Versions(ctx context.Context, key string) ([]blob.Version, error)
}

type Links interface {
	Put(ctx context.Context, record index.Record) error
	ByID(ctx context.Context, id string) ([]index.Record, error)
	ByPath(ctx context.Context, path string) ([]index.Record, error)
	DeleteID(ctx context.Context, id string) (int, error)
}

type UrlKey struct {
	UrlKey string `json:"url_key"`
}

// App serves one Object Store and, when Links is set, one Metadata Index.
type App struct {
	Kind   config.EntryKind
	Blobs  Blobs
	Links  Links
	NewKey func() string
}

func New(kind config.EntryKind, blobs Blobs, links Links) App {
	return App{
		Kind:   kind,
		Blobs:  blobs,
		Links:  links,
		NewKey: uuid.NewString,
	}
}

func (a App) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// a function url has no cors block of its own
	if a.Kind == config.Url {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "HEAD"},
			AllowHeaders:    []string{"*"},
			MaxAge:          12 * time.Hour,
		}))
	}

	apiRoutes := r.Group("/api")
	{
		apiRoutes.GET("/createNewUrl", a.CreateNewUrl)
		apiRoutes.POST("/share/:urlKey", a.Share)
		apiRoutes.GET("/download/:key", a.Download)
		apiRoutes.GET("/versions/:key", a.Versions)

		linkRoutes := apiRoutes.Group("/links")
		{
			linkRoutes.GET("/:urlKey", a.ListLinks)
			linkRoutes.DELETE("/:urlKey", a.DeleteLinks)
		}

		apiRoutes.GET("/lookup", a.Lookup)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}

func (a App) CreateNewUrl(c *gin.Context) {
	c.JSON(http.StatusOK, UrlKey{UrlKey: a.NewKey()})
}

// Share stores the uploaded file as <urlKey>_<n>, where n counts the files already linked to urlKey.
func (a App) Share(c *gin.Context) {
	ctx := c.Request.Context()
	urlKey := c.Param("urlKey")

	fileHeader, err := c.FormFile(UploadField)
	if err != nil {
		badRequest(c, fmt.Sprintf("multipart field %s is required", UploadField))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		a.fail(c, err)
		return
	}
	defer file.Close()

	var n int
	if a.Links != nil {
		existing, err := a.Links.ByID(ctx, urlKey)
		if err != nil {
			a.fail(c, err)
			return
		}
		n = len(existing)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	object, err := a.Blobs.Put(ctx, fmt.Sprintf("%s_%d", urlKey, n), file, contentType)
	if err != nil {
		a.fail(c, err)
		return
	}

	if a.Links != nil {
		if err := a.Links.Put(ctx, index.Record{
			ID:          urlKey,
			Path:        object.Key,
			Key:         object.Key,
			ContentType: object.ContentType,
			Size:        object.Size,
			VersionId:   object.VersionId,
		}); err != nil {
			a.fail(c, err)
			return
		}
	}

	log.Info().Str("url_key", urlKey).Str("key", object.Key).Int64("size", object.Size).Msg("shared file")

	c.JSON(http.StatusCreated, []string{object.Key})
}

func (a App) Download(c *gin.Context) {
	key := c.Param("key")

	stored, err := a.Blobs.Get(c.Request.Context(), key, c.Query("versionId"))
	if err != nil {
		a.fail(c, err)
		return
	}
	defer stored.Body.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", key),
	}

	if stored.VersionId != "" {
		extraHeaders["X-Version-Id"] = stored.VersionId
	}

	c.DataFromReader(http.StatusOK, stored.Size, "application/octet-stream", stored.Body, extraHeaders)
}

func (a App) Versions(c *gin.Context) {
	versions, err := a.Blobs.Versions(c.Request.Context(), c.Param("key"))
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

func (a App) ListLinks(c *gin.Context) {
	if a.Links == nil {
		a.fail(c, unindexed())
		return
	}

	records, err := a.Links.ByID(c.Request.Context(), c.Param("urlKey"))
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (a App) Lookup(c *gin.Context) {
	if a.Links == nil {
		a.fail(c, unindexed())
		return
	}

	path := c.Query("path")
	if path == "" {
		badRequest(c, "query parameter path is required")
		return
	}

	records, err := a.Links.ByPath(c.Request.Context(), path)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// DeleteLinks forgets every record under urlKey. The stored files stay.
func (a App) DeleteLinks(c *gin.Context) {
	if a.Links == nil {
		a.fail(c, unindexed())
		return
	}

	urlKey := c.Param("urlKey")

	removed, err := a.Links.DeleteID(c.Request.Context(), urlKey)
	if err != nil {
		a.fail(c, err)
		return
	}

	log.Info().Str("url_key", urlKey).Int("removed", removed).Msg("deleted links")

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func unindexed() error {
	return fmt.Errorf("%w: this stack has no metadata index", fault.ErrUnavailable)
}
