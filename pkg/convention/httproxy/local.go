package httproxy

import (
	"net/http"
	"time"

	"github.com/linecard/filelink/pkg/convention/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var gatewayMethods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// Local stands in for the public entry when serving from a workstation. The gateway kind
// answers preflight itself and adds CORS headers the way the managed API does; the url kind
// hands every request to handler untouched.
func Local(kind config.EntryKind, handler http.Handler) http.Handler {
	if kind != config.Gateway {
		return handler
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    gatewayMethods,
		AllowHeaders:    []string{"*"},
		MaxAge:          12 * time.Hour,
	}))
	engine.NoRoute(gin.WrapH(handler))
	engine.NoMethod(gin.WrapH(handler))

	return engine
}
