package api

import (
	"net/http"
	"time"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/fault"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// fail answers with the status the error classifies to. Behind a function url a server side
// failure is also handed to the request's Sink so the invocation fails instead of answering.
func (a App) fail(c *gin.Context, err error) {
	err = fault.Classify(err)
	status := fault.Status(err)

	event := log.Warn()
	if fault.ServerSide(err) {
		event = log.Error()
	}
	event.Err(err).Str("route", c.FullPath()).Int("status", status).Msg("request failed")

	if a.Kind == config.Url && fault.ServerSide(err) {
		if sink := SinkFrom(c.Request.Context()); sink != nil {
			sink.record(err)
			c.AbortWithStatus(status)
			return
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"error": fault.Message(err)})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := zerolog.DebugLevel
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = zerolog.ErrorLevel
		}

		log.WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
