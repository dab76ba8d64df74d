package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/readmode/api/handler"
	"github.com/use-agent/readmode/api/middleware"
	"github.com/use-agent/readmode/config"
	"github.com/use-agent/readmode/convert"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     RateLimit
//
// Health endpoint is intentionally outside rate limiting so monitoring
// probes always work.
func NewRouter(cv *convert.Converter, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(startTime))

	limited := v1.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))
	limited.POST("/convert", handler.Convert(cv))

	return r
}
