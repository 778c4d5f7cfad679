// Package server assembles the gin engine.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/sentiscope/internal/handlers"
	"github.com/spacesedan/sentiscope/internal/logging"
	"github.com/spacesedan/sentiscope/internal/metrics"
)

type Dependencies struct {
	Analyzer handlers.Analyzer
	Fetcher  handlers.PostFetcher
	Health   *handlers.HealthHandler
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(), metrics.Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.Health != nil {
		r.GET("/health", deps.Health.Health)
	}

	api := r.Group("/api")
	handlers.SetupRoutes(api, deps.Analyzer, deps.Fetcher)

	return r
}
