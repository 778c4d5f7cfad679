package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, analyzer Analyzer, fetcher PostFetcher) {
	analyze := NewAnalyzeHandler(analyzer)
	postsHandler := NewPostsHandler(fetcher)

	r.POST("/analyze", analyze.Analyze)
	r.GET("/posts", postsHandler.GetPosts)

	slog.Info("[Router] API routes registered", slog.String("base", r.BasePath()))
}
