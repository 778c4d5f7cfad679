package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/posts"
)

type PostFetcher interface {
	Fetch(ctx context.Context, req posts.Request) (models.PostResponse, error)
}

type PostsHandler struct {
	Fetcher PostFetcher
}

func NewPostsHandler(fetcher PostFetcher) *PostsHandler {
	return &PostsHandler{Fetcher: fetcher}
}

func (h *PostsHandler) GetPosts(c *gin.Context) {
	req, err := posts.NewRequest(c.Query("url"), c.Query("q"), c.Query("limit"))
	if err != nil {
		respondError(c, apperr.HTTPStatus(err), apperr.Message(err))
		return
	}

	resp, err := h.Fetcher.Fetch(c.Request.Context(), req)
	if err != nil {
		status, msg := postsFailure(err)
		slog.Error("[PostsHandler] Fetch failed",
			slog.String("kind", apperr.KindOf(err).String()),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		respondError(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func postsFailure(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindUnsupportedSource, apperr.KindNotFound, apperr.KindUpstream:
		return apperr.HTTPStatus(err), apperr.Message(err)
	default:
		return http.StatusInternalServerError, "Could not fetch posts: " + apperr.Message(err)
	}
}
