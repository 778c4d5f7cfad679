package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/sentiment"
)

const transportFailureMessage = "Analysis failed. Could not connect to the model API."

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

type AnalyzeHandler struct {
	Analyzer Analyzer
}

func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{Analyzer: analyzer}
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var request models.AnalyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Warn("[AnalyzeHandler] Invalid request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, sentiment.EmptyTextMessage)
		return
	}

	result, err := h.Analyzer.Analyze(c.Request.Context(), request.Text)
	if err != nil {
		status, msg := analyzeFailure(err)
		slog.Error("[AnalyzeHandler] Analysis failed",
			slog.String("kind", apperr.KindOf(err).String()),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		respondError(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, result)
}

// analyzeFailure maps an analysis error onto the response status and
// message. Upstream messages are passed through verbatim.
func analyzeFailure(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest, apperr.Message(err)
	case apperr.KindTransport:
		return http.StatusInternalServerError, transportFailureMessage
	case apperr.KindUpstream:
		return http.StatusInternalServerError, apperr.Message(err)
	default:
		return http.StatusInternalServerError, "An error occurred: " + apperr.Message(err)
	}
}
