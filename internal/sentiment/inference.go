package sentiment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
)

// Generator produces raw model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Inferencer classifies text with a generative model. It makes exactly one
// model call per Infer and never substitutes a default result.
type Inferencer struct {
	gen Generator
}

func NewInferencer(gen Generator) *Inferencer {
	return &Inferencer{gen: gen}
}

func (i *Inferencer) Infer(ctx context.Context, text string) (models.SentimentResult, error) {
	if err := ValidateInput(text); err != nil {
		return models.SentimentResult{}, err
	}

	start := time.Now()
	output, err := i.gen.Generate(ctx, BuildPrompt(text))
	if err != nil {
		slog.Error("[Inferencer] Model call failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return models.SentimentResult{}, err
	}

	if strings.TrimSpace(output) == "" {
		slog.Warn("[Inferencer] Model returned no output")
		return models.SentimentResult{}, apperr.ModelEmptyResponse("The model did not return a valid response.")
	}

	result, err := ParseResult(output)
	if err != nil {
		slog.Error("[Inferencer] Model output rejected",
			slog.String("kind", apperr.KindOf(err).String()),
			slog.String("error", err.Error()),
			slog.Int("output_length", len(output)))
		return models.SentimentResult{}, err
	}

	slog.Info("[Inferencer] Inference complete",
		slog.String("sentiment", string(result.Sentiment)),
		slog.Float64("confidence", result.Confidence),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}
