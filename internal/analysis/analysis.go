// Package analysis selects the sentiment backend and runs every analyze
// request through input validation first.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/clients"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/sentiment"
)

type Classifier interface {
	Classify(ctx context.Context, text string) (models.SentimentResult, error)
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(ctx context.Context, text string) (models.SentimentResult, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	return f(ctx, text)
}

type Service struct {
	backend    string
	classifier Classifier
}

func NewService(backend string, classifier Classifier) *Service {
	return &Service{backend: backend, classifier: classifier}
}

// New wires the backend named by cfg.AnalyzerBackend. prediction is used by
// the remote backend and may be nil for the others.
func New(cfg config.Config, prediction *clients.PredictionClient) (*Service, error) {
	var classifier Classifier

	switch cfg.AnalyzerBackend {
	case config.BackendRemote:
		if prediction == nil {
			prediction = clients.NewPredictionClient(cfg)
		}
		classifier = ClassifierFunc(prediction.Predict)
	case config.BackendOpenAI:
		gen, err := sentiment.NewOpenAIGenerator(clients.NewOpenAIClient(cfg), cfg.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("failed to build openai generator: %w", err)
		}
		classifier = ClassifierFunc(sentiment.NewInferencer(gen).Infer)
	case config.BackendVader:
		classifier = sentiment.NewVaderClassifier()
	default:
		return nil, fmt.Errorf("unknown analyzer backend %q", cfg.AnalyzerBackend)
	}

	slog.Info("[Analysis] Analyzer backend selected", slog.String("backend", cfg.AnalyzerBackend))
	return NewService(cfg.AnalyzerBackend, classifier), nil
}

func (s *Service) Backend() string { return s.backend }

// Analyze rejects blank text without calling the backend.
func (s *Service) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	if err := sentiment.ValidateInput(text); err != nil {
		slog.Warn("[Analysis] Rejected blank text")
		return models.SentimentResult{}, err
	}
	return s.classifier.Classify(ctx, text)
}
