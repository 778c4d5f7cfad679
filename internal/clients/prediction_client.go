package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/metrics"
	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	predictPath = "/predict"
	healthPath  = "/health"
)

// PredictionClient talks to the external sentiment prediction service.
type PredictionClient struct {
	Client  *http.Client
	BaseURL string
}

func NewPredictionClient(cfg config.Config) *PredictionClient {
	slog.Info("[PredictionClient] Initializing Client",
		slog.String("base_url", cfg.APIURL),
		slog.Duration("timeout", cfg.HTTPTimeout))
	return &PredictionClient{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.APIURL,
	}
}

// Predict posts {text} once. A 2xx body is decoded as-is without contract
// validation.
func (p *PredictionClient) Predict(ctx context.Context, text string) (models.SentimentResult, error) {
	var result models.SentimentResult
	slog.Info("[PredictionClient] Requesting sentiment prediction", slog.Int("text_length", len(text)))
	start := time.Now()

	if err := p.postJSON(ctx, p.BaseURL+predictPath, models.AnalyzeRequest{Text: text}, &result); err != nil {
		slog.Error("[PredictionClient] Prediction request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return models.SentimentResult{}, err
	}

	slog.Info("[PredictionClient] Prediction request successful",
		slog.String("sentiment", string(result.Sentiment)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// HealthCheck reports whether GET /health answers 2xx.
func (p *PredictionClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+healthPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return isSuccess(resp.StatusCode)
}

func (p *PredictionClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := do(p.Client, req, DependencyPrediction)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return upstreamError(resp, DependencyPrediction,
			fmt.Sprintf("API request failed with status: %d", resp.StatusCode))
	}

	respBody, err := readBody(resp, DependencyPrediction)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		metrics.ObserveOutbound(DependencyPrediction, metrics.OutcomeDecode)
		slog.Error("[PredictionClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return apperr.Decode("invalid response from the model API", err)
	}

	metrics.ObserveOutbound(DependencyPrediction, metrics.OutcomeSuccess)
	return nil
}
