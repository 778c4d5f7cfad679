package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/metrics"
)

// AggregatorClient fetches provider-shaped post JSON from the social
// aggregator. Bodies are returned raw; shaping them is the caller's job.
type AggregatorClient struct {
	Client  *http.Client
	BaseURL string
}

func NewAggregatorClient(cfg config.Config) *AggregatorClient {
	slog.Info("[AggregatorClient] Initializing Client",
		slog.String("base_url", cfg.APIURL),
		slog.Duration("timeout", cfg.HTTPTimeout))
	return &AggregatorClient{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.APIURL,
	}
}

// FetchPost calls /social/{provider}?url=... . limit <= 0 is omitted.
func (a *AggregatorClient) FetchPost(ctx context.Context, provider, postURL string, limit int) ([]byte, error) {
	params := url.Values{}
	params.Set("url", postURL)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("%s/social/%s?%s", a.BaseURL, url.PathEscape(provider), params.Encode())
	return a.getJSON(ctx, endpoint, fmt.Sprintf("Failed to fetch post from %s", provider))
}

// SearchBluesky calls /bluesky/search?q=...&limit=... .
func (a *AggregatorClient) SearchBluesky(ctx context.Context, query string, limit int) ([]byte, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/bluesky/search?%s", a.BaseURL, params.Encode())
	return a.getJSON(ctx, endpoint, fmt.Sprintf("Failed to fetch posts about %q", query))
}

func (a *AggregatorClient) getJSON(ctx context.Context, endpoint, fallback string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := do(a.Client, req, DependencyAggregator)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, upstreamError(resp, DependencyAggregator, fallback)
	}

	body, err := readBody(resp, DependencyAggregator)
	if err != nil {
		return nil, err
	}

	metrics.ObserveOutbound(DependencyAggregator, metrics.OutcomeSuccess)
	slog.Debug("[AggregatorClient] Fetched provider payload",
		slog.String("endpoint", req.URL.Path),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))
	return body, nil
}
