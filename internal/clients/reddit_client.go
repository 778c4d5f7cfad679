package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/metrics"
	"github.com/spacesedan/sentiscope/internal/models"
)

const REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"

// RedditClient reads a submission and its top-level comments. With client
// credentials configured it goes through oauth.reddit.com, otherwise it uses
// the anonymous JSON endpoints.
type RedditClient struct {
	Client  *http.Client
	BaseURL string
}

func NewRedditClient(cfg config.Config) *RedditClient {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	if cfg.RedditOAuthEnabled() {
		oauthConf := &clientcredentials.Config{
			ClientID:     cfg.RedditClientID,
			ClientSecret: cfg.RedditClientSecret,
			TokenURL:     REDDIT_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauthConf.Client(ctx)
		httpClient.Timeout = cfg.HTTPTimeout
		slog.Info("[RedditClient] Using OAuth client credentials", slog.String("base_url", cfg.RedditAPIURL))
	} else {
		slog.Info("[RedditClient] No credentials configured, using anonymous access", slog.String("base_url", cfg.RedditAPIURL))
	}

	return &RedditClient{
		Client:  httpClient,
		BaseURL: cfg.RedditAPIURL,
	}
}

// FetchThread gets /comments/{id}.json. limit <= 0 leaves Reddit's default.
func (rc *RedditClient) FetchThread(ctx context.Context, postID string, limit int) (models.RedditThreadResponse, error) {
	params := url.Values{}
	params.Set("raw_json", "1")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint := fmt.Sprintf("%s/comments/%s.json?%s", rc.BaseURL, url.PathEscape(postID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := do(rc.Client, req, DependencyReddit)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, upstreamError(resp, DependencyReddit, "Failed to fetch post from reddit")
	}

	body, err := readBody(resp, DependencyReddit)
	if err != nil {
		return nil, err
	}

	var thread models.RedditThreadResponse
	if err := json.Unmarshal(body, &thread); err != nil {
		metrics.ObserveOutbound(DependencyReddit, metrics.OutcomeDecode)
		slog.Error("[RedditClient] Failed to unmarshal thread",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
			getPreview(body))
		return nil, apperr.Decode("invalid response from reddit", err)
	}

	metrics.ObserveOutbound(DependencyReddit, metrics.OutcomeSuccess)
	slog.Debug("[RedditClient] Fetched thread",
		slog.String("post_id", postID),
		slog.Duration("elapsed", time.Since(start)))
	return thread, nil
}
