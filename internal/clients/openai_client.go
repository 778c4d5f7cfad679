package clients

import (
	"log/slog"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spacesedan/sentiscope/config"
)

func NewOpenAIClient(cfg config.Config) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		// a single attempt per request
		option.WithMaxRetries(0),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}

	client := openai.NewClient(opts...)
	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", cfg.OpenAIModel),
		slog.Duration("timeout", cfg.HTTPTimeout))
	return &client
}
