package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendRemote = "remote"
	BackendOpenAI = "openai"
	BackendVader  = "vader"

	defaultPort        = "8080"
	defaultAPIURL      = "http://localhost:5001"
	defaultOpenAIModel = "gpt-4o-mini"

	RedditOAuthURL  = "https://oauth.reddit.com"
	RedditPublicURL = "https://www.reddit.com"
)

type Config struct {
	Env  string
	Port string

	// APIURL is the base of the prediction service and the social aggregator.
	APIURL          string
	AnalyzerBackend string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	RedditClientID     string
	RedditClientSecret string
	RedditAPIURL       string

	HTTPTimeout         time.Duration
	HealthCheckInterval time.Duration
	LogLevel            slog.Level
}

// Load builds a Config from the process environment. Call LoadEnv first to
// pull in the env file.
func Load() Config {
	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		Port:                getEnv("PORT", defaultPort),
		APIURL:              strings.TrimRight(firstEnv(defaultAPIURL, "API_URL", "NEXT_PUBLIC_API_URL"), "/"),
		AnalyzerBackend:     strings.ToLower(getEnv("ANALYZER_BACKEND", BackendRemote)),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnv("OPENAI_MODEL", defaultOpenAIModel),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		RedditClientID:      os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret:  os.Getenv("REDDIT_CLIENT_SECRET"),
		HTTPTimeout:         getSeconds("HTTP_TIMEOUT_SECONDS", 30),
		HealthCheckInterval: getSeconds("HEALTHCHECK_INTERVAL_SECONDS", 15),
		LogLevel:            parseLevel(os.Getenv("LOG_LEVEL")),
	}

	cfg.RedditAPIURL = os.Getenv("REDDIT_API_URL")
	if cfg.RedditAPIURL == "" {
		if cfg.RedditOAuthEnabled() {
			cfg.RedditAPIURL = RedditOAuthURL
		} else {
			cfg.RedditAPIURL = RedditPublicURL
		}
	}
	cfg.RedditAPIURL = strings.TrimRight(cfg.RedditAPIURL, "/")

	return cfg
}

func (c Config) Validate() error {
	switch c.AnalyzerBackend {
	case BackendRemote, BackendVader:
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("config: ANALYZER_BACKEND=%s requires OPENAI_API_KEY", BackendOpenAI)
		}
	default:
		return fmt.Errorf("config: unknown ANALYZER_BACKEND %q", c.AnalyzerBackend)
	}
	if c.APIURL == "" {
		return fmt.Errorf("config: API_URL is empty")
	}
	return nil
}

func (c Config) RedditOAuthEnabled() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != ""
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return fallback
}

func getSeconds(key string, fallback int) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
