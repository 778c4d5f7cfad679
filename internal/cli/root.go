package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/analysis"
	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/clients"
	"github.com/spacesedan/sentiscope/internal/logging"
	"github.com/spacesedan/sentiscope/internal/models"
	"github.com/spacesedan/sentiscope/internal/posts"
)

type options struct {
	url     string
	query   string
	limit   int
	text    string
	timeout time.Duration
}

type output struct {
	Post     *models.PostResponse   `json:"post,omitempty"`
	Analysis models.SentimentResult `json:"analysis"`
}

var opts options

// rootCmd fetches a post (or takes raw text) and prints its sentiment.
var rootCmd = &cobra.Command{
	Use:   "sentiscope",
	Short: "Fetch a social post and analyze its sentiment",
	Long: `sentiscope fetches a Bluesky, Facebook or Reddit post with its comments,
or the top Bluesky search result, and prints the post together with its
sentiment analysis as JSON. Use --text to analyze text directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)

		cfg := config.Load()
		logging.InitLogger(cfg.LogLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
		defer cancel()
		return run(ctx, cfg, opts, cmd.OutOrStdout())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Debug("[CLI] Command failed",
			slog.String("kind", apperr.KindOf(err).String()),
			slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "Error:", apperr.Message(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.Flags()
	flags.StringVar(&opts.url, "url", "", "post URL to fetch and analyze")
	flags.StringVar(&opts.query, "q", "", "Bluesky search query")
	flags.IntVar(&opts.limit, "limit", 0, "maximum comments (or search results) to fetch, 1-50")
	flags.StringVar(&opts.text, "text", "", "analyze this text directly")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "overall timeout")
}

func run(ctx context.Context, cfg config.Config, o options, w io.Writer) error {
	svc, err := analysis.New(cfg, nil)
	if err != nil {
		return err
	}

	var out output
	input := o.text
	if input == "" {
		rawLimit := ""
		if o.limit != 0 {
			rawLimit = strconv.Itoa(o.limit)
		}
		req, err := posts.NewRequest(o.url, o.query, rawLimit)
		if err != nil {
			return err
		}
		pipeline := posts.NewPipeline(clients.NewAggregatorClient(cfg), clients.NewRedditClient(cfg))
		resp, err := pipeline.Fetch(ctx, req)
		if err != nil {
			return err
		}
		out.Post = &resp
		input = posts.ComposeText(resp)
	}

	result, err := svc.Analyze(ctx, input)
	if err != nil {
		return err
	}
	out.Analysis = result

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
