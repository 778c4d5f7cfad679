// Package posts fetches a social post and its replies from one provider and
// normalizes the provider payload into the canonical Post and Comment shape.
package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	MinLimit           = 1
	MaxLimit           = 50
	defaultSearchLimit = 1

	missingInputMessage = "Please enter a valid URL or search query."
	limitMessage        = "The 'limit' parameter must be a number between 1 and 50."
	noPostMessage       = "No post found for the given URL."
)

type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageDispatching
	StageFetching
	StageNormalizing
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageDispatching:
		return "dispatching"
	case StageFetching:
		return "fetching"
	case StageNormalizing:
		return "normalizing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Aggregator returns raw provider JSON from the social aggregator service.
type Aggregator interface {
	FetchPost(ctx context.Context, provider, postURL string, limit int) ([]byte, error)
	SearchBluesky(ctx context.Context, query string, limit int) ([]byte, error)
}

// RedditFetcher returns a submission with its comment listing.
type RedditFetcher interface {
	FetchThread(ctx context.Context, postID string, limit int) (models.RedditThreadResponse, error)
}

// Request is one fetch. URL wins over Query; Limit 0 means not given.
type Request struct {
	URL   string
	Query string
	Limit int
}

type Pipeline struct {
	aggregator Aggregator
	reddit     RedditFetcher
}

func NewPipeline(aggregator Aggregator, reddit RedditFetcher) *Pipeline {
	return &Pipeline{aggregator: aggregator, reddit: reddit}
}

// NewRequest builds a Request from raw query values, checking them in the
// order the caller sees errors: missing input, URL shape, then limit.
func NewRequest(rawURL, query, rawLimit string) (Request, error) {
	req := Request{URL: strings.TrimSpace(rawURL), Query: strings.TrimSpace(query)}
	if err := req.validate(); err != nil {
		return Request{}, err
	}
	limit, err := ParseLimit(rawLimit)
	if err != nil {
		return Request{}, err
	}
	req.Limit = limit
	return req, nil
}

func (req Request) validate() error {
	if req.URL == "" && req.Query == "" {
		return apperr.Validation(missingInputMessage)
	}
	if req.URL != "" {
		if _, err := ParseURL(req.URL); err != nil {
			return err
		}
	}
	if req.Limit != 0 && (req.Limit < MinLimit || req.Limit > MaxLimit) {
		return apperr.Validation(limitMessage)
	}
	return nil
}

// ParseLimit reads the optional limit query value. Blank means not given.
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinLimit || n > MaxLimit {
		return 0, apperr.Validation(limitMessage)
	}
	return n, nil
}

// run tracks the stage of a single request for logging.
type run struct {
	stage Stage
	start time.Time
}

func (r *run) enter(s Stage) {
	slog.Debug("[PostPipeline] Stage transition",
		slog.String("from", r.stage.String()),
		slog.String("to", s.String()))
	r.stage = s
}

func (r *run) fail(err error) error {
	failedAt := r.stage
	r.enter(StageFailed)
	slog.Warn("[PostPipeline] Fetch failed",
		slog.String("stage", failedAt.String()),
		slog.String("kind", apperr.KindOf(err).String()),
		slog.String("error", err.Error()),
		slog.Duration("elapsed", time.Since(r.start)))
	return err
}

// Fetch runs validation, dispatch, a single outbound fetch and
// normalization. It returns a complete response or an *apperr.Error.
func (p *Pipeline) Fetch(ctx context.Context, req Request) (models.PostResponse, error) {
	r := &run{stage: StageIdle, start: time.Now()}

	r.enter(StageValidating)
	req.URL = strings.TrimSpace(req.URL)
	req.Query = strings.TrimSpace(req.Query)
	if err := req.validate(); err != nil {
		return models.PostResponse{}, r.fail(err)
	}

	r.enter(StageDispatching)
	var src Source
	if req.URL != "" {
		classified, err := Classify(req.URL)
		if err != nil {
			return models.PostResponse{}, r.fail(err)
		}
		src = classified
	} else {
		src = BlueskySearch{Query: req.Query}
	}

	r.enter(StageFetching)
	resp, err := p.fetch(ctx, r, src, req.Limit)
	if err != nil {
		return models.PostResponse{}, r.fail(err)
	}

	r.enter(StageDone)
	slog.Info("[PostPipeline] Post fetched",
		slog.String("provider", src.Provider()),
		slog.String("post_id", resp.Post.ID),
		slog.Int("comments", len(resp.Comments)),
		slog.Duration("elapsed", time.Since(r.start)))
	return resp, nil
}

func (p *Pipeline) fetch(ctx context.Context, r *run, src Source, limit int) (models.PostResponse, error) {
	switch s := src.(type) {
	case RedditThread:
		thread, err := p.reddit.FetchThread(ctx, s.PostID, redditLimit(limit))
		if err != nil {
			return models.PostResponse{}, upstreamNotFound(err)
		}
		r.enter(StageNormalizing)
		resp, ok := NormalizeReddit(thread, limit)
		if !ok {
			return models.PostResponse{}, apperr.NotFound(noPostMessage)
		}
		return resp, nil

	case BlueskySearch:
		searchLimit := limit
		if searchLimit == 0 {
			searchLimit = defaultSearchLimit
		}
		notFound := fmt.Sprintf("No post found about %q", s.Query)
		body, err := p.aggregator.SearchBluesky(ctx, s.Query, searchLimit)
		if err != nil {
			return models.PostResponse{}, searchNotFound(err, notFound)
		}
		r.enter(StageNormalizing)
		return normalizeBody(body, src, limit, NormalizeBluesky, notFound)

	case BlueskyPost:
		body, err := p.aggregator.FetchPost(ctx, ProviderBluesky, s.URL, limit)
		if err != nil {
			return models.PostResponse{}, upstreamNotFound(err)
		}
		r.enter(StageNormalizing)
		return normalizeBody(body, src, limit, NormalizeBluesky, noPostMessage)

	case FacebookPost:
		body, err := p.aggregator.FetchPost(ctx, ProviderFacebook, s.URL, limit)
		if err != nil {
			return models.PostResponse{}, upstreamNotFound(err)
		}
		r.enter(StageNormalizing)
		return normalizeBody(body, src, limit, NormalizeFacebook, noPostMessage)
	}
	return models.PostResponse{}, apperr.UnsupportedSource(unsupportedSourceMessage)
}

type normalizer func(payload any, src Source, limit int) (models.PostResponse, bool)

func normalizeBody(body []byte, src Source, limit int, normalize normalizer, notFound string) (models.PostResponse, error) {
	payload, err := decodePayload(body)
	if err != nil {
		slog.Error("[PostPipeline] Provider payload is not JSON",
			slog.String("provider", src.Provider()),
			slog.String("error", err.Error()))
		return models.PostResponse{}, apperr.Decode("invalid response from the post service", err)
	}
	resp, ok := normalize(payload, src, limit)
	if !ok {
		return models.PostResponse{}, apperr.NotFound(notFound)
	}
	return resp, nil
}

// upstreamNotFound turns an upstream 404 into a NotFound error.
func upstreamNotFound(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind == apperr.KindUpstream && e.Status == http.StatusNotFound {
		return apperr.NotFound(e.Message)
	}
	return err
}

// searchNotFound treats the aggregator's 400 for an empty search as NotFound.
// The query was already validated, so a 400 here means no matches.
func searchNotFound(err error, msg string) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind == apperr.KindUpstream && e.Status == http.StatusBadRequest {
		return apperr.NotFound(msg)
	}
	return upstreamNotFound(err)
}

func redditLimit(limit int) int {
	if limit <= 0 {
		return redditDefaultCommentLimit
	}
	return limit
}
