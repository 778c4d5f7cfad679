package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
)

func vaderConfig(apiURL string) config.Config {
	return config.Config{
		AnalyzerBackend: config.BackendVader,
		APIURL:          apiURL,
		HTTPTimeout:     5 * time.Second,
	}
}

func TestRunAnalyzesText(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), vaderConfig(""), options{text: "I love this, it is wonderful and amazing!"}, &buf)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var out output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode output %q: %v", buf.String(), err)
	}
	if out.Post != nil {
		t.Errorf("expected no post for direct text, got %+v", out.Post)
	}
	if out.Analysis.Sentiment != models.SentimentPositive {
		t.Errorf("expected Positive, got %s", out.Analysis.Sentiment)
	}
}

func TestRunFetchesPost(t *testing.T) {
	var gotPath, gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotURL = r.URL.Path, r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"post":{"id":"abc","text":"I love this","author":{"handle":"a.bsky.social"}},"comments":[{"id":"c1","text":"so good"}]}`))
	}))
	defer srv.Close()

	postURL := "https://bsky.app/profile/a.bsky.social/post/abc"
	var buf bytes.Buffer
	if err := run(context.Background(), vaderConfig(srv.URL), options{url: postURL}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotPath != "/social/bluesky" || gotURL != postURL {
		t.Fatalf("unexpected aggregator request %s url=%s", gotPath, gotURL)
	}

	var out output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Post == nil || out.Post.Post.ID != "abc" || len(out.Post.Comments) != 1 {
		t.Fatalf("unexpected post %+v", out.Post)
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), vaderConfig(""), options{}, &buf)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"url", "q", "limit", "text", "timeout"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}
