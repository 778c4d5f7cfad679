package sentiment

import (
	"context"
	"strings"
	"testing"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
)

func TestVaderLabels(t *testing.T) {
	cases := []struct {
		text string
		want models.SentimentLabel
	}{
		{"I love this, it is wonderful and amazing!", models.SentimentPositive},
		{"This is terrible and awful. I hate it.", models.SentimentNegative},
		{"The meeting is at 3pm in room 4.", models.SentimentNeutral},
	}

	c := NewVaderClassifier()
	for _, tc := range cases {
		r, err := c.Classify(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("classify %q: %v", tc.text, err)
		}
		assertContract(t, r)
		if r.Sentiment != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.text, tc.want, r.Sentiment)
		}
	}
}

func TestVaderRejectsBlank(t *testing.T) {
	_, err := NewVaderClassifier().Classify(context.Background(), " ")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("**Great** [docs](https://example.com/x) see https://foo.bar/baz")
	if strings.Contains(got, "http") || strings.Contains(got, "<") || strings.Contains(got, "*") {
		t.Fatalf("markdown not stripped: %q", got)
	}
	if !strings.Contains(got, "Great") || !strings.Contains(got, "docs") {
		t.Fatalf("text lost: %q", got)
	}
}
