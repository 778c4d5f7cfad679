package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spacesedan/sentiscope/internal/apperr"
)

type fakeGenerator struct {
	output  string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

func TestInferSuccess(t *testing.T) {
	gen := &fakeGenerator{output: `{"sentiment":"Negative","confidence":0.5,"probabilities":[{"name":"Neutral","value":0.3},{"name":"Negative","value":0.6},{"name":"Positive","value":0.1}]}`}
	text := "the service was slow\nand the food was cold"

	r, err := NewInferencer(gen).Infer(context.Background(), text)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	assertContract(t, r)
	if r.Confidence != 0.6 {
		t.Fatalf("confidence should follow the labelled probability, got %v", r.Confidence)
	}
	if gen.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", gen.calls)
	}
	if !strings.Contains(gen.prompts[0], "'''\n"+text+"\n'''") {
		t.Fatalf("prompt does not embed the text verbatim:\n%s", gen.prompts[0])
	}
}

func TestInferEmptyOutput(t *testing.T) {
	for _, output := range []string{"", "  \n", "no json here"} {
		_, err := NewInferencer(&fakeGenerator{output: output}).Infer(context.Background(), "hello")
		if !apperr.Is(err, apperr.KindModelEmptyResponse) {
			t.Fatalf("output %q: expected ModelEmptyResponse, got %v", output, err)
		}
		if apperr.Is(err, apperr.KindValidation) || apperr.Is(err, apperr.KindTransport) {
			t.Fatalf("empty response must be distinguishable")
		}
	}
}

func TestInferInvalidOutput(t *testing.T) {
	gen := &fakeGenerator{output: `{"sentiment":"Positive","confidence":0.9,"probabilities":[{"name":"Positive","value":0.9}]}`}
	_, err := NewInferencer(gen).Infer(context.Background(), "hello")
	if !apperr.Is(err, apperr.KindInvalidModelOutput) {
		t.Fatalf("expected InvalidModelOutput, got %v", err)
	}
}

func TestInferBlankTextSkipsModel(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := NewInferencer(gen).Infer(context.Background(), "   ")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("model should not be called for blank text")
	}
}

func TestInferPassesGeneratorErrors(t *testing.T) {
	cause := apperr.Transport("could not reach openai service", errors.New("dial tcp: refused"))
	_, err := NewInferencer(&fakeGenerator{err: cause}).Infer(context.Background(), "hello")
	if !apperr.Is(err, apperr.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
