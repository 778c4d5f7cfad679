// Package sentiment owns the SentimentResult contract: input checks,
// structural validation of classifier output, the JSON schema handed to the
// model, and the classifiers that produce results.
package sentiment

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	EmptyTextMessage = "Text input cannot be empty."

	sumTolerance = 1e-6
)

// ValidateInput rejects blank text before any classifier is reached.
func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation(EmptyTextMessage)
	}
	return nil
}

// Validate checks the structural rules of a result. The probabilities are
// not required to sum to one here.
func Validate(r models.SentimentResult) error {
	if !r.Sentiment.Valid() {
		return fmt.Errorf("sentiment %q is not one of Positive, Negative, Neutral", r.Sentiment)
	}
	if !inUnitRange(r.Confidence) {
		return fmt.Errorf("confidence %v is outside [0,1]", r.Confidence)
	}
	if len(r.Probabilities) != len(models.SentimentLabels) {
		return fmt.Errorf("expected %d probabilities, got %d", len(models.SentimentLabels), len(r.Probabilities))
	}

	seen := make(map[models.SentimentLabel]struct{}, len(r.Probabilities))
	for _, p := range r.Probabilities {
		if !p.Name.Valid() {
			return fmt.Errorf("probability name %q is not a sentiment label", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate probability for %s", p.Name)
		}
		seen[p.Name] = struct{}{}
		if !inUnitRange(p.Value) {
			return fmt.Errorf("probability %v for %s is outside [0,1]", p.Value, p.Name)
		}
	}
	return nil
}

// rawResult mirrors SentimentResult with pointers so missing keys are told
// apart from zero values.
type rawResult struct {
	Sentiment     *string          `json:"sentiment"`
	Confidence    *float64         `json:"confidence"`
	Probabilities []rawProbability `json:"probabilities"`
}

type rawProbability struct {
	Name  *string  `json:"name"`
	Value *float64 `json:"value"`
}

// ParseResult turns raw model text into a validated, finalized result.
// Text with no JSON object in it is a ModelEmptyResponse; JSON that breaks
// the contract is an InvalidModelOutput.
func ParseResult(output string) (models.SentimentResult, error) {
	payload, ok := extractJSONObject(output)
	if !ok {
		return models.SentimentResult{}, apperr.ModelEmptyResponse("The model did not return a valid response.")
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return models.SentimentResult{}, apperr.InvalidModelOutput("The model returned malformed JSON.", err)
	}

	result, err := raw.toResult()
	if err != nil {
		return models.SentimentResult{}, apperr.InvalidModelOutput("The model response does not match the sentiment schema.", err)
	}
	if err := Validate(result); err != nil {
		return models.SentimentResult{}, apperr.InvalidModelOutput("The model response does not match the sentiment schema.", err)
	}
	return Finalize(result), nil
}

func (r rawResult) toResult() (models.SentimentResult, error) {
	if r.Sentiment == nil {
		return models.SentimentResult{}, fmt.Errorf("missing sentiment")
	}
	if r.Confidence == nil {
		return models.SentimentResult{}, fmt.Errorf("missing confidence")
	}
	if r.Probabilities == nil {
		return models.SentimentResult{}, fmt.Errorf("missing probabilities")
	}

	result := models.SentimentResult{
		Sentiment:     models.SentimentLabel(*r.Sentiment),
		Confidence:    *r.Confidence,
		Probabilities: make([]models.SentimentProbability, 0, len(r.Probabilities)),
	}
	for i, p := range r.Probabilities {
		if p.Name == nil || p.Value == nil {
			return models.SentimentResult{}, fmt.Errorf("probability %d is missing name or value", i)
		}
		result.Probabilities = append(result.Probabilities, models.SentimentProbability{
			Name:  models.SentimentLabel(*p.Name),
			Value: *p.Value,
		})
	}
	return result, nil
}

// Finalize puts a structurally valid result in canonical form: probabilities
// ordered Positive, Negative, Neutral, rescaled to sum to one when they
// drift, and confidence equal to the probability of the label.
func Finalize(r models.SentimentResult) models.SentimentResult {
	values := make(map[models.SentimentLabel]float64, len(r.Probabilities))
	sum := 0.0
	for _, p := range r.Probabilities {
		values[p.Name] = p.Value
		sum += p.Value
	}

	scale := 1.0
	if sum > 0 && math.Abs(sum-1) > sumTolerance {
		scale = 1 / sum
	}

	out := models.SentimentResult{
		Sentiment:     r.Sentiment,
		Probabilities: make([]models.SentimentProbability, 0, len(models.SentimentLabels)),
	}
	for _, label := range models.SentimentLabels {
		out.Probabilities = append(out.Probabilities, models.SentimentProbability{
			Name:  label,
			Value: clampUnit(values[label] * scale),
		})
	}
	if v, ok := out.Probability(r.Sentiment); ok {
		out.Confidence = v
	}
	return out
}

// extractJSONObject strips markdown fences and returns the outermost
// {...} span of s.
func extractJSONObject(s string) (string, bool) {
	cleaned := cleanModelResponse(s)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}

func cleanModelResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	// curly quotes sometimes replace straight ones
	cleaned = strings.ReplaceAll(cleaned, "“", `"`)
	cleaned = strings.ReplaceAll(cleaned, "”", `"`)

	return strings.TrimSpace(cleaned)
}

func inUnitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
