package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// SentimentLabels is the closed label set in canonical order.
var SentimentLabels = []SentimentLabel{SentimentPositive, SentimentNegative, SentimentNeutral}

func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

type SentimentProbability struct {
	Name  SentimentLabel `json:"name" jsonschema:"required,description=Sentiment class"`
	Value float64        `json:"value" jsonschema:"required,minimum=0,maximum=1,description=Probability of the class from 0 to 1"`
}

type SentimentResult struct {
	Sentiment     SentimentLabel         `json:"sentiment" jsonschema:"required,description=The overall sentiment of the text."`
	Confidence    float64                `json:"confidence" jsonschema:"required,minimum=0,maximum=1,description=The confidence score for the overall sentiment from 0 to 1."`
	Probabilities []SentimentProbability `json:"probabilities" jsonschema:"required,minItems=3,maxItems=3,description=Probabilities for each sentiment type (Positive Negative Neutral)."`
}

// Probability returns the value of the entry named label.
func (r SentimentResult) Probability(label SentimentLabel) (float64, bool) {
	for _, p := range r.Probabilities {
		if p.Name == label {
			return p.Value, true
		}
	}
	return 0, false
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
