package sentiment

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(stripTags(string(output))), " ")

	return RemoveLinks(plainText)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, " ")
}

// VaderClassifier scores text locally with the VADER lexicon.
type VaderClassifier struct{}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{}
}

func (v *VaderClassifier) Classify(_ context.Context, text string) (models.SentimentResult, error) {
	if err := ValidateInput(text); err != nil {
		return models.SentimentResult{}, err
	}
	return AnalyzeWithVADER(text), nil
}

// AnalyzeWithVADER labels text by its compound score and uses the lexicon's
// positive, negative and neutral proportions as the probabilities.
func AnalyzeWithVADER(text string) models.SentimentResult {
	scores := analyzer.PolarityScores(ConvertMarkdownToText(text))

	label := models.SentimentNeutral
	switch {
	case scores.Compound >= positiveThreshold:
		label = models.SentimentPositive
	case scores.Compound <= negativeThreshold:
		label = models.SentimentNegative
	}

	if scores.Positive+scores.Negative+scores.Neutral <= 0 {
		return models.SentimentResult{
			Sentiment:  models.SentimentNeutral,
			Confidence: 1,
			Probabilities: []models.SentimentProbability{
				{Name: models.SentimentPositive, Value: 0},
				{Name: models.SentimentNegative, Value: 0},
				{Name: models.SentimentNeutral, Value: 1},
			},
		}
	}

	return Finalize(models.SentimentResult{
		Sentiment: label,
		Probabilities: []models.SentimentProbability{
			{Name: models.SentimentPositive, Value: scores.Positive},
			{Name: models.SentimentNegative, Value: scores.Negative},
			{Name: models.SentimentNeutral, Value: scores.Neutral},
		},
	})
}
