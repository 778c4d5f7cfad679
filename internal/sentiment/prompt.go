package sentiment

import "fmt"

const promptInstructions = "You are a sentiment classifier. Reply with a single JSON object and nothing else."

const promptTemplate = `Analyze the sentiment of the following text. The text may be a combination of a social media post and its comments.

Determine if the overall sentiment is Positive, Negative, or Neutral.

Provide a confidence score for your prediction (from 0 to 1). The confidence should be the probability of the predicted sentiment.

Also, provide a breakdown of the probabilities for each sentiment category (Positive, Negative, Neutral). The sum of these probabilities must equal 1.

Respond ONLY with a valid JSON object that matches the specified output schema.

Text to analyze:
'''
%s
'''`

// BuildPrompt embeds text verbatim in the classification prompt.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
