package repository

import (
	"fmt"
)

// BuildSentimentPrompt builds the classification prompt. The model is asked
// for a strict JSON distribution so the response parses like the FinBERT
// endpoint's output.
func BuildSentimentPrompt(text string) string {
	return fmt.Sprintf(`You are a financial news sentiment classifier. Classify the sentiment of the following market news text toward the mentioned company.

Text:
"""
%s
"""

Respond with ONLY a JSON object, no prose and no code fences, of the form:

{
  "negative": {0.0 - 1.0},
  "neutral": {0.0 - 1.0},
  "positive": {0.0 - 1.0}
}

The three values are class probabilities and must sum to 1.0.`, text)
}
