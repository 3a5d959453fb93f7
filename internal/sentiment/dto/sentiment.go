package dto

import (
	"stock-signal-pipeline/internal/entity"
)

// SentimentScore is the per-class distribution returned by a scoring
// provider for one piece of text. The three class scores sum to ~1.0.
type SentimentScore struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`

	Dominant   string  `json:"dominant"`
	Confidence float64 `json:"confidence"`
}

// Finalize fills Dominant and Confidence from the class scores. The argmax
// walks the classes in a fixed (negative, neutral, positive) order so ties
// resolve the same way everywhere.
func (s *SentimentScore) Finalize() {
	s.Dominant = entity.SentimentNegative
	s.Confidence = s.Negative
	if s.Neutral > s.Confidence {
		s.Dominant = entity.SentimentNeutral
		s.Confidence = s.Neutral
	}
	if s.Positive > s.Confidence {
		s.Dominant = entity.SentimentPositive
		s.Confidence = s.Positive
	}
}

// Normalize rescales the class scores to sum to 1.0 when a provider hands
// back an unnormalized distribution. A zero-sum distribution is left alone.
func (s *SentimentScore) Normalize() {
	sum := s.Negative + s.Neutral + s.Positive
	if sum <= 0 {
		return
	}
	s.Negative /= sum
	s.Neutral /= sum
	s.Positive /= sum
}

// AverageScores averages a set of chunk distributions into one score and
// finalizes it. Used when long text is scored chunk by chunk.
func AverageScores(scores []SentimentScore) SentimentScore {
	if len(scores) == 0 {
		return SentimentScore{Neutral: 1, Dominant: entity.SentimentNeutral, Confidence: 1}
	}
	var out SentimentScore
	for _, s := range scores {
		out.Negative += s.Negative
		out.Neutral += s.Neutral
		out.Positive += s.Positive
	}
	n := float64(len(scores))
	out.Negative /= n
	out.Neutral /= n
	out.Positive /= n
	out.Finalize()
	return out
}
