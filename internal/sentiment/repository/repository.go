package repository

import (
	"context"

	"stock-signal-pipeline/internal/sentiment/dto"
)

// SentimentAnalyzerRepository is the scoring collaborator: given one news
// item's text it returns a per-class sentiment distribution. The news id
// keys the provider-side result cache so re-scoring an item after a crash
// does not re-spend quota.
type SentimentAnalyzerRepository interface {
	Score(ctx context.Context, newsID int64, text string) (*dto.SentimentScore, error)
}
