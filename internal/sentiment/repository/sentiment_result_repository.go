package repository

import (
	"context"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SentimentResultRepository persists scored sentiment distributions.
type SentimentResultRepository interface {
	Upsert(ctx context.Context, result *entity.SentimentResult) error
}

// NewSentimentResultRepository creates a new instance of
// SentimentResultRepository.
func NewSentimentResultRepository(db *gorm.DB) SentimentResultRepository {
	return &sentimentResultRepository{db: db}
}

type sentimentResultRepository struct {
	db *gorm.DB
}

// Upsert writes the result, replacing any previous score for the same news
// id. Re-scoring after a crash between result write and checkpoint write
// must land on the same row.
func (r *sentimentResultRepository) Upsert(ctx context.Context, result *entity.SentimentResult) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "news_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"symbol", "negative", "neutral", "positive",
				"dominant_sentiment", "confidence", "timestamp",
			}),
		}).
		Create(result).Error
}
