package repository

import (
	"context"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// SentimentResultRepository reads scored sentiment for the fusion engine.
type SentimentResultRepository interface {
	FindRecentBySymbol(ctx context.Context, symbol string, limit int) ([]entity.SentimentResult, error)
}

// NewSentimentResultRepository creates a new instance of
// SentimentResultRepository.
func NewSentimentResultRepository(db *gorm.DB) SentimentResultRepository {
	return &sentimentResultRepository{db: db}
}

type sentimentResultRepository struct {
	db *gorm.DB
}

// FindRecentBySymbol returns the newest limit results for symbol, newest
// first, with each row's news headline joined in for the reason string.
func (r *sentimentResultRepository) FindRecentBySymbol(ctx context.Context, symbol string, limit int) ([]entity.SentimentResult, error) {
	var results []entity.SentimentResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			sr.news_id,
			sr.symbol,
			sr.negative,
			sr.neutral,
			sr.positive,
			sr.dominant_sentiment,
			sr.confidence,
			sr.timestamp,
			nd.title
		FROM sentiment_results AS sr
		JOIN news_data AS nd ON nd.id = sr.news_id
		WHERE sr.symbol = ?
		ORDER BY sr.timestamp DESC
		LIMIT ?`, symbol, limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
