package entity

import (
	"time"
)

// Sentiment class labels produced by the scoring collaborator.
const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// SentimentResult holds the per-class sentiment distribution for one news
// item. Keyed by news id so re-scoring the same item is an upsert, never a
// duplicate.
type SentimentResult struct {
	NewsID            int64     `gorm:"primaryKey" json:"news_id"`
	Symbol            string    `gorm:"not null;index:idx_sentiment_symbol_ts,priority:1" json:"symbol"`
	Negative          float64   `json:"negative"`
	Neutral           float64   `json:"neutral"`
	Positive          float64   `json:"positive"`
	DominantSentiment string    `json:"dominant_sentiment"`
	Confidence        float64   `json:"confidence"`
	Timestamp         time.Time `gorm:"index:idx_sentiment_symbol_ts,priority:2,sort:desc" json:"timestamp"`

	// Populated by the recent-sentiment join query, not a column.
	Title string `gorm:"-" json:"title,omitempty"`
}

// TableName specifies the table name for the SentimentResult model.
func (SentimentResult) TableName() string {
	return "sentiment_results"
}
