package entity

import (
	"time"
)

// NewsItem represents one collected news article for a tracked symbol.
// Rows are written by the external collector; this service only reads them.
type NewsItem struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;uniqueIndex:idx_news_dedup,priority:1" json:"timestamp"`
	Symbol    string    `gorm:"not null;uniqueIndex:idx_news_dedup,priority:2" json:"symbol"`
	Title     string    `gorm:"not null" json:"title"`
	Summary   string    `json:"summary"`
	URL       string    `gorm:"uniqueIndex:idx_news_dedup,priority:3" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "news_data"
}
