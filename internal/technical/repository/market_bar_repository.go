package repository

import (
	"context"
	"time"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// MarketBarRepository reads the candles written by the external market
// data collector.
type MarketBarRepository interface {
	FindSince(ctx context.Context, symbol string, since time.Time) ([]entity.MarketBar, error)
}

// NewMarketBarRepository creates a new instance of MarketBarRepository.
func NewMarketBarRepository(db *gorm.DB) MarketBarRepository {
	return &marketBarRepository{db: db}
}

type marketBarRepository struct {
	db *gorm.DB
}

// FindSince returns the bars for symbol from since onwards, oldest first.
func (r *marketBarRepository) FindSince(ctx context.Context, symbol string, since time.Time) ([]entity.MarketBar, error) {
	var bars []entity.MarketBar
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND timestamp >= ?", symbol, since).
		Order("timestamp ASC").
		Find(&bars).Error
	if err != nil {
		return nil, err
	}
	return bars, nil
}
