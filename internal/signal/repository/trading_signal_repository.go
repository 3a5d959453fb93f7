package repository

import (
	"context"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// TradingSignalRepository persists fused signals.
type TradingSignalRepository interface {
	Create(ctx context.Context, signal *entity.TradingSignal) error
}

// NewTradingSignalRepository creates a new instance of
// TradingSignalRepository.
func NewTradingSignalRepository(db *gorm.DB) TradingSignalRepository {
	return &tradingSignalRepository{db: db}
}

type tradingSignalRepository struct {
	db *gorm.DB
}

// Create saves a fused trading signal.
func (r *tradingSignalRepository) Create(ctx context.Context, signal *entity.TradingSignal) error {
	return r.db.WithContext(ctx).Create(signal).Error
}
