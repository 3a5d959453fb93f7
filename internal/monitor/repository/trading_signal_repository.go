package repository

import (
	"context"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// TradingSignalRepository is the ops API's view of the signal table:
// recent signals for inspection and the outcome hook the external
// evaluator posts through.
type TradingSignalRepository interface {
	FindRecent(ctx context.Context, limit int) ([]entity.TradingSignal, error)
	MarkVerified(ctx context.Context, id int64, outcome string) error
}

// NewTradingSignalRepository creates a new instance of
// TradingSignalRepository.
func NewTradingSignalRepository(db *gorm.DB) TradingSignalRepository {
	return &tradingSignalRepository{db: db}
}

type tradingSignalRepository struct {
	db *gorm.DB
}

// FindRecent returns the newest limit signals, newest first.
func (r *tradingSignalRepository) FindRecent(ctx context.Context, limit int) ([]entity.TradingSignal, error) {
	var signals []entity.TradingSignal
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}

// MarkVerified records the evaluated outcome for one signal. It reports
// gorm.ErrRecordNotFound when the id does not exist.
func (r *tradingSignalRepository) MarkVerified(ctx context.Context, id int64, outcome string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.TradingSignal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified": true,
			"outcome":  outcome,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
