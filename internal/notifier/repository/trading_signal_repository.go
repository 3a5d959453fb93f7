package repository

import (
	"context"
	"time"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// TradingSignalRepository is the notifier's view of the signal table:
// pending deliveries, delivery marking, daily summaries, and the outcome
// hook for the external evaluator.
type TradingSignalRepository interface {
	FindUnnotified(ctx context.Context) ([]entity.TradingSignal, error)
	MarkNotified(ctx context.Context, id int64) error
	FindBetween(ctx context.Context, start, end time.Time) ([]entity.TradingSignal, error)
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

// FindUnnotified returns every signal still awaiting delivery, oldest
// first so retries keep their original order.
func (r *tradingSignalRepository) FindUnnotified(ctx context.Context) ([]entity.TradingSignal, error) {
	var signals []entity.TradingSignal
	err := r.db.WithContext(ctx).
		Where("notified = ?", false).
		Order("id ASC").
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}

// MarkNotified flips the delivery flag for one signal.
func (r *tradingSignalRepository) MarkNotified(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.TradingSignal{}).
		Where("id = ?", id).
		Update("notified", true).Error
}

// FindBetween returns the signals created in [start, end), oldest first.
func (r *tradingSignalRepository) FindBetween(ctx context.Context, start, end time.Time) ([]entity.TradingSignal, error) {
	var signals []entity.TradingSignal
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp ASC").
		Find(&signals).Error
	if err != nil {
		return nil, err
	}
	return signals, nil
}

// MarkVerified records the evaluated outcome for one signal.
func (r *tradingSignalRepository) MarkVerified(ctx context.Context, id int64, outcome string) error {
	return r.db.WithContext(ctx).
		Model(&entity.TradingSignal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified": true,
			"outcome":  outcome,
		}).Error
}
