package repository

import (
	"context"
	"errors"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// SystemStatusRepository persists and serves supervisor snapshots, and
// reports the store's own size.
type SystemStatusRepository interface {
	Create(ctx context.Context, snapshot *entity.SystemStatusSnapshot) error
	FindLatest(ctx context.Context) (*entity.SystemStatusSnapshot, error)
	FindRecent(ctx context.Context, limit int) ([]entity.SystemStatusSnapshot, error)
	DatabaseSize(ctx context.Context) (int64, error)
}

// NewSystemStatusRepository creates a new instance of
// SystemStatusRepository.
func NewSystemStatusRepository(db *gorm.DB) SystemStatusRepository {
	return &systemStatusRepository{db: db}
}

type systemStatusRepository struct {
	db *gorm.DB
}

// Create appends one snapshot row.
func (r *systemStatusRepository) Create(ctx context.Context, snapshot *entity.SystemStatusSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// FindLatest returns the newest snapshot, or nil when none exist yet.
func (r *systemStatusRepository) FindLatest(ctx context.Context) (*entity.SystemStatusSnapshot, error) {
	var snapshot entity.SystemStatusSnapshot
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindRecent returns the newest limit snapshots, newest first.
func (r *systemStatusRepository) FindRecent(ctx context.Context, limit int) ([]entity.SystemStatusSnapshot, error) {
	var snapshots []entity.SystemStatusSnapshot
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// DatabaseSize reports the on-disk size of the connected database in
// bytes.
func (r *systemStatusRepository) DatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	err := r.db.WithContext(ctx).
		Raw("SELECT pg_database_size(current_database())").
		Scan(&size).Error
	if err != nil {
		return 0, err
	}
	return size, nil
}
