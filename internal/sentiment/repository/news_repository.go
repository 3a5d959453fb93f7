package repository

import (
	"context"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// NewsRepository reads the collected news the processor has not scored yet.
type NewsRepository interface {
	FindUnprocessed(ctx context.Context, afterID int64, limit int) ([]entity.NewsItem, error)
}

// NewNewsRepository creates a new instance of NewsRepository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *gorm.DB
}

// FindUnprocessed returns up to limit items with id greater than afterID in
// ascending id order, so batch consumption is resumable from a checkpoint.
func (r *newsRepository) FindUnprocessed(ctx context.Context, afterID int64, limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
