package repository

import (
	"context"
	"errors"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// TechnicalAnalysisRepository reads indicator rows for the fusion engine.
type TechnicalAnalysisRepository interface {
	FindLatestBySymbol(ctx context.Context, symbol string) (*entity.TechnicalAnalysis, error)
}

// NewTechnicalAnalysisRepository creates a new instance of
// TechnicalAnalysisRepository.
func NewTechnicalAnalysisRepository(db *gorm.DB) TechnicalAnalysisRepository {
	return &technicalAnalysisRepository{db: db}
}

type technicalAnalysisRepository struct {
	db *gorm.DB
}

// FindLatestBySymbol returns the newest analysis row for symbol, or nil
// when the symbol has never been analyzed.
func (r *technicalAnalysisRepository) FindLatestBySymbol(ctx context.Context, symbol string) (*entity.TechnicalAnalysis, error) {
	var analysis entity.TechnicalAnalysis
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC").
		First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
