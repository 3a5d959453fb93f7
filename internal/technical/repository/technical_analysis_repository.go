package repository

import (
	"context"

	"stock-signal-pipeline/internal/entity"

	"gorm.io/gorm"
)

// TechnicalAnalysisRepository persists indicator evaluations.
type TechnicalAnalysisRepository interface {
	Create(ctx context.Context, analysis *entity.TechnicalAnalysis) error
}

// NewTechnicalAnalysisRepository creates a new instance of
// TechnicalAnalysisRepository.
func NewTechnicalAnalysisRepository(db *gorm.DB) TechnicalAnalysisRepository {
	return &technicalAnalysisRepository{db: db}
}

type technicalAnalysisRepository struct {
	db *gorm.DB
}

// Create appends one analysis row. The table is append-only; consumers
// read the latest row per symbol.
func (r *technicalAnalysisRepository) Create(ctx context.Context, analysis *entity.TechnicalAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}
