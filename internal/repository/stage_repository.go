package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"gorm.io/gorm"
)

type StageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) Create(ctx context.Context, stage *domain.Stage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

func (r *StageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Stage, error) {
	var stage domain.Stage
	err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

// ListByPipeline returns the pipeline's stages in board order
func (r *StageRepository) ListByPipeline(ctx context.Context, pipelineID uuid.UUID) ([]domain.Stage, error) {
	var stages []domain.Stage
	err := r.db.WithContext(ctx).
		Where("pipelineid = ?", pipelineID).
		Order("stageorder ASC").
		Find(&stages).Error
	return stages, err
}

// EntryStage returns the stage with the lowest order in the pipeline, or
// nil when the pipeline has no stages.
func (r *StageRepository) EntryStage(ctx context.Context, pipelineID uuid.UUID) (*domain.Stage, error) {
	var stage domain.Stage
	err := r.db.WithContext(ctx).
		Where("pipelineid = ?", pipelineID).
		Order("stageorder ASC").
		First(&stage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) Update(ctx context.Context, stage *domain.Stage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

func (r *StageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Stage{}, "id = ?", id).Error
}
