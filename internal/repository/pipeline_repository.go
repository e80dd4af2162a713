package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"gorm.io/gorm"
)

type PipelineRepository struct {
	db *gorm.DB
}

func NewPipelineRepository(db *gorm.DB) *PipelineRepository {
	return &PipelineRepository{db: db}
}

func (r *PipelineRepository) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	return r.db.WithContext(ctx).Create(pipeline).Error
}

func (r *PipelineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pipeline, error) {
	var pipeline domain.Pipeline
	err := r.db.WithContext(ctx).First(&pipeline, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pipeline, nil
}

// List returns all pipelines ordered by creation time, stages preloaded
// in board order.
func (r *PipelineRepository) List(ctx context.Context) ([]domain.Pipeline, error) {
	var pipelines []domain.Pipeline
	err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("stageorder ASC")
		}).
		Order("createdat ASC").
		Find(&pipelines).Error
	return pipelines, err
}

// FirstByType returns the oldest pipeline of the given type, or nil when
// none exists. Lead ingestion uses this to find the sales pipeline.
func (r *PipelineRepository) FirstByType(ctx context.Context, pipelineType domain.PipelineType) (*domain.Pipeline, error) {
	var pipeline domain.Pipeline
	err := r.db.WithContext(ctx).
		Where("pipelinetype = ?", pipelineType).
		Order("createdat ASC").
		First(&pipeline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pipeline, nil
}

func (r *PipelineRepository) Update(ctx context.Context, pipeline *domain.Pipeline) error {
	return r.db.WithContext(ctx).Save(pipeline).Error
}

func (r *PipelineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Pipeline{}, "id = ?", id).Error
}
