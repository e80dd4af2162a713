package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PipelineService manages pipelines, stages and the kanban board view
type PipelineService struct {
	pipelineRepo *repository.PipelineRepository
	stageRepo    *repository.StageRepository
	dealRepo     *repository.DealRepository
	logger       *zap.Logger
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(
	pipelineRepo *repository.PipelineRepository,
	stageRepo *repository.StageRepository,
	dealRepo *repository.DealRepository,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		pipelineRepo: pipelineRepo,
		stageRepo:    stageRepo,
		dealRepo:     dealRepo,
		logger:       logger,
	}
}

// Board assembles all pipelines with their stages in order and each
// stage's open deals with contact display fields. Stages without deals
// appear as empty columns.
func (s *PipelineService) Board(ctx context.Context) ([]domain.BoardPipelineDTO, error) {
	pipelines, err := s.pipelineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	board := make([]domain.BoardPipelineDTO, 0, len(pipelines))
	for _, pipeline := range pipelines {
		deals, err := s.dealRepo.ListOpenByPipeline(ctx, pipeline.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list deals for pipeline %s: %w", pipeline.ID, err)
		}

		dealsByStage := make(map[uuid.UUID][]domain.BoardDealDTO)
		for _, deal := range deals {
			card := domain.BoardDealDTO{
				ID:        deal.ID,
				Title:     deal.Title,
				Value:     deal.Value,
				Status:    deal.Status,
				ContactID: deal.ContactID,
				CreatedAt: deal.CreatedAt.UTC().Format(time.RFC3339),
			}
			if deal.Contact != nil {
				card.ContactName = deal.Contact.FullName()
				if deal.Contact.Company != nil {
					card.Company = *deal.Contact.Company
				}
			}
			dealsByStage[deal.StageID] = append(dealsByStage[deal.StageID], card)
		}

		stages := make([]domain.BoardStageDTO, 0, len(pipeline.Stages))
		for _, stage := range pipeline.Stages {
			cards := dealsByStage[stage.ID]
			if cards == nil {
				cards = []domain.BoardDealDTO{}
			}
			stages = append(stages, domain.BoardStageDTO{
				ID:    stage.ID,
				Name:  stage.Name,
				Order: stage.Order,
				Deals: cards,
			})
		}

		board = append(board, domain.BoardPipelineDTO{
			ID:         pipeline.ID,
			Name:       pipeline.Name,
			Type:       pipeline.Type,
			IsEditable: pipeline.IsEditable,
			Stages:     stages,
		})
	}

	return board, nil
}

// Create creates a pipeline with its initial stages
func (s *PipelineService) Create(ctx context.Context, req *domain.CreatePipelineRequest) (*domain.Pipeline, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown pipeline type %q", ErrInvalidInput, req.Type)
	}

	pipeline := &domain.Pipeline{
		Name:       req.Name,
		Type:       req.Type,
		IsEditable: true,
	}
	for _, st := range req.Stages {
		pipeline.Stages = append(pipeline.Stages, domain.Stage{
			Name:  st.Name,
			Order: st.Order,
		})
	}

	if err := s.pipelineRepo.Create(ctx, pipeline); err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	s.logger.Info("pipeline created",
		zap.String("pipeline_id", pipeline.ID.String()),
		zap.String("type", string(pipeline.Type)))
	return pipeline, nil
}

// List returns all pipelines with stages in board order
func (s *PipelineService) List(ctx context.Context) ([]domain.Pipeline, error) {
	return s.pipelineRepo.List(ctx)
}

// GetByID returns a pipeline with its stages
func (s *PipelineService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pipeline, error) {
	pipeline, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	stages, err := s.stageRepo.ListByPipeline(ctx, id)
	if err != nil {
		return nil, err
	}
	pipeline.Stages = stages
	return pipeline, nil
}

// Rename renames a pipeline. Locked pipelines cannot be renamed.
func (s *PipelineService) Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Pipeline, error) {
	pipeline, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !pipeline.IsEditable {
		return nil, ErrNotEditable
	}

	pipeline.Name = name
	if err := s.pipelineRepo.Update(ctx, pipeline); err != nil {
		return nil, fmt.Errorf("failed to update pipeline: %w", err)
	}
	return pipeline, nil
}

// Delete removes a pipeline and its stages. Locked pipelines cannot be
// deleted.
func (s *PipelineService) Delete(ctx context.Context, id uuid.UUID) error {
	pipeline, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !pipeline.IsEditable {
		return ErrNotEditable
	}
	return s.pipelineRepo.Delete(ctx, id)
}

// AddStage appends a stage to a pipeline
func (s *PipelineService) AddStage(ctx context.Context, pipelineID uuid.UUID, req *domain.CreateStageRequest) (*domain.Stage, error) {
	if _, err := s.pipelineRepo.GetByID(ctx, pipelineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stage := &domain.Stage{
		Name:       req.Name,
		Order:      req.Order,
		PipelineID: pipelineID,
	}
	if err := s.stageRepo.Create(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}
	return stage, nil
}

// UpdateStage renames or reorders a stage
func (s *PipelineService) UpdateStage(ctx context.Context, stageID uuid.UUID, req *domain.UpdateStageRequest) (*domain.Stage, error) {
	stage, err := s.stageRepo.GetByID(ctx, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		stage.Name = *req.Name
	}
	if req.Order != nil {
		stage.Order = *req.Order
	}
	if err := s.stageRepo.Update(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	return stage, nil
}

// DeleteStage removes a stage
func (s *PipelineService) DeleteStage(ctx context.Context, stageID uuid.UUID) error {
	if _, err := s.stageRepo.GetByID(ctx, stageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.stageRepo.Delete(ctx, stageID)
}
