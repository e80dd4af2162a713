package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/events"
	"github.com/vendaflow/crm-api/internal/mailer"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DealService manages deal lifecycle: creation, stage movement, winning
// and losing. Last write wins on concurrent moves; callers refetch the
// board after failures.
type DealService struct {
	dealRepo  *repository.DealRepository
	stageRepo *repository.StageRepository
	tagRepo   *repository.TagRepository
	userRepo  *repository.UserRepository
	publisher events.Publisher
	mail      mailer.Mailer
	logger    *zap.Logger
}

// NewDealService creates a new deal service
func NewDealService(
	dealRepo *repository.DealRepository,
	stageRepo *repository.StageRepository,
	tagRepo *repository.TagRepository,
	userRepo *repository.UserRepository,
	publisher events.Publisher,
	mail mailer.Mailer,
	logger *zap.Logger,
) *DealService {
	return &DealService{
		dealRepo:  dealRepo,
		stageRepo: stageRepo,
		tagRepo:   tagRepo,
		userRepo:  userRepo,
		publisher: publisher,
		mail:      mail,
		logger:    logger,
	}
}

// Create creates an open deal after checking the stage belongs to the
// requested pipeline.
func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.Deal, error) {
	stage, err := s.stageRepo.GetByID(ctx, req.StageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if stage.PipelineID != req.PipelineID {
		return nil, ErrStageMismatch
	}

	deal := &domain.Deal{
		Title:      req.Title,
		Value:      req.Value,
		Status:     domain.DealStatusOpen,
		ContactID:  req.ContactID,
		OwnerID:    req.OwnerID,
		PipelineID: req.PipelineID,
		StageID:    req.StageID,
	}
	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.logger.Info("deal created",
		zap.String("deal_id", deal.ID.String()),
		zap.String("pipeline_id", deal.PipelineID.String()))

	s.publish(ctx, events.EventDealCreated, deal)
	return deal, nil
}

// GetByID returns a deal with its contact and tags
func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return deal, nil
}

// List returns deals newest first with optional filters
func (s *DealService) List(ctx context.Context, page, pageSize int, filters *repository.DealFilters) ([]domain.Deal, int64, error) {
	return s.dealRepo.List(ctx, page, pageSize, filters)
}

// Update updates mutable deal fields
func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDealRequest) (*domain.Deal, error) {
	deal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.Value != nil {
		deal.Value = req.Value
	}
	if req.ContactID != nil {
		deal.ContactID = req.ContactID
	}
	if req.OwnerID != nil {
		deal.OwnerID = req.OwnerID
	}

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}
	return deal, nil
}

// MoveDeal moves a deal to another stage of its pipeline. Moving to the
// current stage is a no-op with no write. The target stage must belong to
// the deal's pipeline; closed deals cannot move.
func (s *DealService) MoveDeal(ctx context.Context, dealID, targetStageID uuid.UUID) (*domain.Deal, error) {
	deal, err := s.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.StageID == targetStageID {
		return deal, nil
	}

	if deal.Status.IsTerminal() {
		return nil, ErrDealClosed
	}

	stage, err := s.stageRepo.GetByID(ctx, targetStageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if stage.PipelineID != deal.PipelineID {
		return nil, ErrStageMismatch
	}

	if err := s.dealRepo.UpdateStage(ctx, dealID, targetStageID); err != nil {
		return nil, fmt.Errorf("failed to move deal: %w", err)
	}
	deal.StageID = targetStageID

	s.logger.Info("deal moved",
		zap.String("deal_id", dealID.String()),
		zap.String("stage_id", targetStageID.String()))

	s.publish(ctx, events.EventDealStageChanged, deal)
	return deal, nil
}

// Win closes an open deal as won, notifies the owner and publishes the
// won event.
func (s *DealService) Win(ctx context.Context, dealID uuid.UUID) (*domain.Deal, error) {
	deal, err := s.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status.IsTerminal() {
		return nil, ErrDealClosed
	}

	wonAt := time.Now().UTC()
	if err := s.dealRepo.MarkAsWon(ctx, dealID, wonAt); err != nil {
		return nil, fmt.Errorf("failed to mark deal as won: %w", err)
	}
	deal.Status = domain.DealStatusWon
	deal.WonAt = &wonAt

	s.logger.Info("deal won", zap.String("deal_id", dealID.String()))
	s.publish(ctx, events.EventDealWon, deal)

	if deal.OwnerID != nil {
		if owner, err := s.userRepo.GetByID(ctx, *deal.OwnerID); err == nil {
			if err := s.mail.SendDealWon(owner, deal); err != nil {
				s.logger.Warn("failed to send deal won mail", zap.Error(err))
			}
		}
	}

	return deal, nil
}

// Lose closes an open deal as lost with an optional reason
func (s *DealService) Lose(ctx context.Context, dealID uuid.UUID, reason string) (*domain.Deal, error) {
	deal, err := s.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status.IsTerminal() {
		return nil, ErrDealClosed
	}

	lostAt := time.Now().UTC()
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	if err := s.dealRepo.MarkAsLost(ctx, dealID, lostAt, reasonPtr); err != nil {
		return nil, fmt.Errorf("failed to mark deal as lost: %w", err)
	}
	deal.Status = domain.DealStatusLost
	deal.LostAt = &lostAt
	deal.LostReason = reasonPtr

	s.logger.Info("deal lost", zap.String("deal_id", dealID.String()))
	s.publish(ctx, events.EventDealLost, deal)
	return deal, nil
}

// Delete removes a deal
func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.dealRepo.Delete(ctx, id)
}

// AttachTag attaches a tag to a deal
func (s *DealService) AttachTag(ctx context.Context, dealID, tagID uuid.UUID) error {
	deal, err := s.GetByID(ctx, dealID)
	if err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.dealRepo.AddTag(ctx, deal, tag)
}

// DetachTag removes a tag from a deal
func (s *DealService) DetachTag(ctx context.Context, dealID, tagID uuid.UUID) error {
	deal, err := s.GetByID(ctx, dealID)
	if err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.dealRepo.RemoveTag(ctx, deal, tag)
}

func (s *DealService) publish(ctx context.Context, event string, deal *domain.Deal) {
	err := s.publisher.Publish(ctx, events.DealEvent{
		Event:      event,
		DealID:     deal.ID,
		PipelineID: deal.PipelineID,
		StageID:    deal.StageID,
		Value:      deal.Value,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to publish deal event",
			zap.String("event", event),
			zap.Error(err))
	}
}
