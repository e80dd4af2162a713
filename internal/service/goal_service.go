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

// GoalService manages sales goals and their progress
type GoalService struct {
	goalRepo *repository.GoalRepository
	dealRepo *repository.DealRepository
	logger   *zap.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo *repository.GoalRepository, dealRepo *repository.DealRepository, logger *zap.Logger) *GoalService {
	return &GoalService{goalRepo: goalRepo, dealRepo: dealRepo, logger: logger}
}

// Create creates a goal
func (s *GoalService) Create(ctx context.Context, req *domain.CreateGoalRequest) (*domain.Goal, error) {
	if !req.Metric.IsValid() {
		return nil, fmt.Errorf("%w: unknown goal metric %q", ErrInvalidInput, req.Metric)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", ErrInvalidInput)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	goal := &domain.Goal{
		Metric:      req.Metric,
		TargetValue: req.TargetValue,
		TargetUser:  req.TargetUser,
		TargetTeam:  req.TargetTeam,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.logger.Info("goal created",
		zap.String("goal_id", goal.ID.String()),
		zap.String("metric", string(goal.Metric)))
	return goal, nil
}

// GetByID returns a goal
func (s *GoalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

// List returns all goals
func (s *GoalService) List(ctx context.Context) ([]domain.Goal, error) {
	return s.goalRepo.List(ctx)
}

// Delete removes a goal
func (s *GoalService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.goalRepo.Delete(ctx, id)
}

// Progress computes current progress toward a goal. Revenue goals sum
// won deal values inside the window; deals-won goals count them. The
// end date is inclusive. Appointment goals have no data source and
// always report zero progress.
func (s *GoalService) Progress(ctx context.Context, id uuid.UUID) (*domain.GoalProgressDTO, error) {
	goal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.progressFor(ctx, goal)
}

// ActiveProgress returns progress for all goals active at the given time
func (s *GoalService) ActiveProgress(ctx context.Context, at time.Time) ([]domain.GoalProgressDTO, error) {
	goals, err := s.goalRepo.ListActiveAt(ctx, at)
	if err != nil {
		return nil, err
	}

	progress := make([]domain.GoalProgressDTO, 0, len(goals))
	for i := range goals {
		p, err := s.progressFor(ctx, &goals[i])
		if err != nil {
			return nil, err
		}
		progress = append(progress, *p)
	}
	return progress, nil
}

func (s *GoalService) progressFor(ctx context.Context, goal *domain.Goal) (*domain.GoalProgressDTO, error) {
	scope := &repository.GoalScope{
		OwnerID: goal.TargetUser,
		TeamID:  goal.TargetTeam,
	}
	from := goal.StartDate
	to := goal.EndDate.AddDate(0, 0, 1)

	var current float64
	switch goal.Metric {
	case domain.GoalMetricRevenue:
		sum, err := s.dealRepo.SumWonValueScoped(ctx, from, to, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to sum won deals: %w", err)
		}
		current = sum
	case domain.GoalMetricDealsWon:
		count, err := s.dealRepo.CountWonScoped(ctx, from, to, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to count won deals: %w", err)
		}
		current = float64(count)
	case domain.GoalMetricAppointments:
		current = 0
	}

	percent := 0.0
	if goal.TargetValue > 0 {
		percent = current / goal.TargetValue * 100
	}

	return &domain.GoalProgressDTO{
		GoalID:       goal.ID,
		Metric:       goal.Metric,
		TargetValue:  goal.TargetValue,
		CurrentValue: current,
		Percent:      percent,
	}, nil
}
