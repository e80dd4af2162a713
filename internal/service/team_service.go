package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TeamService manages sales teams
type TeamService struct {
	teamRepo *repository.TeamRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

// NewTeamService creates a new team service
func NewTeamService(teamRepo *repository.TeamRepository, userRepo *repository.UserRepository, logger *zap.Logger) *TeamService {
	return &TeamService{teamRepo: teamRepo, userRepo: userRepo, logger: logger}
}

// Create creates a team
func (s *TeamService) Create(ctx context.Context, req *domain.CreateTeamRequest) (*domain.Team, error) {
	team := &domain.Team{
		Name:    req.Name,
		OwnerID: req.OwnerID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info("team created", zap.String("team_id", team.ID.String()))
	return team, nil
}

// GetByID returns a team
func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

// List returns all teams
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	return s.teamRepo.List(ctx)
}

// Members returns the team's users
func (s *TeamService) Members(ctx context.Context, teamID uuid.UUID) ([]domain.User, error) {
	if _, err := s.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.userRepo.ListByTeam(ctx, teamID)
}

// Delete removes a team
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.teamRepo.Delete(ctx, id)
}
