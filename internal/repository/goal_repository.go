package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"gorm.io/gorm"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.db.WithContext(ctx).First(&goal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) List(ctx context.Context) ([]domain.Goal, error) {
	var goals []domain.Goal
	err := r.db.WithContext(ctx).Order("startdate DESC").Find(&goals).Error
	return goals, err
}

// ListActiveAt returns goals whose window contains the given time
func (r *GoalRepository) ListActiveAt(ctx context.Context, at time.Time) ([]domain.Goal, error) {
	var goals []domain.Goal
	err := r.db.WithContext(ctx).
		Where("startdate <= ? AND enddate >= ?", at, at).
		Order("startdate DESC").
		Find(&goals).Error
	return goals, err
}

func (r *GoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Goal{}, "id = ?", id).Error
}
