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

// TagService manages deal tags
type TagService struct {
	tagRepo *repository.TagRepository
	logger  *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(tagRepo *repository.TagRepository, logger *zap.Logger) *TagService {
	return &TagService{tagRepo: tagRepo, logger: logger}
}

// Create creates a tag
func (s *TagService) Create(ctx context.Context, req *domain.CreateTagRequest) (*domain.Tag, error) {
	tag := &domain.Tag{
		Name:  req.Name,
		Color: req.Color,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// List returns all tags
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	return s.tagRepo.List(ctx)
}

// Delete removes a tag
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tagRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.tagRepo.Delete(ctx, id)
}
