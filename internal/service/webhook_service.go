package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebhookService manages inbound webhook configurations. Target URLs are
// derived from the server's base URL so integrators always see where to
// post.
type WebhookService struct {
	webhookRepo  *repository.WebhookRepository
	pipelineRepo *repository.PipelineRepository
	baseURL      string
	logger       *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	webhookRepo *repository.WebhookRepository,
	pipelineRepo *repository.PipelineRepository,
	baseURL string,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		webhookRepo:  webhookRepo,
		pipelineRepo: pipelineRepo,
		baseURL:      strings.TrimRight(baseURL, "/"),
		logger:       logger,
	}
}

// Create registers a webhook configuration
func (s *WebhookService) Create(ctx context.Context, req *domain.CreateWebhookRequest) (*domain.Webhook, error) {
	if req.LinkedPipelineID != nil {
		if _, err := s.pipelineRepo.GetByID(ctx, *req.LinkedPipelineID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	webhook := &domain.Webhook{
		Name:             req.Name,
		TargetURL:        s.baseURL + "/webhooks/incoming-lead",
		Event:            req.Event,
		LinkedPipelineID: req.LinkedPipelineID,
		IsActive:         true,
	}
	if err := s.webhookRepo.Create(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}

	s.logger.Info("webhook registered",
		zap.String("webhook_id", webhook.ID.String()),
		zap.String("event", webhook.Event))
	return webhook, nil
}

// GetByID returns a webhook configuration
func (s *WebhookService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	webhook, err := s.webhookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return webhook, nil
}

// List returns all webhook configurations
func (s *WebhookService) List(ctx context.Context) ([]domain.Webhook, error) {
	return s.webhookRepo.List(ctx)
}

// Update renames or toggles a webhook configuration
func (s *WebhookService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWebhookRequest) (*domain.Webhook, error) {
	webhook, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		webhook.Name = *req.Name
	}
	if req.IsActive != nil {
		webhook.IsActive = *req.IsActive
	}

	if err := s.webhookRepo.Update(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	return webhook, nil
}

// Delete removes a webhook configuration
func (s *WebhookService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.webhookRepo.Delete(ctx, id)
}
