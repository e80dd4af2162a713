package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(ctx context.Context, webhook *domain.Webhook) error {
	return r.db.WithContext(ctx).Create(webhook).Error
}

func (r *WebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	var webhook domain.Webhook
	err := r.db.WithContext(ctx).First(&webhook, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &webhook, nil
}

func (r *WebhookRepository) List(ctx context.Context) ([]domain.Webhook, error) {
	var webhooks []domain.Webhook
	err := r.db.WithContext(ctx).Order("createdat DESC").Find(&webhooks).Error
	return webhooks, err
}

func (r *WebhookRepository) Update(ctx context.Context, webhook *domain.Webhook) error {
	return r.db.WithContext(ctx).Save(webhook).Error
}

func (r *WebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Webhook{}, "id = ?", id).Error
}
