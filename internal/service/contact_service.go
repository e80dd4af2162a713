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

// ContactService manages contacts
type ContactService struct {
	contactRepo *repository.ContactRepository
	dealRepo    *repository.DealRepository
	logger      *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(
	contactRepo *repository.ContactRepository,
	dealRepo *repository.DealRepository,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		dealRepo:    dealRepo,
		logger:      logger,
	}
}

// Create creates a contact
func (s *ContactService) Create(ctx context.Context, req *domain.CreateContactRequest, createdBy *uuid.UUID) (*domain.Contact, error) {
	contact := &domain.Contact{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		IsClient:   req.IsClient,
		ImportedBy: createdBy,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info("contact created", zap.String("contact_id", contact.ID.String()))
	return contact, nil
}

// GetByID returns a contact
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

// List returns contacts newest first
func (s *ContactService) List(ctx context.Context, page, pageSize int) ([]domain.Contact, int64, error) {
	return s.contactRepo.List(ctx, page, pageSize)
}

// Search searches contacts by name or email
func (s *ContactService) Search(ctx context.Context, query string, limit int) ([]domain.Contact, error) {
	return s.contactRepo.Search(ctx, query, limit)
}

// Update updates a contact
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	contact, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}
	if req.Email != nil {
		contact.Email = req.Email
	}
	if req.Phone != nil {
		contact.Phone = req.Phone
	}
	if req.Company != nil {
		contact.Company = req.Company
	}
	if req.IsClient != nil {
		contact.IsClient = *req.IsClient
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, id)
}

// Deals returns the contact's deals newest first
func (s *ContactService) Deals(ctx context.Context, contactID uuid.UUID) ([]domain.Deal, error) {
	if _, err := s.GetByID(ctx, contactID); err != nil {
		return nil, err
	}
	deals, _, err := s.dealRepo.List(ctx, 1, 100, &repository.DealFilters{ContactID: &contactID})
	return deals, err
}
