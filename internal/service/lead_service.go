package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/events"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
)

// emailPattern accepts local@domain.tld with no whitespace, the same
// check the public webhook has always applied.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadService turns posted leads into contacts and deals on the sales
// pipeline. Contact creation and deal creation are separate writes; a
// failed deal insert leaves the contact in place for the next attempt.
type LeadService struct {
	contactRepo  *repository.ContactRepository
	pipelineRepo *repository.PipelineRepository
	stageRepo    *repository.StageRepository
	dealRepo     *repository.DealRepository
	publisher    events.Publisher
	logger       *zap.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(
	contactRepo *repository.ContactRepository,
	pipelineRepo *repository.PipelineRepository,
	stageRepo *repository.StageRepository,
	dealRepo *repository.DealRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		contactRepo:  contactRepo,
		pipelineRepo: pipelineRepo,
		stageRepo:    stageRepo,
		dealRepo:     dealRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// LeadResult identifies the deal and contact produced by an ingested lead
type LeadResult struct {
	DealID    uuid.UUID
	ContactID uuid.UUID
}

// SplitName splits a display name on whitespace. The first token becomes
// the first name, the rest joined become the last name. A single token is
// used for both.
func SplitName(name string) (firstName, lastName string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	firstName = parts[0]
	if len(parts) == 1 {
		return firstName, firstName
	}
	return firstName, strings.Join(parts[1:], " ")
}

// ParseLeadValue converts the raw value field to a float. Numbers and
// numeric strings are accepted; anything else yields nil.
func ParseLeadValue(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return &parsed
		}
	}

	return nil
}

// Ingest validates the lead, resolves or creates the contact, and creates
// an open deal on the entry stage of the oldest sales pipeline.
func (s *LeadService) Ingest(ctx context.Context, req *domain.IncomingLeadRequest) (*LeadResult, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, ErrMissingLeadFields
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, ErrInvalidLeadEmail
	}

	firstName, lastName := SplitName(req.Name)

	contact, err := s.contactRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}

	if contact == nil {
		contact = &domain.Contact{
			FirstName: firstName,
			LastName:  lastName,
			Email:     &req.Email,
			IsClient:  false,
		}
		if req.Phone != "" {
			contact.Phone = &req.Phone
		}
		if req.Company != "" {
			contact.Company = &req.Company
		}
		if err := s.contactRepo.Create(ctx, contact); err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
		s.logger.Info("lead contact created",
			zap.String("contact_id", contact.ID.String()),
			zap.String("email", req.Email))
	}

	pipeline, err := s.pipelineRepo.FirstByType(ctx, domain.PipelineTypeSales)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sales pipeline: %w", err)
	}
	if pipeline == nil {
		return nil, ErrNoSalesPipeline
	}

	stage, err := s.stageRepo.EntryStage(ctx, pipeline.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up entry stage: %w", err)
	}
	if stage == nil {
		return nil, ErrPipelineHasNoStages
	}

	title := fmt.Sprintf("Lead: %s %s", firstName, lastName)
	if req.Company != "" {
		title += " - " + req.Company
	}

	deal := &domain.Deal{
		Title:      title,
		Value:      ParseLeadValue(req.Value),
		Status:     domain.DealStatusOpen,
		ContactID:  &contact.ID,
		PipelineID: pipeline.ID,
		StageID:    stage.ID,
	}
	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.logger.Info("lead ingested",
		zap.String("deal_id", deal.ID.String()),
		zap.String("contact_id", contact.ID.String()),
		zap.String("pipeline_id", pipeline.ID.String()),
		zap.String("stage_id", stage.ID.String()))

	if err := s.publisher.Publish(ctx, events.DealEvent{
		Event:      events.EventDealCreated,
		DealID:     deal.ID,
		PipelineID: deal.PipelineID,
		StageID:    deal.StageID,
		Value:      deal.Value,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to publish deal created event", zap.Error(err))
	}

	return &LeadResult{DealID: deal.ID, ContactID: contact.ID}, nil
}
