package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService aggregates month-over-month sales numbers
type DashboardService struct {
	dealRepo    *repository.DealRepository
	contactRepo *repository.ContactRepository
	goalService *GoalService
	logger      *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	dealRepo *repository.DealRepository,
	contactRepo *repository.ContactRepository,
	goalService *GoalService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dealRepo:    dealRepo,
		contactRepo: contactRepo,
		goalService: goalService,
		logger:      logger,
	}
}

// monthWindow returns the UTC start of the month containing t and the
// start of the following month.
func monthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// growth returns the percentage change from previous to current. A zero
// previous value reports 100% when anything was gained, else 0.
func growth(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// Stats computes the current month's leads, conversions and revenue with
// growth against the previous month.
func (s *DashboardService) Stats(ctx context.Context, now time.Time) (*domain.DashboardStatsDTO, error) {
	curFrom, curTo := monthWindow(now)
	prevFrom, prevTo := monthWindow(curFrom.AddDate(0, 0, -1))

	leads, err := s.dealRepo.CountCreatedBetween(ctx, curFrom, curTo)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	prevLeads, err := s.dealRepo.CountCreatedBetween(ctx, prevFrom, prevTo)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous leads: %w", err)
	}

	conversions, err := s.dealRepo.CountWonBetween(ctx, curFrom, curTo)
	if err != nil {
		return nil, fmt.Errorf("failed to count conversions: %w", err)
	}
	prevConversions, err := s.dealRepo.CountWonBetween(ctx, prevFrom, prevTo)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous conversions: %w", err)
	}

	revenue, err := s.dealRepo.SumWonValueBetween(ctx, curFrom, curTo)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	prevRevenue, err := s.dealRepo.SumWonValueBetween(ctx, prevFrom, prevTo)
	if err != nil {
		return nil, fmt.Errorf("failed to sum previous revenue: %w", err)
	}

	conversionRate := 0.0
	if leads > 0 {
		conversionRate = float64(conversions) / float64(leads) * 100
	}

	return &domain.DashboardStatsDTO{
		TotalLeads:        leads,
		Conversions:       conversions,
		Revenue:           revenue,
		ConversionRate:    conversionRate,
		LeadsGrowth:       growth(float64(leads), float64(prevLeads)),
		ConversionsGrowth: growth(float64(conversions), float64(prevConversions)),
		RevenueGrowth:     growth(revenue, prevRevenue),
	}, nil
}

// RecentDeals returns the latest deals with contact names for the
// dashboard feed.
func (s *DashboardService) RecentDeals(ctx context.Context, limit int) ([]domain.RecentDealDTO, error) {
	deals, err := s.dealRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent deals: %w", err)
	}

	rows := make([]domain.RecentDealDTO, 0, len(deals))
	for _, deal := range deals {
		row := domain.RecentDealDTO{
			ID:        deal.ID,
			Title:     deal.Title,
			Value:     deal.Value,
			Status:    deal.Status,
			CreatedAt: deal.CreatedAt.UTC().Format(time.RFC3339),
		}
		if deal.Contact != nil {
			row.ContactName = deal.Contact.FullName()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ActiveGoals returns progress for goals active right now
func (s *DashboardService) ActiveGoals(ctx context.Context) ([]domain.GoalProgressDTO, error) {
	return s.goalService.ActiveProgress(ctx, time.Now().UTC())
}
