package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"go.uber.org/zap"
)

// ReportService builds aggregate views for the reports screen
type ReportService struct {
	dealRepo    *repository.DealRepository
	expenseRepo *repository.ExpenseRepository
	logger      *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(dealRepo *repository.DealRepository, expenseRepo *repository.ExpenseRepository, logger *zap.Logger) *ReportService {
	return &ReportService{dealRepo: dealRepo, expenseRepo: expenseRepo, logger: logger}
}

// MonthlyRevenue sums won deal values per month for the last `months`
// months, oldest first. Months without wins appear with zero revenue.
// The won timestamp is used when present, otherwise the creation time.
func (s *ReportService) MonthlyRevenue(ctx context.Context, now time.Time, months int) ([]domain.MonthlyRevenueDTO, error) {
	if months <= 0 {
		months = 6
	}

	now = now.UTC()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	deals, err := s.dealRepo.ListWonBetween(ctx, firstMonth, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list won deals: %w", err)
	}

	totals := make(map[string]float64)
	for _, deal := range deals {
		wonAt := deal.CreatedAt
		if deal.WonAt != nil {
			wonAt = *deal.WonAt
		}
		key := wonAt.UTC().Format("2006-01")
		if deal.Value != nil {
			totals[key] += *deal.Value
		}
	}

	report := make([]domain.MonthlyRevenueDTO, 0, months)
	for i := 0; i < months; i++ {
		month := firstMonth.AddDate(0, i, 0)
		key := month.Format("2006-01")
		report = append(report, domain.MonthlyRevenueDTO{
			Month:   key,
			Revenue: totals[key],
		})
	}
	return report, nil
}

// StatusDistribution counts deals per status
func (s *ReportService) StatusDistribution(ctx context.Context) ([]domain.StatusDistributionDTO, error) {
	return s.dealRepo.StatusDistribution(ctx)
}

// ExpensesByCategory sums expenses per category
func (s *ReportService) ExpensesByCategory(ctx context.Context) ([]domain.ExpensesByCategoryDTO, error) {
	return s.expenseRepo.TotalsByCategory(ctx)
}
