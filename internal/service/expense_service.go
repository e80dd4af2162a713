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

// ExpenseService manages expenses and their categories
type ExpenseService struct {
	expenseRepo *repository.ExpenseRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo *repository.ExpenseRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, logger: logger}
}

// Create records an expense against an existing category
func (s *ExpenseService) Create(ctx context.Context, req *domain.CreateExpenseRequest, recordedBy uuid.UUID) (*domain.Expense, error) {
	if _, err := s.expenseRepo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense date", ErrInvalidInput)
	}

	expense := &domain.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		ExpenseDate: expenseDate,
		RecordedBy:  recordedBy,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.Float64("amount", expense.Amount))
	return expense, nil
}

// GetByID returns an expense with its category
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

// List returns all expenses newest first
func (s *ExpenseService) List(ctx context.Context) ([]domain.Expense, error) {
	return s.expenseRepo.List(ctx)
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}

// CreateCategory creates an expense category
func (s *ExpenseService) CreateCategory(ctx context.Context, req *domain.CreateExpenseCategoryRequest) (*domain.ExpenseCategory, error) {
	category := &domain.ExpenseCategory{
		Name:       req.Name,
		IsEditable: true,
	}
	if err := s.expenseRepo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create expense category: %w", err)
	}
	return category, nil
}

// ListCategories returns all expense categories
func (s *ExpenseService) ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	return s.expenseRepo.ListCategories(ctx)
}

// DeleteCategory removes a category. Locked categories cannot be deleted.
func (s *ExpenseService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.expenseRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !category.IsEditable {
		return ErrNotEditable
	}
	return s.expenseRepo.DeleteCategory(ctx, id)
}
