package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&expense, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *ExpenseRepository) List(ctx context.Context) ([]domain.Expense, error) {
	var expenses []domain.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("expensedate DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Expense{}, "id = ?", id).Error
}

// TotalsByCategory sums expense amounts grouped by category name
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context) ([]domain.ExpensesByCategoryDTO, error) {
	var rows []domain.ExpensesByCategoryDTO
	err := r.db.WithContext(ctx).Model(&domain.Expense{}).
		Select("expensecategories.categoryname as category, SUM(expenses.amount) as total").
		Joins("JOIN expensecategories ON expensecategories.id = expenses.categoryid").
		Group("expensecategories.categoryname").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

// Category methods

func (r *ExpenseRepository) CreateCategory(ctx context.Context, category *domain.ExpenseCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *ExpenseRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.ExpenseCategory, error) {
	var category domain.ExpenseCategory
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ExpenseRepository) ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	var categories []domain.ExpenseCategory
	err := r.db.WithContext(ctx).Order("categoryname ASC").Find(&categories).Error
	return categories, err
}

func (r *ExpenseRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ExpenseCategory{}, "id = ?", id).Error
}
