package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/auth"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
	logger         *zap.Logger
}

func NewExpenseHandler(expenseService *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// @Summary List expenses
// @Description List all expenses newest first
// @Tags Expenses
// @Produce json
// @Success 200 {array} domain.Expense
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list expenses", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

// @Summary Record expense
// @Description Record an expense against an existing category
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body domain.CreateExpenseRequest true "Expense data"
// @Success 201 {object} domain.Expense
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())

	expense, err := h.expenseService.Create(r.Context(), &req, userCtx.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Expense category not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to record expense", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to record expense")
		}
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

// @Summary Get expense
// @Description Get an expense with its category
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	expense, err := h.expenseService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Expense not found")
			return
		}
		h.logger.Error("failed to get expense", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get expense")
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// @Summary Delete expense
// @Description Delete an expense
// @Tags Expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	if err := h.expenseService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Expense not found")
			return
		}
		h.logger.Error("failed to delete expense", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary List expense categories
// @Description List all expense categories
// @Tags Expenses
// @Produce json
// @Success 200 {array} domain.ExpenseCategory
// @Security BearerAuth
// @Router /expense-categories [get]
func (h *ExpenseHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.expenseService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list expense categories", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list expense categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// @Summary Create expense category
// @Description Create an expense category
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body domain.CreateExpenseCategoryRequest true "Category data"
// @Success 201 {object} domain.ExpenseCategory
// @Security BearerAuth
// @Router /expense-categories [post]
func (h *ExpenseHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateExpenseCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	category, err := h.expenseService.CreateCategory(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create expense category", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create expense category")
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// @Summary Delete expense category
// @Description Delete an expense category. Locked categories cannot be deleted.
// @Tags Expenses
// @Param id path string true "Category ID"
// @Success 204
// @Security BearerAuth
// @Router /expense-categories/{id} [delete]
func (h *ExpenseHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.expenseService.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Expense category not found")
		case errors.Is(err, service.ErrNotEditable):
			respondWithError(w, http.StatusConflict, "Category is locked and cannot be deleted")
		default:
			h.logger.Error("failed to delete expense category", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to delete expense category")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
