package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

type GoalHandler struct {
	goalService *service.GoalService
	logger      *zap.Logger
}

func NewGoalHandler(goalService *service.GoalService, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// @Summary List goals
// @Description List all goals
// @Tags Goals
// @Produce json
// @Success 200 {array} domain.Goal
// @Security BearerAuth
// @Router /goals [get]
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list goals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}
	respondJSON(w, http.StatusOK, goals)
}

// @Summary Create goal
// @Description Create a revenue, deals-won or appointments goal for a user or team
// @Tags Goals
// @Accept json
// @Produce json
// @Param request body domain.CreateGoalRequest true "Goal data"
// @Success 201 {object} domain.Goal
// @Security BearerAuth
// @Router /goals [post]
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create goal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

// @Summary Get goal
// @Description Get a goal
// @Tags Goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} domain.Goal
// @Security BearerAuth
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal ID")
		return
	}

	goal, err := h.goalService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.logger.Error("failed to get goal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// @Summary Goal progress
// @Description Current progress toward a goal
// @Tags Goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} domain.GoalProgressDTO
// @Security BearerAuth
// @Router /goals/{id}/progress [get]
func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal ID")
		return
	}

	progress, err := h.goalService.Progress(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.logger.Error("failed to compute goal progress", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute goal progress")
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

// @Summary Delete goal
// @Description Delete a goal
// @Tags Goals
// @Param id path string true "Goal ID"
// @Success 204
// @Security BearerAuth
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal ID")
		return
	}

	if err := h.goalService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.logger.Error("failed to delete goal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
