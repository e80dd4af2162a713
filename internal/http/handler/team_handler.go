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

type TeamHandler struct {
	teamService *service.TeamService
	logger      *zap.Logger
}

func NewTeamHandler(teamService *service.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// @Summary List teams
// @Description List all teams
// @Tags Teams
// @Produce json
// @Success 200 {array} domain.Team
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list teams", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list teams")
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

// @Summary Create team
// @Description Create a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body domain.CreateTeamRequest true "Team data"
// @Success 201 {object} domain.Team
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	team, err := h.teamService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create team", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	respondJSON(w, http.StatusCreated, team)
}

// @Summary Get team
// @Description Get a team
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} domain.Team
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		h.logger.Error("failed to get team", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get team")
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// @Summary Team members
// @Description List the team's users
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {array} domain.User
// @Security BearerAuth
// @Router /teams/{id}/members [get]
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	members, err := h.teamService.Members(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		h.logger.Error("failed to list team members", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list team members")
		return
	}

	respondJSON(w, http.StatusOK, members)
}

// @Summary Delete team
// @Description Delete a team
// @Tags Teams
// @Param id path string true "Team ID"
// @Success 204
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid team ID")
		return
	}

	if err := h.teamService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		h.logger.Error("failed to delete team", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
