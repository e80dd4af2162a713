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

type PipelineHandler struct {
	pipelineService *service.PipelineService
	logger          *zap.Logger
}

func NewPipelineHandler(pipelineService *service.PipelineService, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipelineService: pipelineService,
		logger:          logger,
	}
}

// @Summary Pipeline board
// @Description All pipelines with ordered stage columns and each stage's open deals
// @Tags Pipelines
// @Produce json
// @Success 200 {array} domain.BoardPipelineDTO
// @Security BearerAuth
// @Router /pipelines/board [get]
func (h *PipelineHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.pipelineService.Board(r.Context())
	if err != nil {
		h.logger.Error("failed to build board", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build board")
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// @Summary List pipelines
// @Description List all pipelines with stages in board order
// @Tags Pipelines
// @Produce json
// @Success 200 {array} domain.Pipeline
// @Security BearerAuth
// @Router /pipelines [get]
func (h *PipelineHandler) List(w http.ResponseWriter, r *http.Request) {
	pipelines, err := h.pipelineService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list pipelines", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list pipelines")
		return
	}
	respondJSON(w, http.StatusOK, pipelines)
}

// @Summary Create pipeline
// @Description Create a pipeline with its initial stages
// @Tags Pipelines
// @Accept json
// @Produce json
// @Param request body domain.CreatePipelineRequest true "Pipeline data"
// @Success 201 {object} domain.Pipeline
// @Security BearerAuth
// @Router /pipelines [post]
func (h *PipelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	pipeline, err := h.pipelineService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create pipeline", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create pipeline")
		return
	}

	respondJSON(w, http.StatusCreated, pipeline)
}

// @Summary Get pipeline
// @Description Get a pipeline with its stages
// @Tags Pipelines
// @Produce json
// @Param id path string true "Pipeline ID"
// @Success 200 {object} domain.Pipeline
// @Security BearerAuth
// @Router /pipelines/{id} [get]
func (h *PipelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid pipeline ID")
		return
	}

	pipeline, err := h.pipelineService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Pipeline not found")
			return
		}
		h.logger.Error("failed to get pipeline", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get pipeline")
		return
	}

	respondJSON(w, http.StatusOK, pipeline)
}

// @Summary Rename pipeline
// @Description Rename a pipeline. Locked pipelines cannot be renamed.
// @Tags Pipelines
// @Accept json
// @Produce json
// @Param id path string true "Pipeline ID"
// @Param request body domain.UpdatePipelineRequest true "New name"
// @Success 200 {object} domain.Pipeline
// @Security BearerAuth
// @Router /pipelines/{id} [put]
func (h *PipelineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid pipeline ID")
		return
	}

	var req domain.UpdatePipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	pipeline, err := h.pipelineService.Rename(r.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Pipeline not found")
		case errors.Is(err, service.ErrNotEditable):
			respondWithError(w, http.StatusConflict, "Pipeline is locked and cannot be changed")
		default:
			h.logger.Error("failed to update pipeline", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update pipeline")
		}
		return
	}

	respondJSON(w, http.StatusOK, pipeline)
}

// @Summary Delete pipeline
// @Description Delete a pipeline and its stages. Locked pipelines cannot be deleted.
// @Tags Pipelines
// @Param id path string true "Pipeline ID"
// @Success 204
// @Security BearerAuth
// @Router /pipelines/{id} [delete]
func (h *PipelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid pipeline ID")
		return
	}

	if err := h.pipelineService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Pipeline not found")
		case errors.Is(err, service.ErrNotEditable):
			respondWithError(w, http.StatusConflict, "Pipeline is locked and cannot be deleted")
		default:
			h.logger.Error("failed to delete pipeline", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to delete pipeline")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Add stage
// @Description Append a stage to a pipeline
// @Tags Pipelines
// @Accept json
// @Produce json
// @Param id path string true "Pipeline ID"
// @Param request body domain.CreateStageRequest true "Stage data"
// @Success 201 {object} domain.Stage
// @Security BearerAuth
// @Router /pipelines/{id}/stages [post]
func (h *PipelineHandler) AddStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid pipeline ID")
		return
	}

	var req domain.CreateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stage, err := h.pipelineService.AddStage(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Pipeline not found")
			return
		}
		h.logger.Error("failed to add stage", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to add stage")
		return
	}

	respondJSON(w, http.StatusCreated, stage)
}

// @Summary Update stage
// @Description Rename or reorder a stage
// @Tags Pipelines
// @Accept json
// @Produce json
// @Param stageId path string true "Stage ID"
// @Param request body domain.UpdateStageRequest true "Fields to update"
// @Success 200 {object} domain.Stage
// @Security BearerAuth
// @Router /stages/{stageId} [put]
func (h *PipelineHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := uuid.Parse(chi.URLParam(r, "stageId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid stage ID")
		return
	}

	var req domain.UpdateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stage, err := h.pipelineService.UpdateStage(r.Context(), stageID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage not found")
			return
		}
		h.logger.Error("failed to update stage", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update stage")
		return
	}

	respondJSON(w, http.StatusOK, stage)
}

// @Summary Delete stage
// @Description Delete a stage
// @Tags Pipelines
// @Param stageId path string true "Stage ID"
// @Success 204
// @Security BearerAuth
// @Router /stages/{stageId} [delete]
func (h *PipelineHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := uuid.Parse(chi.URLParam(r, "stageId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid stage ID")
		return
	}

	if err := h.pipelineService.DeleteStage(r.Context(), stageID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage not found")
			return
		}
		h.logger.Error("failed to delete stage", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete stage")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
