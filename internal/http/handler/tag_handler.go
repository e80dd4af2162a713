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

type TagHandler struct {
	tagService *service.TagService
	logger     *zap.Logger
}

func NewTagHandler(tagService *service.TagService, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// @Summary List tags
// @Description List all deal tags
// @Tags Tags
// @Produce json
// @Success 200 {array} domain.Tag
// @Security BearerAuth
// @Router /tags [get]
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tags", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// @Summary Create tag
// @Description Create a deal tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param request body domain.CreateTagRequest true "Tag data"
// @Success 201 {object} domain.Tag
// @Security BearerAuth
// @Router /tags [post]
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	tag, err := h.tagService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create tag", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	respondJSON(w, http.StatusCreated, tag)
}

// @Summary Delete tag
// @Description Delete a deal tag
// @Tags Tags
// @Param id path string true "Tag ID"
// @Success 204
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.tagService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Tag not found")
			return
		}
		h.logger.Error("failed to delete tag", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
