package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// @Summary List deals
// @Description List deals newest first with optional filters
// @Tags Deals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (OPEN, WON, LOST)"
// @Param pipelineId query string false "Filter by pipeline ID"
// @Param stageId query string false "Filter by stage ID"
// @Param ownerId query string false "Filter by owner ID"
// @Param contactId query string false "Filter by contact ID"
// @Success 200 {array} domain.Deal
// @Security BearerAuth
// @Router /deals [get]
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.DealFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.DealStatus(s)
		filters.Status = &status
	}
	if p := r.URL.Query().Get("pipelineId"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			filters.PipelineID = &id
		}
	}
	if s := r.URL.Query().Get("stageId"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filters.StageID = &id
		}
	}
	if o := r.URL.Query().Get("ownerId"); o != "" {
		if id, err := uuid.Parse(o); err == nil {
			filters.OwnerID = &id
		}
	}
	if c := r.URL.Query().Get("contactId"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			filters.ContactID = &id
		}
	}

	deals, total, err := h.dealService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list deals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deals")
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	respondJSON(w, http.StatusOK, deals)
}

// @Summary Create deal
// @Description Create a new open deal on a pipeline stage
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body domain.CreateDealRequest true "Deal data"
// @Success 201 {object} domain.Deal
// @Security BearerAuth
// @Router /deals [post]
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Stage not found")
		case errors.Is(err, service.ErrStageMismatch):
			respondWithError(w, http.StatusBadRequest, "Stage does not belong to the given pipeline")
		default:
			h.logger.Error("failed to create deal", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to create deal")
		}
		return
	}

	respondJSON(w, http.StatusCreated, deal)
}

// @Summary Get deal
// @Description Get a deal with its contact and tags
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.Deal
// @Security BearerAuth
// @Router /deals/{id} [get]
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to get deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Update deal
// @Description Update a deal's title, value, contact or owner
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.UpdateDealRequest true "Fields to update"
// @Success 200 {object} domain.Deal
// @Security BearerAuth
// @Router /deals/{id} [put]
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req domain.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to update deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Move deal
// @Description Move a deal to another stage of its pipeline. Moving to the current stage is a no-op.
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.MoveDealRequest true "Target stage"
// @Success 200 {object} domain.Deal
// @Security BearerAuth
// @Router /deals/{id}/stage [put]
func (h *DealHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req domain.MoveDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.MoveDeal(r.Context(), id, req.StageID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Deal or stage not found")
		case errors.Is(err, service.ErrStageMismatch):
			respondWithError(w, http.StatusBadRequest, "Stage does not belong to the deal's pipeline")
		case errors.Is(err, service.ErrDealClosed):
			respondWithError(w, http.StatusConflict, "Closed deals cannot be moved")
		default:
			h.logger.Error("failed to move deal", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to move deal")
		}
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Win deal
// @Description Close an open deal as won
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.Deal
// @Security BearerAuth
// @Router /deals/{id}/win [post]
func (h *DealHandler) Win(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.Win(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Deal not found")
		case errors.Is(err, service.ErrDealClosed):
			respondWithError(w, http.StatusConflict, "Deal is already closed")
		default:
			h.logger.Error("failed to win deal", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to win deal")
		}
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Lose deal
// @Description Close an open deal as lost with an optional reason
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.LoseDealRequest false "Loss reason"
// @Success 200 {object} domain.Deal
// @Security BearerAuth
// @Router /deals/{id}/lose [post]
func (h *DealHandler) Lose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req domain.LoseDealRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Lose(r.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Deal not found")
		case errors.Is(err, service.ErrDealClosed):
			respondWithError(w, http.StatusConflict, "Deal is already closed")
		default:
			h.logger.Error("failed to lose deal", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to lose deal")
		}
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Delete deal
// @Description Delete a deal
// @Tags Deals
// @Param id path string true "Deal ID"
// @Success 204
// @Security BearerAuth
// @Router /deals/{id} [delete]
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to delete deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete deal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Attach tag
// @Description Attach a tag to a deal
// @Tags Deals
// @Param id path string true "Deal ID"
// @Param tagId path string true "Tag ID"
// @Success 204
// @Security BearerAuth
// @Router /deals/{id}/tags/{tagId} [put]
func (h *DealHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}
	tagID, err := uuid.Parse(chi.URLParam(r, "tagId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.dealService.AttachTag(r.Context(), id, tagID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal or tag not found")
			return
		}
		h.logger.Error("failed to attach tag", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to attach tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Detach tag
// @Description Remove a tag from a deal
// @Tags Deals
// @Param id path string true "Deal ID"
// @Param tagId path string true "Tag ID"
// @Success 204
// @Security BearerAuth
// @Router /deals/{id}/tags/{tagId} [delete]
func (h *DealHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}
	tagID, err := uuid.Parse(chi.URLParam(r, "tagId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.dealService.DetachTag(r.Context(), id, tagID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal or tag not found")
			return
		}
		h.logger.Error("failed to detach tag", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to detach tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
