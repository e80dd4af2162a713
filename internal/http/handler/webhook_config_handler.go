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

// WebhookConfigHandler manages inbound webhook configurations, not the
// ingestion endpoint itself.
type WebhookConfigHandler struct {
	webhookService *service.WebhookService
	logger         *zap.Logger
}

func NewWebhookConfigHandler(webhookService *service.WebhookService, logger *zap.Logger) *WebhookConfigHandler {
	return &WebhookConfigHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// @Summary List webhooks
// @Description List all inbound webhook configurations
// @Tags Webhooks
// @Produce json
// @Success 200 {array} domain.Webhook
// @Security BearerAuth
// @Router /webhooks [get]
func (h *WebhookConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.webhookService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list webhooks", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list webhooks")
		return
	}
	respondJSON(w, http.StatusOK, webhooks)
}

// @Summary Register webhook
// @Description Register an inbound webhook configuration
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body domain.CreateWebhookRequest true "Webhook data"
// @Success 201 {object} domain.Webhook
// @Security BearerAuth
// @Router /webhooks [post]
func (h *WebhookConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	webhook, err := h.webhookService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Linked pipeline not found")
			return
		}
		h.logger.Error("failed to register webhook", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to register webhook")
		return
	}

	respondJSON(w, http.StatusCreated, webhook)
}

// @Summary Get webhook
// @Description Get an inbound webhook configuration
// @Tags Webhooks
// @Produce json
// @Param id path string true "Webhook ID"
// @Success 200 {object} domain.Webhook
// @Security BearerAuth
// @Router /webhooks/{id} [get]
func (h *WebhookConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid webhook ID")
		return
	}

	webhook, err := h.webhookService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Webhook not found")
			return
		}
		h.logger.Error("failed to get webhook", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get webhook")
		return
	}

	respondJSON(w, http.StatusOK, webhook)
}

// @Summary Update webhook
// @Description Rename or toggle an inbound webhook configuration
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param id path string true "Webhook ID"
// @Param request body domain.UpdateWebhookRequest true "Fields to update"
// @Success 200 {object} domain.Webhook
// @Security BearerAuth
// @Router /webhooks/{id} [put]
func (h *WebhookConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid webhook ID")
		return
	}

	var req domain.UpdateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	webhook, err := h.webhookService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Webhook not found")
			return
		}
		h.logger.Error("failed to update webhook", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update webhook")
		return
	}

	respondJSON(w, http.StatusOK, webhook)
}

// @Summary Delete webhook
// @Description Delete an inbound webhook configuration
// @Tags Webhooks
// @Param id path string true "Webhook ID"
// @Success 204
// @Security BearerAuth
// @Router /webhooks/{id} [delete]
func (h *WebhookConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid webhook ID")
		return
	}

	if err := h.webhookService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Webhook not found")
			return
		}
		h.logger.Error("failed to delete webhook", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete webhook")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
