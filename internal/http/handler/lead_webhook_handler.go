package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vendaflow/crm-api/internal/domain"
	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

// LeadWebhookHandler is the public lead ingestion endpoint. External
// form builders and landing pages post here, so it speaks a fixed
// {success, error} wire format and answers any origin.
type LeadWebhookHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

// NewLeadWebhookHandler creates a new lead webhook handler
func NewLeadWebhookHandler(leadService *service.LeadService, logger *zap.Logger) *LeadWebhookHandler {
	return &LeadWebhookHandler{leadService: leadService, logger: logger}
}

func setLeadCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func respondLeadError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.LeadErrorResponse{
		Success: false,
		Error:   message,
	})
}

// Handle processes all methods on the lead webhook endpoint
// @Summary Ingest an incoming lead
// @Description Accepts a posted lead, creates or reuses a contact by email and opens a deal on the sales pipeline's entry stage
// @Tags webhooks
// @Accept json
// @Produce json
// @Param lead body domain.IncomingLeadRequest true "Lead payload"
// @Success 201 {object} domain.LeadAcceptedResponse
// @Failure 400 {object} domain.LeadErrorResponse
// @Failure 405 {object} domain.LeadErrorResponse
// @Failure 500 {object} domain.LeadErrorResponse
// @Router /webhooks/incoming-lead [post]
func (h *LeadWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	setLeadCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		respondLeadError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	var req domain.IncomingLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondLeadError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := h.leadService.Ingest(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingLeadFields):
			respondLeadError(w, http.StatusBadRequest, "Missing required fields: name and email are required")
		case errors.Is(err, service.ErrInvalidLeadEmail):
			respondLeadError(w, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, service.ErrNoSalesPipeline):
			respondLeadError(w, http.StatusInternalServerError, "No sales pipeline configured. Please create a sales pipeline first.")
		case errors.Is(err, service.ErrPipelineHasNoStages):
			respondLeadError(w, http.StatusInternalServerError, "Sales pipeline has no stages configured")
		default:
			h.logger.Error("lead ingestion failed", zap.Error(err))
			respondLeadError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, domain.LeadAcceptedResponse{
		Success:   true,
		DealID:    result.DealID,
		ContactID: result.ContactID,
		Message:   "Lead received and deal created successfully",
	})
}
