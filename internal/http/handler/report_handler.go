package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// @Summary Monthly revenue
// @Description Won deal revenue per month, oldest first
// @Tags Reports
// @Produce json
// @Param months query int false "Number of months" default(6)
// @Success 200 {array} domain.MonthlyRevenueDTO
// @Security BearerAuth
// @Router /reports/revenue [get]
func (h *ReportHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))

	report, err := h.reportService.MonthlyRevenue(r.Context(), time.Now().UTC(), months)
	if err != nil {
		h.logger.Error("failed to build revenue report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build revenue report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// @Summary Deal status distribution
// @Description Count of deals per status
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.StatusDistributionDTO
// @Security BearerAuth
// @Router /reports/deal-status [get]
func (h *ReportHandler) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.StatusDistribution(r.Context())
	if err != nil {
		h.logger.Error("failed to build status report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build status report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// @Summary Expenses by category
// @Description Total expenses per category
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.ExpensesByCategoryDTO
// @Security BearerAuth
// @Router /reports/expenses [get]
func (h *ReportHandler) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.ExpensesByCategory(r.Context())
	if err != nil {
		h.logger.Error("failed to build expense report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build expense report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
