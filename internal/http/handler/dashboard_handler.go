package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Dashboard stats
// @Description Current month's leads, conversions and revenue with growth against the previous month
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStatsDTO
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to compute dashboard stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute dashboard stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// @Summary Recent deals
// @Description Latest deals with contact names for the dashboard feed
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Number of deals" default(5)
// @Success 200 {array} domain.RecentDealDTO
// @Security BearerAuth
// @Router /dashboard/recent-deals [get]
func (h *DashboardHandler) RecentDeals(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 5
	}

	deals, err := h.dashboardService.RecentDeals(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list recent deals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list recent deals")
		return
	}
	respondJSON(w, http.StatusOK, deals)
}

// @Summary Active goals
// @Description Progress for all goals active right now
// @Tags Dashboard
// @Produce json
// @Success 200 {array} domain.GoalProgressDTO
// @Security BearerAuth
// @Router /dashboard/goals [get]
func (h *DashboardHandler) ActiveGoals(w http.ResponseWriter, r *http.Request) {
	progress, err := h.dashboardService.ActiveGoals(r.Context())
	if err != nil {
		h.logger.Error("failed to compute goal progress", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute goal progress")
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
