package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vendaflow/crm-api/internal/auth"
	"github.com/vendaflow/crm-api/internal/config"
	"github.com/vendaflow/crm-api/internal/database"
	"github.com/vendaflow/crm-api/internal/http/handler"
	"github.com/vendaflow/crm-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/vendaflow/crm-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                  *config.Config
	logger               *zap.Logger
	db                   *gorm.DB
	authMiddleware       *auth.Middleware
	rateLimiter          *middleware.RateLimiter
	leadWebhookHandler   *handler.LeadWebhookHandler
	authHandler          *handler.AuthHandler
	pipelineHandler      *handler.PipelineHandler
	dealHandler          *handler.DealHandler
	contactHandler       *handler.ContactHandler
	userHandler          *handler.UserHandler
	teamHandler          *handler.TeamHandler
	goalHandler          *handler.GoalHandler
	expenseHandler       *handler.ExpenseHandler
	webhookConfigHandler *handler.WebhookConfigHandler
	dashboardHandler     *handler.DashboardHandler
	reportHandler        *handler.ReportHandler
	tagHandler           *handler.TagHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	leadWebhookHandler *handler.LeadWebhookHandler,
	authHandler *handler.AuthHandler,
	pipelineHandler *handler.PipelineHandler,
	dealHandler *handler.DealHandler,
	contactHandler *handler.ContactHandler,
	userHandler *handler.UserHandler,
	teamHandler *handler.TeamHandler,
	goalHandler *handler.GoalHandler,
	expenseHandler *handler.ExpenseHandler,
	webhookConfigHandler *handler.WebhookConfigHandler,
	dashboardHandler *handler.DashboardHandler,
	reportHandler *handler.ReportHandler,
	tagHandler *handler.TagHandler,
) *Router {
	return &Router{
		cfg:                  cfg,
		logger:               logger,
		db:                   db,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		leadWebhookHandler:   leadWebhookHandler,
		authHandler:          authHandler,
		pipelineHandler:      pipelineHandler,
		dealHandler:          dealHandler,
		contactHandler:       contactHandler,
		userHandler:          userHandler,
		teamHandler:          teamHandler,
		goalHandler:          goalHandler,
		expenseHandler:       expenseHandler,
		webhookConfigHandler: webhookConfigHandler,
		dashboardHandler:     dashboardHandler,
		reportHandler:        reportHandler,
		tagHandler:           tagHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))

	// Public lead ingestion. Mounted outside the API CORS middleware: the
	// endpoint answers any origin and handles OPTIONS and wrong methods
	// itself so external form builders get the exact wire format they
	// expect.
	r.HandleFunc("/webhooks/incoming-lead", rt.leadWebhookHandler.Handle)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

		// Public routes (no auth required)
		r.With(rt.rateLimiter.LimitByIP).Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Pipelines and stages
			r.Route("/pipelines", func(r chi.Router) {
				r.Get("/", rt.pipelineHandler.List)
				r.Post("/", rt.pipelineHandler.Create)
				r.Get("/board", rt.pipelineHandler.Board)
				r.Get("/{id}", rt.pipelineHandler.Get)
				r.Put("/{id}", rt.pipelineHandler.Update)
				r.Delete("/{id}", rt.pipelineHandler.Delete)
				r.Post("/{id}/stages", rt.pipelineHandler.AddStage)
			})
			r.Put("/stages/{stageId}", rt.pipelineHandler.UpdateStage)
			r.Delete("/stages/{stageId}", rt.pipelineHandler.DeleteStage)

			// Deals
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", rt.dealHandler.List)
				r.Post("/", rt.dealHandler.Create)
				r.Get("/{id}", rt.dealHandler.Get)
				r.Put("/{id}", rt.dealHandler.Update)
				r.Delete("/{id}", rt.dealHandler.Delete)
				r.Put("/{id}/stage", rt.dealHandler.Move)
				r.Post("/{id}/win", rt.dealHandler.Win)
				r.Post("/{id}/lose", rt.dealHandler.Lose)
				r.Put("/{id}/tags/{tagId}", rt.dealHandler.AttachTag)
				r.Delete("/{id}/tags/{tagId}", rt.dealHandler.DetachTag)
			})

			// Contacts
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", rt.contactHandler.List)
				r.Post("/", rt.contactHandler.Create)
				r.Get("/{id}", rt.contactHandler.Get)
				r.Put("/{id}", rt.contactHandler.Update)
				r.Delete("/{id}", rt.contactHandler.Delete)
				r.Get("/{id}/deals", rt.contactHandler.Deals)
			})

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Get("/{id}", rt.userHandler.Get)
				r.Put("/{id}", rt.userHandler.Update)
				r.Delete("/{id}", rt.userHandler.Delete)
			})

			// Teams
			r.Route("/teams", func(r chi.Router) {
				r.Get("/", rt.teamHandler.List)
				r.Post("/", rt.teamHandler.Create)
				r.Get("/{id}", rt.teamHandler.Get)
				r.Delete("/{id}", rt.teamHandler.Delete)
				r.Get("/{id}/members", rt.teamHandler.Members)
			})

			// Goals
			r.Route("/goals", func(r chi.Router) {
				r.Get("/", rt.goalHandler.List)
				r.Post("/", rt.goalHandler.Create)
				r.Get("/{id}", rt.goalHandler.Get)
				r.Delete("/{id}", rt.goalHandler.Delete)
				r.Get("/{id}/progress", rt.goalHandler.Progress)
			})

			// Expenses and categories
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", rt.expenseHandler.List)
				r.Post("/", rt.expenseHandler.Create)
				r.Get("/{id}", rt.expenseHandler.Get)
				r.Delete("/{id}", rt.expenseHandler.Delete)
			})
			r.Route("/expense-categories", func(r chi.Router) {
				r.Get("/", rt.expenseHandler.ListCategories)
				r.Post("/", rt.expenseHandler.CreateCategory)
				r.Delete("/{id}", rt.expenseHandler.DeleteCategory)
			})

			// Webhook configurations
			r.Route("/webhooks", func(r chi.Router) {
				r.Get("/", rt.webhookConfigHandler.List)
				r.Post("/", rt.webhookConfigHandler.Create)
				r.Get("/{id}", rt.webhookConfigHandler.Get)
				r.Put("/{id}", rt.webhookConfigHandler.Update)
				r.Delete("/{id}", rt.webhookConfigHandler.Delete)
			})

			// Tags
			r.Route("/tags", func(r chi.Router) {
				r.Get("/", rt.tagHandler.List)
				r.Post("/", rt.tagHandler.Create)
				r.Delete("/{id}", rt.tagHandler.Delete)
			})

			// Dashboard
			r.Get("/dashboard/stats", rt.dashboardHandler.Stats)
			r.Get("/dashboard/recent-deals", rt.dashboardHandler.RecentDeals)
			r.Get("/dashboard/goals", rt.dashboardHandler.ActiveGoals)

			// Reports
			r.Get("/reports/revenue", rt.reportHandler.MonthlyRevenue)
			r.Get("/reports/deal-status", rt.reportHandler.StatusDistribution)
			r.Get("/reports/expenses", rt.reportHandler.ExpensesByCategory)
		})
	})

	return r
}
