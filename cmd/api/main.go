package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vendaflow/crm-api/docs"
	"github.com/vendaflow/crm-api/internal/auth"
	"github.com/vendaflow/crm-api/internal/config"
	"github.com/vendaflow/crm-api/internal/database"
	"github.com/vendaflow/crm-api/internal/events"
	"github.com/vendaflow/crm-api/internal/http/handler"
	"github.com/vendaflow/crm-api/internal/http/middleware"
	"github.com/vendaflow/crm-api/internal/http/router"
	"github.com/vendaflow/crm-api/internal/jobs"
	"github.com/vendaflow/crm-api/internal/logger"
	"github.com/vendaflow/crm-api/internal/mailer"
	"github.com/vendaflow/crm-api/internal/repository"
	"github.com/vendaflow/crm-api/internal/service"
	"go.uber.org/zap"
)

// @title VendaFlow CRM API
// @version 1.0
// @description Sales CRM backend: lead ingestion, pipeline board, deals, contacts, goals and reports

// @contact.name API Support
// @contact.email support@vendaflow.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Deal event publisher is optional; without a broker URL a no-op
	// publisher is used and the API runs standalone.
	publisher, err := events.NewPublisher(&cfg.Events, log)
	if err != nil {
		return fmt.Errorf("failed to connect event publisher: %w", err)
	}
	defer func() { _ = publisher.Close() }()

	mail := mailer.NewMailer(&cfg.Mail, log)

	// Repositories
	contactRepo := repository.NewContactRepository(db)
	pipelineRepo := repository.NewPipelineRepository(db)
	stageRepo := repository.NewStageRepository(db)
	dealRepo := repository.NewDealRepository(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	tagRepo := repository.NewTagRepository(db)

	// Services
	leadService := service.NewLeadService(contactRepo, pipelineRepo, stageRepo, dealRepo, publisher, log)
	pipelineService := service.NewPipelineService(pipelineRepo, stageRepo, dealRepo, log)
	dealService := service.NewDealService(dealRepo, stageRepo, tagRepo, userRepo, publisher, mail, log)
	contactService := service.NewContactService(contactRepo, dealRepo, log)
	userService := service.NewUserService(userRepo, log)
	teamService := service.NewTeamService(teamRepo, userRepo, log)
	goalService := service.NewGoalService(goalRepo, dealRepo, log)
	expenseService := service.NewExpenseService(expenseRepo, log)
	webhookService := service.NewWebhookService(webhookRepo, pipelineRepo, cfg.App.BaseURL, log)
	dashboardService := service.NewDashboardService(dealRepo, contactRepo, goalService, log)
	reportService := service.NewReportService(dealRepo, expenseRepo, log)
	tagService := service.NewTagService(tagRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	leadWebhookHandler := handler.NewLeadWebhookHandler(leadService, log)
	authHandler := handler.NewAuthHandler(userService, authMiddleware.Tokens(), log)
	pipelineHandler := handler.NewPipelineHandler(pipelineService, log)
	dealHandler := handler.NewDealHandler(dealService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	userHandler := handler.NewUserHandler(userService, log)
	teamHandler := handler.NewTeamHandler(teamService, log)
	goalHandler := handler.NewGoalHandler(goalService, log)
	expenseHandler := handler.NewExpenseHandler(expenseService, log)
	webhookConfigHandler := handler.NewWebhookConfigHandler(webhookService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	tagHandler := handler.NewTagHandler(tagService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		leadWebhookHandler,
		authHandler,
		pipelineHandler,
		dealHandler,
		contactHandler,
		userHandler,
		teamHandler,
		goalHandler,
		expenseHandler,
		webhookConfigHandler,
		dashboardHandler,
		reportHandler,
		tagHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		goalProgressJob := jobs.NewGoalProgressJob(goalService, log, time.Minute)
		if err := scheduler.AddJob(jobs.GoalProgressJobName, cfg.Jobs.GoalProgressCron, goalProgressJob.Run); err != nil {
			log.Error("Failed to register goal progress job", zap.Error(err))
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
