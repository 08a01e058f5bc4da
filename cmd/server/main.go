package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nityamhjn05/feedback-systems/internal/config"
	"github.com/nityamhjn05/feedback-systems/internal/db"
	transport "github.com/nityamhjn05/feedback-systems/internal/http"
	"github.com/nityamhjn05/feedback-systems/internal/http/middleware"
	"github.com/nityamhjn05/feedback-systems/internal/notify"
	"github.com/nityamhjn05/feedback-systems/internal/repo"
	"github.com/nityamhjn05/feedback-systems/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := db.Migrate(cfg.DBURL); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Connect(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.EnsureSeedAdministrator(ctx, dbConn.Pool, cfg.RequestTimeout,
		cfg.SeedAdminID, cfg.SeedAdminName, cfg.SeedAdminPassword); err != nil {
		logger.Error("failed to seed administrator", "error", err)
		os.Exit(1)
	}

	employeeRepo := repo.NewEmployeeRepo(dbConn.Pool, cfg.RequestTimeout)
	formRepo := repo.NewFormRepo(dbConn.Pool, cfg.RequestTimeout)
	assignmentRepo := repo.NewAssignmentRepo(dbConn.Pool, cfg.RequestTimeout)
	responseRepo := repo.NewResponseRepo(dbConn.Pool, cfg.RequestTimeout)
	resetRepo := repo.NewResetRepo(dbConn.Pool, cfg.RequestTimeout)

	dispatcher := notify.NewDispatcher(notify.NewSMTPNotifier(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.EmailFrom,
	}), logger)

	authService := services.NewAuthService(employeeRepo, cfg)
	resetService := services.NewResetService(employeeRepo, resetRepo, dispatcher, cfg)
	formService := services.NewFormService(formRepo, assignmentRepo, responseRepo, employeeRepo, dispatcher, cfg.FrontendURL, logger)
	userService := services.NewUserService(employeeRepo, assignmentRepo, responseRepo, logger)
	importService := services.NewImportService(employeeRepo)

	// Heal submitted flags left behind by a crash between the response
	// insert and the assignment update.
	if repaired, err := formService.Reconcile(ctx); err != nil {
		logger.Error("failed to reconcile submitted flags", "error", err)
	} else if repaired > 0 {
		logger.Info("reconciled submitted flags", "repaired", repaired)
	}

	go resetService.StartJanitor(ctx, 10*time.Minute, logger)

	router := transport.NewRouter(transport.Dependencies{
		Config:        cfg,
		EmployeeRepo:  employeeRepo,
		AuthService:   authService,
		ResetService:  resetService,
		FormService:   formService,
		UserService:   userService,
		ImportService: importService,
		Logger:        logger,
		RateLimiter:   middleware.NewRateLimiter(cfg.RateLimitPerMinute),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
