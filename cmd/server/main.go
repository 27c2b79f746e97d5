package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitasa/salesshare/internal/api"
	"github.com/hitasa/salesshare/internal/auth"
	"github.com/hitasa/salesshare/internal/cache"
	"github.com/hitasa/salesshare/internal/company"
	"github.com/hitasa/salesshare/internal/config"
	"github.com/hitasa/salesshare/internal/database"
	"github.com/hitasa/salesshare/internal/license"
	"github.com/hitasa/salesshare/internal/project"
	"github.com/hitasa/salesshare/internal/search"
	"github.com/hitasa/salesshare/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	views := initViewCache(cfg)
	if views != nil {
		defer views.Close()
	}

	userRepo := auth.NewUserRepository(db.Pool())
	teamRepo := team.NewRepository(db.Pool())
	companyRepo := company.NewRepository(db.Pool())
	projectRepo := project.NewRepository(db.Pool())
	licenseRepo := license.NewRepository(db.Pool())

	authService := auth.NewService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, cfg.BcryptCost)
	teamService := team.NewService(teamRepo, time.Duration(cfg.InviteTTLHours)*time.Hour)
	licenseService := license.NewService(licenseRepo)

	var companyViews company.ViewCache
	var projectViews project.ViewCache
	if views != nil {
		companyViews = views
		projectViews = views
	}
	companyService := company.NewService(companyRepo, teamService, companyViews)
	projectService := project.NewService(projectRepo, teamService, projectViews)

	var searchProvider search.Provider
	if cfg.SearchBaseURL != "" {
		searchProvider = search.NewHTTPProvider(cfg.SearchBaseURL, cfg.SearchAPIKey, cfg.SearchEngineID)
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger:       db,
		Version:        cfg.Version,
		AuthService:    authService,
		TeamService:    teamService,
		CompanyService: companyService,
		ProjectService: projectService,
		LicenseService: licenseService,
		SearchProvider: searchProvider,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting salesshare server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// initViewCache connects to redis when configured. The cache is optional;
// startup proceeds without it and views are recomputed per request.
func initViewCache(cfg *config.Config) *cache.Views {
	if cfg.RedisAddr == "" {
		return nil
	}

	views, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("redis unavailable; view caching disabled", "error", err)
		return nil
	}

	return views
}
