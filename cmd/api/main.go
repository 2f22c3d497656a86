package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/config"
	"github.com/georgemunganga/fieldops-backend/internal/database"
	"github.com/georgemunganga/fieldops-backend/internal/logger"
	"github.com/georgemunganga/fieldops-backend/internal/modules/auth"
	"github.com/georgemunganga/fieldops-backend/internal/modules/dashboard"
	"github.com/georgemunganga/fieldops-backend/internal/modules/settings"
	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
	"github.com/georgemunganga/fieldops-backend/internal/modules/task"
	"github.com/georgemunganga/fieldops-backend/internal/modules/user"
	"github.com/georgemunganga/fieldops-backend/internal/modules/visit"
	"github.com/georgemunganga/fieldops-backend/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireAPI(); err != nil {
		log.Fatal(err)
	}
	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.WithError(err).Fatal("connect database")
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logg.WithError(err).Fatal("apply schema")
	}
	logg.Info("connected to the database")

	// ── Repositories & caches ───────────────────────────────
	storeRepo := store.NewPostgresRepository(db)
	visitRepo := visit.NewPostgresRepository(db)
	taskRepo := task.NewPostgresRepository(db)
	settingsRepo := settings.NewPostgresRepository(db)
	userRepo := user.NewPostgresRepository(db)

	storeCache := cache.New("stores", storeRepo.GetAll, cfg.CacheTTL, logg)
	visitCache := cache.New("visits", visitRepo.GetAll, cfg.CacheTTL, logg)
	taskCache := cache.New("tasks", taskRepo.GetAll, cfg.CacheTTL, logg)
	settingsCache := cache.New("settings", settingsRepo.Get, cfg.CacheTTL, logg)

	go storeCache.Run(ctx, cfg.RefreshInterval)
	go visitCache.Run(ctx, cfg.RefreshInterval)
	go taskCache.Run(ctx, cfg.RefreshInterval)
	go settingsCache.Run(ctx, cfg.RefreshInterval)

	// ── Services ────────────────────────────────────────────
	settingsService := settings.NewService(settingsRepo, settingsCache, logg.WithField("module", "settings"))
	storeService := store.NewService(storeRepo, storeCache, logg.WithField("module", "store"), visitCache, taskCache)
	visitService := visit.NewService(visitRepo, visitCache, storeRepo, storeCache, settingsService, logg.WithField("module", "visit"))
	taskService := task.NewService(taskRepo, taskCache, storeRepo, settingsService, logg.WithField("module", "task"))
	dashboardService := dashboard.NewService(storeCache, visitCache, taskCache, logg.WithField("module", "dashboard"))
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, []byte(cfg.JWTSecret), cfg.JWTTTL)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.Middleware(logg))
	router.Use(middleware.Recoverer)

	router.Get("/health", healthHandler(db, logg))
	userHandler := user.NewHandler(userService)
	userHandler.RegisterRoutes(router)
	auth.NewHandler(authService).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware([]byte(cfg.JWTSecret)))
		userHandler.RegisterProtectedRoutes(r)
		dashboard.NewHandler(dashboardService).RegisterRoutes(r)
		store.NewHandler(storeService).RegisterRoutes(r)
		visit.NewHandler(visitService).RegisterRoutes(r)
		task.NewHandler(taskService).RegisterRoutes(r)
		settings.NewHandler(settingsService).RegisterRoutes(r)
	})

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logg.WithError(err).Warn("graceful shutdown")
		}
	}()

	logg.WithField("addr", srv.Addr).Info("FieldOps API server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.WithError(err).Fatal("server stopped")
	}
	logg.Info("server stopped")
}

func healthHandler(db *sql.DB, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Warn("health check failed")
			web.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		web.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
