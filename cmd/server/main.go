package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepyds/ydsprep-backend/internal/config"
	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/database"
	"github.com/prepyds/ydsprep-backend/internal/handler"
	"github.com/prepyds/ydsprep-backend/internal/logger"
	"github.com/prepyds/ydsprep-backend/internal/repository"
	"github.com/prepyds/ydsprep-backend/internal/router"
	"github.com/prepyds/ydsprep-backend/internal/service"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/prepyds/ydsprep-backend/internal/validator"
	"github.com/prepyds/ydsprep-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting YDS Prep Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Exam Content ─────────────────────────────────────────────
	loader := content.NewLoader(cfg.ContentDir, log)
	if err := loader.Load(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ContentDir).Msg("Failed to load exam content")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	sessionStore := store.NewRedisStore(rdb)

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	tutorRepo := repository.NewTutorRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	goalRepo := repository.NewGoalRepository(pool)
	tutorQuestionRepo := repository.NewTutorQuestionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	sessionService := service.NewSessionService(loader, sessionStore, rdb, log)
	progressService := service.NewProgressService(resultRepo, goalRepo)
	goalService := service.NewGoalService(goalRepo)
	tutorService := service.NewTutorService(tutorRepo, tutorQuestionRepo, authService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, studentService, tutorService),
		Exam:     handler.NewExamHandler(loader, sessionService),
		Session:  handler.NewSessionHandler(sessionService),
		Progress: handler.NewProgressHandler(progressService),
		Goal:     handler.NewGoalHandler(goalService),
		Tutor:    handler.NewTutorHandler(tutorService),
		WS:       handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(resultRepo, rdb, log)
	go resultWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop session tickers. Partials already in Redis cover the next boot.
	sessionService.Shutdown()

	// 3. Stop the persist worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
