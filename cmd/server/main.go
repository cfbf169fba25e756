package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markbook/markbook-backend/internal/config"
	"github.com/markbook/markbook-backend/internal/database"
	"github.com/markbook/markbook-backend/internal/handler"
	"github.com/markbook/markbook-backend/internal/logger"
	"github.com/markbook/markbook-backend/internal/repository"
	"github.com/markbook/markbook-backend/internal/router"
	"github.com/markbook/markbook-backend/internal/service"
	"github.com/markbook/markbook-backend/internal/validator"
	"github.com/markbook/markbook-backend/internal/worker"
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
		Msg("Starting Markbook Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// ─── Initialize Repositories ───────────────────────────────────────
	staffRepo := repository.NewStaffRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	sectionRepo := repository.NewSectionRepository(pool)
	typeRepo := repository.NewAssessmentTypeRepository(pool)
	weightRepo := repository.NewWeightConfigRepository(pool)
	columnRepo := repository.NewColumnRepository(pool)
	entryRepo := repository.NewEntryRepository(pool)
	changeRepo := repository.NewChangeRepository(pool)
	finalRepo := repository.NewFinalMarkRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	staffService := service.NewStaffService(staffRepo, authService, log)
	studentService := service.NewStudentService(studentRepo, authService, log)
	queue := service.NewRecomputeQueue(rdb, log)
	gradebookService := service.NewGradebookService(
		cfg, sectionRepo, courseRepo, studentRepo, typeRepo,
		columnRepo, entryRepo, changeRepo, finalRepo, weightRepo, rdb, log,
	)
	markService := service.NewMarkService(
		pool, sectionRepo, courseRepo, columnRepo, entryRepo,
		changeRepo, finalRepo, weightRepo, gradebookService, rdb, log,
	)
	courseService := service.NewCourseService(courseRepo, sectionRepo, queue, log)
	sectionService := service.NewSectionService(sectionRepo, courseRepo, studentRepo, markService, rdb, log)
	typeService := service.NewAssessmentTypeService(typeRepo, log)
	weightService := service.NewWeightService(pool, courseRepo, sectionRepo, typeRepo, columnRepo, weightRepo, queue, rdb, log)
	columnService := service.NewColumnService(pool, sectionRepo, columnRepo, entryRepo, weightRepo, queue, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:           handler.NewAuthHandler(authService, staffService, studentService),
		Course:         handler.NewCourseHandler(courseService),
		Section:        handler.NewSectionHandler(sectionService),
		Student:        handler.NewStudentHandler(studentService),
		AssessmentType: handler.NewAssessmentTypeHandler(typeService),
		Weight:         handler.NewWeightHandler(weightService),
		Column:         handler.NewColumnHandler(columnService),
		Mark:           handler.NewMarkHandler(markService, gradebookService),
		WS:             handler.NewWSHandler(rdb, sectionService, log, cfg.AllowedOrigins),
		System:         handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	recomputeWorker := worker.NewRecomputeWorker(markService, rdb, log)
	go recomputeWorker.Start(workerCtx)

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

	// 2. Stop the background worker and wait for in-flight jobs.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
