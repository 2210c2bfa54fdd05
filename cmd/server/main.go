package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/soundsteps/phonics-backend/internal/config"
	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/game"
	"github.com/soundsteps/phonics-backend/internal/handler"
	"github.com/soundsteps/phonics-backend/internal/logger"
	"github.com/soundsteps/phonics-backend/internal/router"
	"github.com/soundsteps/phonics-backend/internal/speech"
	"github.com/soundsteps/phonics-backend/internal/validator"
	"github.com/soundsteps/phonics-backend/internal/worker"
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
		Msg("Starting Phonics Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Load Content ──────────────────────────────────────────────────
	library, err := content.Load(cfg.ContentDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load content")
	}
	log.Info().
		Int("questions", len(library.Questions())).
		Strs("sets", library.SetLetters()).
		Msg("Content loaded")

	// ─── Initialize Speech Synthesizer ─────────────────────────────────
	synth, err := speech.NewSynthesizer(cfg.AudioDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize synthesizer")
	}

	// ─── Initialize Session Manager ────────────────────────────────────
	manager := game.NewManager(library, clockwork.NewRealClock(), cfg.SessionTTL, log)

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Session: handler.NewSessionHandler(manager, log),
		Content: handler.NewContentHandler(library, log),
		WS:      handler.NewWSHandler(manager, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(manager, log),
	}

	// ─── Start Background Workers ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	sweeper := worker.NewSweeperWorker(manager, log)
	go sweeper.Start(workerCtx)

	if cfg.TTSPrewarm {
		prewarm := worker.NewPrewarmWorker(library, synth, log)
		go prewarm.Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

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

	// 2. Stop workers, then end every live session loop.
	workerCancel()
	manager.CloseAll()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
