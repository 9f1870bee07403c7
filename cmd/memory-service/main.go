package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaiwa-coach/memory-service/internal/api"
	"github.com/kaiwa-coach/memory-service/internal/classify"
	"github.com/kaiwa-coach/memory-service/internal/config"
	"github.com/kaiwa-coach/memory-service/internal/llm"
	"github.com/kaiwa-coach/memory-service/internal/platform/factory"
	"github.com/kaiwa-coach/memory-service/internal/platform/logger"
	"github.com/kaiwa-coach/memory-service/internal/service"
)

func main() {
	storeDriver := flag.String("store-driver", "", "Override STORE_DRIVER (jsonl, sqlite)")
	flag.Parse()

	log := logger.New("memory-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *storeDriver != "" {
		cfg.StoreDriver = *storeDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid store-driver override")
		}
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Str("llm_provider", cfg.LLMProvider).
		Int("http_port", cfg.HTTPPort).
		Msg("Memory service starting…")

	// -------- Storage layer -----------------
	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Storage backend unavailable")
	}

	// -------- LLM judge ---------------------
	judge, err := llm.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("LLM judge misconfigured")
	}
	if judge == nil {
		log.Info().Msg("No LLM provider configured; classification is keyword-only")
	}

	// -------- Service & Router --------------
	svc := service.New(st, classify.New(judge, cfg.LLMTimeout))
	router := api.NewRouter(svc, cfg.RetentionDays)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
