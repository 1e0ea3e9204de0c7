package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docshuffle/internal/api"
	"github.com/dgallion1/docshuffle/internal/config"
	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/docstore"
	"github.com/dgallion1/docshuffle/internal/pipeline"
	"github.com/dgallion1/docshuffle/internal/shuffle"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load .env", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()
	log := cfg.NewLogger(os.Stdout)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schema := demo.Schema()
	docs := docstore.New(cfg.DocumentTTL)
	latency := pipeline.NewLatencyStats(time.Hour)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, schema, docs, latency, log)
	orch.Start(ctx)

	// Request handlers share one shuffler.
	shuffler := shuffle.New(shuffle.Locked(shuffle.NewSource(cfg.ShuffleSeed)), log)
	srv := api.NewServer(orch, schema, shuffler, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docshuffle", "port", cfg.Port, "workers", cfg.WorkerCount, "seeded", cfg.ShuffleSeed != 0)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
