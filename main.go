package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/profiler"
	"datalens/internal/retrieval"
	"datalens/internal/store"
	"datalens/ui"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	opts := profiler.DefaultOptions()
	opts.Baseline.MaxBins = cfg.Charts.MaxBins
	opts.Smart.MaxBins = cfg.Charts.MaxBins
	opts.Baseline.MaxScatterPoints = cfg.Charts.MaxScatterPoints
	opts.MaxSeriesPoints = cfg.Charts.MaxSeriesPoints
	p := profiler.NewWithOptions(logger, opts)

	files := store.NewMemoryStore()
	chunker := retrieval.NewChunker(cfg.Retrieval.ChunkSize, cfg.Retrieval.MaxChunks)
	embedder := retrieval.NewHashingEmbedder(retrieval.DefaultEmbeddingDim)
	retriever := retrieval.NewRetriever(embedder, retrieval.NewVectorStore(), cfg.Retrieval.TopKMax)

	server := ui.NewServer(cfg, logger, p, files, chunker, retriever)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed: %v", err)
	}
}
