package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"subgen/internal/artifacts"
	"subgen/internal/config"
	"subgen/internal/daemon"
	"subgen/internal/jobs"
	"subgen/internal/logging"
	"subgen/internal/media"
	"subgen/internal/pipeline"
	"subgen/internal/transcribe"
	"subgen/internal/workpool"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Optional .env next to the binary; missing files are fine.
	_ = godotenv.Load()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	registry := jobs.NewStore()
	store := artifacts.NewStore(cfg.Paths.ArtifactRoot)

	extractor := media.NewFFmpegExtractor(cfg.Transcribe.FFmpegBinary)
	engine := transcribe.NewWhisperXEngine(transcribe.Config{
		Model:       cfg.Transcribe.Model,
		CUDAEnabled: cfg.Transcribe.CUDAEnabled,
		Binary:      cfg.Transcribe.WhisperXBinary,
		BatchSize:   cfg.Transcribe.BatchSize,
	})
	orchestrator := transcribe.NewOrchestrator(engine, logger)
	executor := pipeline.NewExecutor(registry, store, extractor, orchestrator, logger)
	pool := workpool.New(executor, cfg.Workers.Count, cfg.Workers.QueueSize, logger)

	d, err := daemon.New(cfg, registry, store, pool, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		log.Fatalf("start daemon: %v", err)
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("subgend shutting down")
}
