package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ainav/navigator/articles"
	"github.com/ainav/navigator/config"
	"github.com/ainav/navigator/extract"
	"github.com/ainav/navigator/feed"
	"github.com/ainav/navigator/ingest"
	"github.com/ainav/navigator/scheduler"
	"github.com/ainav/navigator/sources"
	"github.com/ainav/navigator/summarize"
)

// shutdownGrace bounds how long shutdown waits for an in-flight cycle.
const shutdownGrace = 30 * time.Second

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sourceStore, err := sources.NewSourceStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open source store: %v", err)
	}
	defer sourceStore.Close()

	articleStore, err := articles.NewArticleStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open article store: %v", err)
	}
	defer articleStore.Close()

	// First run installs the default source set
	seeded, err := sourceStore.SeedDefaults()
	if err != nil {
		log.Fatalf("failed to seed sources: %v", err)
	}
	if seeded > 0 {
		log.Printf("Seeded %d default sources", seeded)
	}

	provider, err := summarize.NewProvider(cfg.LLMProvider, cfg.LLMModel, cfg.APIKey())
	if err != nil {
		log.Fatalf("failed to initialize summarizer: %v", err)
	}

	coordinator := ingest.NewCoordinator(
		sourceStore,
		articleStore,
		feed.NewReader(),
		extract.NewExtractor(),
		summarize.NewClient(provider),
		cfg.SourceWorkers,
	)

	sched := scheduler.New(coordinator, cfg.Schedule)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	log.Printf("ainavd started (db=%s, provider=%s)", cfg.DBPath, cfg.LLMProvider)

	// Block until the process is asked to stop
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := sched.Stop(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}
}
