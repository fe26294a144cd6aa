package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ainav/navigator/articles"
	"github.com/ainav/navigator/config"
	"github.com/ainav/navigator/extract"
	"github.com/ainav/navigator/feed"
	"github.com/ainav/navigator/ingest"
	"github.com/ainav/navigator/sources"
	"github.com/ainav/navigator/summarize"
)

func handleRun(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show per-source errors")
	fs.Parse(args)

	sourceStore, err := sources.NewSourceStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open source store: %v\n", err)
		os.Exit(1)
	}
	defer sourceStore.Close()

	articleStore, err := articles.NewArticleStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open article store: %v\n", err)
		os.Exit(1)
	}
	defer articleStore.Close()

	provider, err := summarize.NewProvider(cfg.LLMProvider, cfg.LLMModel, cfg.APIKey())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	coordinator := ingest.NewCoordinator(
		sourceStore,
		articleStore,
		feed.NewReader(),
		extract.NewExtractor(),
		summarize.NewClient(provider),
		cfg.SourceWorkers,
	)

	fmt.Println("Running ingestion cycle...")
	result := coordinator.RunCycle(context.Background())

	fmt.Println()
	fmt.Println("Cycle completed:")
	fmt.Printf("  Sources processed: %d\n", result.SourcesProcessed)
	fmt.Printf("  Sources failed:    %d\n", result.SourcesFailed)
	fmt.Printf("  Articles added:    %d\n", result.ArticlesAdded)

	if len(result.Errors) > 0 && *verbose {
		fmt.Println()
		fmt.Println("Errors:")
		for _, srcErr := range result.Errors {
			name := srcErr.SourceName
			if name == "" {
				name = "(cycle)"
			}
			fmt.Printf("  - %s: %v\n", name, srcErr.Err)
		}
	}
}
