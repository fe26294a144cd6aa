package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/ainav/navigator/config"
	"github.com/ainav/navigator/sources"
)

func handleSourcesCommand(cfg *config.Config, action string, args []string) {
	store, err := sources.NewSourceStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open source store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch action {
	case "list":
		handleSourcesList(store, args)
	case "add":
		handleSourcesAdd(store, args)
	case "enable":
		handleSourcesSetEnabled(store, args, true)
	case "disable":
		handleSourcesSetEnabled(store, args, false)
	case "help", "--help", "-h":
		printSourcesUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown sources command: %s\n\n", action)
		printSourcesUsage()
		os.Exit(1)
	}
}

func printSourcesUsage() {
	fmt.Println("ainav sources - Manage news sources")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ainav sources <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  list       List all sources")
	fmt.Println("  add        Add a new source")
	fmt.Println("  enable     Enable a source by ID")
	fmt.Println("  disable    Disable a source by ID")
	fmt.Println("  help       Show this help message")
}

func handleSourcesList(store *sources.SourceStore, args []string) {
	fs := flag.NewFlagSet("sources list", flag.ExitOnError)
	enabledOnly := fs.Bool("enabled", false, "Only show enabled sources")
	fs.Parse(args)

	filter := sources.SourceFilter{}
	if *enabledOnly {
		enabled := true
		filter.Enabled = &enabled
	}

	list, err := store.ListSources(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list sources: %v\n", err)
		os.Exit(1)
	}

	if len(list) == 0 {
		fmt.Println("No sources configured.")
		return
	}

	fmt.Printf("%-36s %-8s %-30s %-15s %s\n", "ID", "ENABLED", "NAME", "CATEGORY", "FEED")
	fmt.Println("----------------------------------------------------------------------------------------------------")

	for _, source := range list {
		name := source.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		feedURL := "(none)"
		if source.FeedURL != nil {
			feedURL = *source.FeedURL
		}
		enabled := "no"
		if source.Enabled {
			enabled = "yes"
		}

		fmt.Printf("%-36s %-8s %-30s %-15s %s\n",
			source.ID.String(), enabled, name, source.Category, feedURL)
	}
}

func handleSourcesAdd(store *sources.SourceStore, args []string) {
	fs := flag.NewFlagSet("sources add", flag.ExitOnError)
	name := fs.String("name", "", "Source name")
	url := fs.String("url", "", "Source site URL")
	feedURL := fs.String("feed", "", "RSS/Atom feed URL (optional)")
	category := fs.String("category", "", "Category tag")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Error: --name is required\n")
		fs.Usage()
		os.Exit(1)
	}
	if *url == "" {
		fmt.Fprintf(os.Stderr, "Error: --url is required\n")
		fs.Usage()
		os.Exit(1)
	}

	var feed *string
	if *feedURL != "" {
		feed = feedURL
	}

	source, err := store.CreateSource(*name, *url, feed, *category, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create source: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created source: %s\n", source.ID.String())
	fmt.Printf("  Name: %s\n", source.Name)
	fmt.Printf("  URL: %s\n", source.URL)
	if source.FeedURL != nil {
		fmt.Printf("  Feed: %s\n", *source.FeedURL)
	}
}

func handleSourcesSetEnabled(store *sources.SourceStore, args []string, enabled bool) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: source ID is required\n")
		os.Exit(1)
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid source ID: %v\n", err)
		os.Exit(1)
	}

	if err := store.SetEnabled(id, enabled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to update source: %v\n", err)
		os.Exit(1)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("Source %s %s\n", args[0], state)
}
