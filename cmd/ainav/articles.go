package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ainav/navigator/articles"
	"github.com/ainav/navigator/config"
)

func handleArticlesCommand(cfg *config.Config, action string, args []string) {
	store, err := articles.NewArticleStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open article store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch action {
	case "list":
		handleArticlesList(store, args)
	case "help", "--help", "-h":
		printArticlesUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown articles command: %s\n\n", action)
		printArticlesUsage()
		os.Exit(1)
	}
}

func printArticlesUsage() {
	fmt.Println("ainav articles - Browse ingested articles")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ainav articles list [--trending] [--categories a,b] [--limit n] [--skip n]")
}

func handleArticlesList(store *articles.ArticleStore, args []string) {
	fs := flag.NewFlagSet("articles list", flag.ExitOnError)
	trendingOnly := fs.Bool("trending", false, "Only show trending articles")
	categories := fs.String("categories", "", "Comma-separated category filter")
	limit := fs.Int("limit", 20, "Maximum articles to show")
	skip := fs.Int("skip", 0, "Articles to skip")
	fs.Parse(args)

	filter := articles.ArticleFilter{Limit: *limit, Skip: *skip}
	if *trendingOnly {
		trending := true
		filter.Trending = &trending
	}
	if *categories != "" {
		filter.Categories = strings.Split(*categories, ",")
	}

	list, err := store.FindArticles(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list articles: %v\n", err)
		os.Exit(1)
	}

	if len(list) == 0 {
		fmt.Println("No articles found.")
		return
	}

	for _, a := range list {
		marker := " "
		if a.Trending {
			marker = "*"
		}
		published := "unknown"
		if a.PublishedAt != nil {
			published = a.PublishedAt.Format("2006-01-02 15:04")
		}

		fmt.Printf("%s %-16s %s\n", marker, published, a.Title)
		fmt.Printf("  %s (%s)\n", a.URL, a.SourceName)
		if a.Summary != "" {
			fmt.Printf("  %s\n", a.Summary)
		}
		fmt.Println()
	}
}
