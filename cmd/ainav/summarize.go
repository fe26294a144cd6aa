package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/ainav/navigator/articles"
	"github.com/ainav/navigator/config"
	"github.com/ainav/navigator/extract"
	"github.com/ainav/navigator/summarize"
)

// handleSummarize produces an on-demand summary of a URL or raw text at the
// caller's knowledge level. This is the personalized path; the pipeline
// always summarizes at Intermediate.
func handleSummarize(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	url := fs.String("url", "", "Article URL to fetch and summarize")
	text := fs.String("text", "", "Raw text to summarize")
	levelStr := fs.String("level", "Intermediate", "Knowledge level: Beginner, Intermediate, Expert")
	fs.Parse(args)

	if *url == "" && *text == "" {
		fmt.Fprintf(os.Stderr, "Error: either --url or --text must be provided\n")
		fs.Usage()
		os.Exit(1)
	}

	level, err := summarize.ParseLevel(*levelStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	content := *text
	if *url != "" && content == "" {
		result := extract.NewExtractor().Extract(context.Background(), *url)
		if result.Degraded {
			fmt.Fprintf(os.Stderr, "Error: failed to fetch article content from %s\n", *url)
			os.Exit(1)
		}
		content = result.Text
	}

	client, err := newSummarizeClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary := client.Summarize(context.Background(), content, level)
	fmt.Println(summary.Text)
	if summary.Degraded {
		os.Exit(1)
	}
}

// handleAsk answers a question, optionally grounded in a stored article.
func handleAsk(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	articleID := fs.String("article", "", "Article ID to use as context")
	fs.Parse(args)

	if len(fs.Args()) < 1 {
		fmt.Fprintf(os.Stderr, "Error: a question is required\n")
		fmt.Fprintf(os.Stderr, "Usage: ainav ask [--article <id>] \"question\"\n")
		os.Exit(1)
	}
	question := fs.Args()[0]

	articleContext := ""
	if *articleID != "" {
		id, err := uuid.Parse(*articleID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid article ID: %v\n", err)
			os.Exit(1)
		}

		store, err := articles.NewArticleStore(cfg.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open article store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		article, err := store.GetArticle(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		articleContext = article.Content
	}

	client, err := newSummarizeClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	answer := client.Ask(context.Background(), question, articleContext)
	fmt.Println(answer.Text)
	if answer.Degraded {
		os.Exit(1)
	}
}

func newSummarizeClient(cfg *config.Config) (*summarize.Client, error) {
	provider, err := summarize.NewProvider(cfg.LLMProvider, cfg.LLMModel, cfg.APIKey())
	if err != nil {
		return nil, err
	}
	return summarize.NewClient(provider), nil
}
