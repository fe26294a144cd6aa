package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ainav/navigator/config"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// CLI output goes to stdout; keep pipeline logs out of the way
	log.SetOutput(os.Stderr)

	subcommand := os.Args[1]
	switch subcommand {
	case "sources":
		if len(os.Args) < 3 {
			printSourcesUsage()
			os.Exit(1)
		}
		handleSourcesCommand(cfg, os.Args[2], os.Args[3:])
	case "articles":
		if len(os.Args) < 3 {
			printArticlesUsage()
			os.Exit(1)
		}
		handleArticlesCommand(cfg, os.Args[2], os.Args[3:])
	case "run":
		handleRun(cfg, os.Args[2:])
	case "summarize":
		handleSummarize(cfg, os.Args[2:])
	case "ask":
		handleAsk(cfg, os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("ainav - AI news ingestion CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ainav <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  sources    Manage news sources")
	fmt.Println("  articles   Browse ingested articles")
	fmt.Println("  run        Run one ingestion cycle now")
	fmt.Println("  summarize  Summarize a URL or text at a chosen knowledge level")
	fmt.Println("  ask        Ask a question, optionally about a stored article")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  AINAV_DB_PATH        Path to the SQLite database (default: ainav.db)")
	fmt.Println("  AINAV_LLM_PROVIDER   Summarizer provider: gemini or openai")
	fmt.Println("  GEMINI_API_KEY       API key for the gemini provider")
	fmt.Println("  OPENAI_API_KEY       API key for the openai provider")
}
