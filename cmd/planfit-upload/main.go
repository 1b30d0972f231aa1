package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/planfit/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "PlanFit server URL (e.g. https://planfit.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("PLANFIT_AUTH_API_KEY"), "API key for the ingest endpoint (defaults to PLANFIT_AUTH_API_KEY)")
	plansPath := flag.String("path", "", "path to a directory of plan .txt files")
	discipline := flag.String("discipline", "cycling", "discipline tag for uploaded plans")
	dryRun := flag.Bool("dry-run", false, "parse locally but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("planfit-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *plansPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: planfit-upload -server <URL> -path <plans dir> [-discipline cycling] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if !*dryRun {
		if *serverURL == "" {
			fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
			os.Exit(1)
		}
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: -api-key or PLANFIT_AUTH_API_KEY is required (or use -dry-run)\n")
			os.Exit(1)
		}
	}

	// Strip trailing slash from server URL
	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*plansPath)
	if err != nil || !info.IsDir() {
		log.Error("plans directory not found", "path", *plansPath)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".planfit-upload")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Create client (nil-safe in dry-run mode)
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, *apiKey)
	}

	if *dryRun {
		log.Info("DRY RUN mode — plans will be parsed but not sent")
	}

	// Run upload
	uploader := upload.New(client, state, *plansPath, *discipline, *dryRun, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Intervals parsed: %d\n", stats.IntervalsParsed)
	fmt.Printf("  Findings:         %d\n", stats.FindingsReported)
	fmt.Printf("  Plans replaced:   %d\n", stats.PlansReplaced)
	fmt.Println()
}
