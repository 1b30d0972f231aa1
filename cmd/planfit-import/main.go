package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/planfit/internal/config"
	"github.com/meltforce/planfit/internal/importer"
	"github.com/meltforce/planfit/internal/ingest/coachplan"
	"github.com/meltforce/planfit/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	plansPath := flag.String("path", "", "path to a directory of plan .txt files (required)")
	discipline := flag.String("discipline", "", "discipline tag for imported plans (defaults to parser.default_discipline)")
	userID := flag.Int("user", 1, "user ID to import plans under")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *plansPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: planfit-import -config config.yaml -path /path/to/plans [-discipline cycling] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*plansPath)
	if err != nil || !info.IsDir() {
		log.Error("plans path does not exist or is not a directory", "path", *plansPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *discipline == "" {
		*discipline = cfg.Parser.DefaultDiscipline
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")

		imp := importer.New(nil, *discipline, *userID, true, log)
		stats, err := imp.Import(ctx, *plansPath)
		if err != nil {
			log.Error("import failed", "error", err)
			printStats(log, stats)
			os.Exit(1)
		}
		printStats(log, stats)
		log.Info("dry run complete")
		return
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Run import
	plans := coachplan.NewProvider(db, log)
	imp := importer.New(plans, *discipline, *userID, false, log)
	stats, err := imp.Import(ctx, *plansPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"plans_imported", stats.PlansImported,
		"plans_replaced", stats.PlansReplaced,
		"intervals_inserted", stats.IntervalsInserted,
		"findings_recorded", stats.FindingsRecorded,
	)
}
