// Package importer bulk-loads plan text files straight into the
// database, bypassing the HTTP API. Used for initial backfills of a
// season's worth of plans on the server host.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meltforce/planfit/internal/ingest/coachplan"
	"github.com/meltforce/planfit/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	PlansImported     int
	PlansReplaced     int
	IntervalsInserted int64
	FindingsRecorded  int
}

// Importer reads plan .txt files from a directory tree and inserts
// their parsed intervals into the DB.
type Importer struct {
	plans      *coachplan.Provider
	log        *slog.Logger
	discipline string
	userID     int
	dryRun     bool
	stats      Stats
}

// New creates a new Importer. plans may be nil in dry-run mode.
func New(plans *coachplan.Provider, discipline string, userID int, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{
		plans:      plans,
		discipline: discipline,
		userID:     userID,
		dryRun:     dryRun,
		log:        log,
	}
}

// Import processes every .txt file under dir, in path order. The file
// name without its extension is the workout code.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		imp.importFile(ctx, path)
	}

	return &imp.stats, nil
}

// importFile ingests a single plan file. Errors are counted, logged and
// skipped so one bad file does not abort the backfill.
func (imp *Importer) importFile(ctx context.Context, path string) {
	imp.stats.FilesProcessed++

	data, err := os.ReadFile(path)
	if err != nil {
		imp.log.Warn("read failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return
	}
	if strings.TrimSpace(string(data)) == "" {
		imp.stats.FilesSkipped++
		return
	}

	code := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := models.Document{Text: string(data), Discipline: imp.discipline}

	if imp.dryRun {
		result := coachplan.Parse(doc)
		imp.log.Info("dry-run: would import plan",
			"code", code,
			"intervals", result.Total,
			"findings", len(result.Findings),
		)
		imp.stats.PlansImported++
		imp.stats.IntervalsInserted += int64(result.Total)
		imp.stats.FindingsRecorded += len(result.Findings)
		return
	}

	result, err := imp.plans.Ingest(ctx, code, doc, imp.userID)
	if err != nil {
		imp.log.Warn("import failed", "code", code, "error", err)
		imp.stats.FilesErrored++
		return
	}

	imp.stats.PlansImported++
	imp.stats.IntervalsInserted += result.IntervalsInserted
	imp.stats.FindingsRecorded += result.Findings
	if result.Replaced {
		imp.stats.PlansReplaced++
	}
}
