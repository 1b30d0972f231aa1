package upload

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/planfit/internal/ingest/coachplan"
	"github.com/meltforce/planfit/internal/models"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	IntervalsParsed  int64
	FindingsReported int
	PlansReplaced    int
}

// Uploader walks a directory of plan text files and POSTs each one to
// the PlanFit server. The workout code is the file name without its
// extension; the file content is the raw plan text.
type Uploader struct {
	client     *Client
	state      *StateDB
	plansDir   string
	discipline string
	dryRun     bool
	log        *slog.Logger
	stats      Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, plansDir, discipline string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client:     client,
		state:      state,
		plansDir:   plansDir,
		discipline: discipline,
		dryRun:     dryRun,
		log:        log,
	}
}

// Run executes the upload pipeline.
func (u *Uploader) Run() (*Stats, error) {
	err := filepath.WalkDir(u.plansDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		u.processFile(path)
		return nil
	})
	if err != nil {
		return &u.stats, fmt.Errorf("walking %s: %w", u.plansDir, err)
	}
	return &u.stats, nil
}

// processFile uploads a single plan file unless the state DB says this
// exact content was already sent. Errors are counted, logged and
// skipped so one bad file does not abort the run.
func (u *Uploader) processFile(path string) {
	u.stats.FilesTotal++

	relPath, _ := filepath.Rel(u.plansDir, path)
	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}
	if uploaded {
		u.stats.FilesSkipped++
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	code := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if u.dryRun {
		// Parse locally so a dry run still reports what the server would see.
		result := coachplan.Parse(models.Document{
			Text:       string(data),
			Discipline: u.discipline,
		})
		u.log.Info("dry-run: would upload plan",
			"code", code,
			"intervals", result.Total,
			"findings", len(result.Findings),
		)
		u.stats.IntervalsParsed += int64(result.Total)
		u.stats.FindingsReported += len(result.Findings)
		u.stats.FilesUploaded++
		return
	}

	result, err := u.client.SendPlan(PlanPayload{
		Code:       code,
		Discipline: u.discipline,
		Text:       string(data),
	})
	if err != nil {
		u.log.Warn("upload failed", "code", code, "error", err)
		u.stats.FilesErrored++
		return
	}

	if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}

	u.stats.FilesUploaded++
	u.stats.IntervalsParsed += result.IntervalsParsed
	u.stats.FindingsReported += result.Findings
	if result.Replaced {
		u.stats.PlansReplaced++
	}

	u.log.Info("uploaded plan",
		"code", code,
		"intervals", result.IntervalsParsed,
		"findings", result.Findings,
		"replaced", result.Replaced,
	)
}
