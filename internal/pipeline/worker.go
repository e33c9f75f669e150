package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/orgview/internal/importer"
	"github.com/dgallion1/orgview/internal/org"
)

// Worker processes a single render job.
type Worker struct {
	importers importer.Config
	stats     *RenderStats
	log       *slog.Logger
}

func NewWorker(importers importer.Config, stats *RenderStats, log *slog.Logger) *Worker {
	return &Worker{
		importers: importers,
		stats:     stats,
		log:       log,
	}
}

// Process runs import, parse and render for a job. A cancelled context
// fails the job between phases.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Import
	job.SetStatus(StatusImporting, "importing")
	phaseStart := start
	imp, err := w.importers.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("importing", err, 0)
		return
	}
	source, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.Fail("importing", fmt.Errorf("import: %w", err), 0)
		return
	}
	job.setContentHash(ContentHashHex([]byte(source)))
	w.observe(PhaseImport, phaseStart)
	if w.cancelled(ctx, job, "importing") {
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	phaseStart = time.Now()
	doc, err := org.Parse(source, job.options)
	if err != nil {
		var perr *org.ParseError
		line := 0
		if errors.As(err, &perr) {
			line = perr.Line
		}
		log.Warn("parse failed", "error", err, "line", line)
		job.Fail("parsing", err, line)
		return
	}
	w.observe(PhaseParse, phaseStart)
	if w.cancelled(ctx, job, "parsing") {
		return
	}

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	phaseStart = time.Now()
	out, err := RenderDocument(doc, job.Format, job.export)
	if err != nil {
		log.Error("render failed", "error", err)
		job.Fail("rendering", err, 0)
		return
	}
	w.observe(PhaseRender, phaseStart)
	if w.cancelled(ctx, job, "rendering") {
		return
	}

	if w.stats != nil {
		w.stats.Rendered(job.Format)
	}
	job.complete(out, time.Since(start))
	log.Info("render complete", "title", out.Result.Title, "sections", out.Outline.Count(), "duration_ms", time.Since(start).Milliseconds())
}

func (w *Worker) observe(p Phase, since time.Time) {
	if w.stats != nil {
		w.stats.Observe(p, time.Since(since))
	}
}

func (w *Worker) cancelled(ctx context.Context, job *Job, phase string) bool {
	if err := ctx.Err(); err != nil {
		job.Fail(phase, fmt.Errorf("cancelled: %w", err), 0)
		return true
	}
	return false
}
