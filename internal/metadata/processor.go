package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pratish7991/TablueMeta/constants"
)

// JobRecorder tracks per-file extraction runs. Satisfied by
// repository.JobLog; nil disables tracking.
type JobRecorder interface {
	Start(ctx context.Context, workbook, file, method string) (uuid.UUID, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, duration time.Duration) error
	FinishFailure(ctx context.Context, id uuid.UUID, message string) error
}

// WorkbookProcessor runs metadata extraction across the PDFs of workbook
// folders. Per-file failures are logged and skipped; a bad document never
// aborts the batch, so the output may be shorter than the PDF count.
type WorkbookProcessor struct {
	extractor FileExtractor
	jobs      JobRecorder
	logger    *slog.Logger
}

func NewWorkbookProcessor(extractor FileExtractor, jobs JobRecorder, logger *slog.Logger) *WorkbookProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookProcessor{extractor: extractor, jobs: jobs, logger: logger}
}

// Process extracts a Dashboard from every PDF in workbookDir, in
// directory-listing order. Order is not guaranteed sorted; Dashboard IDs
// carry identity, not position.
func (p *WorkbookProcessor) Process(ctx context.Context, workbookDir string) ([]Dashboard, error) {
	workbook := filepath.Base(filepath.Clean(workbookDir))

	entries, err := os.ReadDir(workbookDir)
	if err != nil {
		return nil, fmt.Errorf("read workbook folder: %w", err)
	}

	var dashboards []Dashboard
	for _, entry := range entries {
		if entry.IsDir() || !constants.IsPDF(entry.Name()) {
			continue
		}
		path := filepath.Join(workbookDir, entry.Name())

		jobID := p.startJob(ctx, workbook, entry.Name())
		start := time.Now()

		d, err := p.extractor.ExtractFile(ctx, workbook, path)
		if err != nil {
			p.failJob(ctx, jobID, err)
			p.logger.Error("metadata.process.file_failed",
				"workbook", workbook, "file", entry.Name(), "error", err)
			continue
		}

		p.finishJob(ctx, jobID, time.Since(start))
		dashboards = append(dashboards, d)
	}

	p.logger.Info("metadata.process.ok",
		"workbook", workbook, "dashboards", len(dashboards), "method", p.extractor.Method())
	return dashboards, nil
}

// ProcessAll walks every workbook subfolder under root and concatenates the
// extracted lists. The single-workbook scope narrows the walk to one folder.
func (p *WorkbookProcessor) ProcessAll(ctx context.Context, root string, scope Scope) ([]Dashboard, error) {
	if name, ok := scope.Workbook(); ok {
		return p.Process(ctx, filepath.Join(root, name))
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read workbook root: %w", err)
	}
	var all []Dashboard
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		out, err := p.Process(ctx, filepath.Join(root, entry.Name()))
		if err != nil {
			p.logger.Error("metadata.process.workbook_failed",
				"workbook", entry.Name(), "error", err)
			continue
		}
		all = append(all, out...)
	}
	return all, nil
}

// WriteDashboards persists the extracted list as dashboards.json inside the
// workbook folder.
func WriteDashboards(workbookDir string, dashboards []Dashboard) error {
	for i := range dashboards {
		dashboards[i].Normalize()
	}
	data, err := json.MarshalIndent(dashboards, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dashboards: %w", err)
	}
	out := filepath.Join(workbookDir, constants.DashboardsFileName)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", constants.DashboardsFileName, err)
	}
	return nil
}

// ReadDashboards loads a previously written dashboards.json.
func ReadDashboards(workbookDir string) ([]Dashboard, error) {
	data, err := os.ReadFile(filepath.Join(workbookDir, constants.DashboardsFileName))
	if err != nil {
		return nil, err
	}
	var dashboards []Dashboard
	if err := json.Unmarshal(data, &dashboards); err != nil {
		return nil, fmt.Errorf("decode %s: %w", constants.DashboardsFileName, err)
	}
	return dashboards, nil
}

func (p *WorkbookProcessor) startJob(ctx context.Context, workbook, file string) uuid.UUID {
	if p.jobs == nil {
		return uuid.Nil
	}
	id, err := p.jobs.Start(ctx, workbook, file, p.extractor.Method())
	if err != nil {
		p.logger.Warn("metadata.process.job_start_failed", "file", file, "error", err)
		return uuid.Nil
	}
	return id
}

func (p *WorkbookProcessor) finishJob(ctx context.Context, id uuid.UUID, dur time.Duration) {
	if p.jobs == nil || id == uuid.Nil {
		return
	}
	if err := p.jobs.FinishSuccess(ctx, id, dur); err != nil {
		p.logger.Warn("metadata.process.job_finish_failed", "job_id", id, "error", err)
	}
}

func (p *WorkbookProcessor) failJob(ctx context.Context, id uuid.UUID, cause error) {
	if p.jobs == nil || id == uuid.Nil {
		return
	}
	if err := p.jobs.FinishFailure(ctx, id, cause.Error()); err != nil {
		p.logger.Warn("metadata.process.job_finish_failed", "job_id", id, "error", err)
	}
}
