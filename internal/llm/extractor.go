package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pratish7991/TablueMeta/constants"
	"github.com/pratish7991/TablueMeta/internal/metadata"
)

// Extractor asks a TextGenerator for structured dashboard metadata and
// validates the response before trusting it.
type Extractor struct {
	gen    TextGenerator
	logger *slog.Logger
}

func NewExtractor(gen TextGenerator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{gen: gen, logger: logger}
}

// Extract sends the fixed instruction template to the model and parses the
// strict-JSON reply. Returns the parsed Dashboard plus the raw (fence-
// stripped) JSON bytes. Any parse or shape failure is a
// *MalformedOutputError.
func (e *Extractor) Extract(ctx context.Context, req ExtractRequest) (metadata.Dashboard, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	e.logger.Info("llm.extract.start",
		"req_id", rid,
		"dashboard_id", req.DashboardID,
		"workbook", req.WorkbookName,
		"text_len", len(req.Text),
	)

	out, err := e.gen.Generate(ctx, BuildPrompt(req))
	if err != nil {
		e.logger.Error("llm.extract.generate_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return metadata.Dashboard{}, nil, fmt.Errorf("generate: %w", err)
	}

	raw := []byte(StripCodeFence(out))

	if err := ValidateJSONAgainstSchema(BuildDashboardJSONSchema(), raw); err != nil {
		e.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return metadata.Dashboard{}, raw, &MalformedOutputError{Raw: string(raw), Err: err}
	}

	var d metadata.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		e.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return metadata.Dashboard{}, raw, &MalformedOutputError{Raw: string(raw), Err: err}
	}
	d.Normalize()

	e.logger.Info("llm.extract.ok",
		"req_id", rid,
		"dashboard_id", d.ID,
		"tags", len(d.Tags),
		"kpis", len(d.KPIs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return d, raw, nil
}

// DashboardExtractor adapts Extractor to the per-file contract the workbook
// processor drives, deriving the pinned id/name fields from the file path.
type DashboardExtractor struct {
	acquirer  metadata.TextAcquirer
	extractor *Extractor
	maxPages  int
	logger    *slog.Logger
}

func NewDashboardExtractor(acquirer metadata.TextAcquirer, extractor *Extractor, maxPages int, logger *slog.Logger) *DashboardExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPages <= 0 {
		maxPages = 10
	}
	return &DashboardExtractor{acquirer: acquirer, extractor: extractor, maxPages: maxPages, logger: logger}
}

func (e *DashboardExtractor) Method() string { return constants.MethodLLM }

func (e *DashboardExtractor) ExtractFile(ctx context.Context, workbook, path string) (metadata.Dashboard, error) {
	blocks, err := e.acquirer.Acquire(ctx, path, e.maxPages)
	if err != nil {
		return metadata.Dashboard{}, err
	}

	var lines []string
	for _, b := range blocks {
		if b.Text != "" {
			lines = append(lines, b.Text)
		}
	}

	fileName := filepath.Base(path)
	stem := constants.FileStem(fileName)

	d, _, err := e.extractor.Extract(ctx, ExtractRequest{
		Text:          strings.Join(lines, "\n"),
		DashboardID:   metadata.DashboardID(workbook, stem),
		DashboardName: stem,
		WorkbookName:  workbook,
		FileName:      fileName,
	})
	if err != nil {
		return metadata.Dashboard{}, err
	}
	return d, nil
}

var _ metadata.FileExtractor = (*DashboardExtractor)(nil)
