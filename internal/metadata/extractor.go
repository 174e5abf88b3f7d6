package metadata

import (
	"context"
	"log/slog"
	"path/filepath"
	"unicode/utf8"

	"github.com/pratish7991/TablueMeta/constants"
	"github.com/pratish7991/TablueMeta/internal/pdftext"
)

// descriptionExcerptLen bounds the raw-text fallback description.
const descriptionExcerptLen = 500

// TextAcquirer is the acquisition dependency; *pdftext.Extractor in
// production, stubbed in tests.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string, maxPages int) ([]pdftext.TextBlock, error)
}

// FileExtractor turns one PDF into a Dashboard record. Implemented by the
// heuristic extractor here and the model-assisted extractor in the llm
// package.
type FileExtractor interface {
	ExtractFile(ctx context.Context, workbook, path string) (Dashboard, error)
	Method() string
}

// HeuristicExtractor derives dashboard metadata from layout and pattern
// heuristics alone, with no network collaborators.
type HeuristicExtractor struct {
	acquirer TextAcquirer
	maxPages int
	logger   *slog.Logger
}

func NewHeuristicExtractor(acquirer TextAcquirer, maxPages int, logger *slog.Logger) *HeuristicExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPages <= 0 {
		maxPages = 10
	}
	return &HeuristicExtractor{acquirer: acquirer, maxPages: maxPages, logger: logger}
}

func (e *HeuristicExtractor) Method() string { return constants.MethodHeuristic }

// ExtractFile acquires text blocks and assembles a Dashboard: title from the
// largest-font block, description from the first few distinct blocks, KPIs
// from layered pattern detection. Filename and a raw-text excerpt stand in
// when the layout heuristics come up empty.
func (e *HeuristicExtractor) ExtractFile(ctx context.Context, workbook, path string) (Dashboard, error) {
	blocks, err := e.acquirer.Acquire(ctx, path, e.maxPages)
	if err != nil {
		return Dashboard{}, err
	}

	fileName := filepath.Base(path)
	stem := constants.FileStem(fileName)
	fullText := pdftext.JoinBlocks(blocks)

	title, description := ChooseTitleDescription(blocks)
	if title == "" {
		title = stem
	}
	if description == "" {
		description = excerpt(fullText, descriptionExcerptLen) + "..."
	}

	d := Dashboard{
		ID:          DashboardID(workbook, stem),
		Name:        title,
		Description: description,
		URL:         workbook + "/" + fileName,
		KPIs:        DetectKPIs(fullText),
	}
	d.Normalize()

	e.logger.Debug("metadata.extract.ok",
		"method", e.Method(), "id", d.ID, "kpis", len(d.KPIs), "blocks", len(blocks))
	return d, nil
}

// excerpt cuts s at n bytes, backing up to a rune boundary so the result
// stays valid UTF-8.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
