package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/pratish7991/TablueMeta/constants"
)

// minDirectTextLen is the cutoff below which a document's extracted text is
// considered unusable and the OCR fallback kicks in.
const minDirectTextLen = 50

// TextBlock is one extracted row of text with the largest font size seen
// across its glyph runs. OCR-produced blocks carry MaxSize 0 since
// rasterization loses font metrics.
type TextBlock struct {
	Text    string
	MaxSize float64
	Page    int // 0-based
}

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 200
	MaxPages      int    // 0 = no limit
}

// Extractor acquires text blocks from dashboard PDF exports, falling back to
// rasterization + OCR for image-only documents.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Acquire extracts text blocks from up to maxPages pages of the PDF at path.
// When the direct extraction yields less than minDirectTextLen characters in
// total, the document is treated as image-only and is rasterized + OCR'd
// instead, one pseudo-block per page.
func (e *Extractor) Acquire(ctx context.Context, path string, maxPages int) ([]TextBlock, error) {
	start := time.Now()
	if maxPages <= 0 {
		maxPages = e.cfg.MaxPages
	}

	blocks, err := e.directBlocks(path, maxPages)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	if totalTextLen(blocks) < minDirectTextLen {
		e.logger.Info("pdftext.acquire.ocr_fallback",
			"path", path, "direct_chars", totalTextLen(blocks))
		ocrBlocks, err := e.ocrPDF(ctx, path, maxPages)
		if err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}
		e.logger.Debug("pdftext.acquire.ok",
			"path", path, "method", constants.MethodPDFOCR, "blocks", len(ocrBlocks),
			"duration_ms", time.Since(start).Milliseconds())
		return ocrBlocks, nil
	}

	e.logger.Debug("pdftext.acquire.ok",
		"path", path, "method", constants.MethodPDFText, "blocks", len(blocks),
		"duration_ms", time.Since(start).Milliseconds())
	return blocks, nil
}

// directBlocks reads row-grouped text with font sizes via the pure-Go PDF
// reader. The library panics on some malformed files, so recover and report
// those as plain errors.
func (e *Extractor) directBlocks(path string, maxPages int) (blocks []TextBlock, err error) {
	defer func() {
		if r := recover(); r != nil {
			blocks, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if maxPages > 0 && i > maxPages {
			break
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			e.logger.Warn("pdftext.acquire.page_failed", "path", path, "page", i, "error", err)
			continue
		}
		for _, row := range rows {
			var b strings.Builder
			maxSize := 0.0
			for _, word := range row.Content {
				b.WriteString(word.S)
				if word.FontSize > maxSize {
					maxSize = word.FontSize
				}
			}
			text := collapseSpaces(b.String())
			if text == "" {
				continue
			}
			blocks = append(blocks, TextBlock{Text: text, MaxSize: maxSize, Page: i - 1})
		}
	}
	return blocks, nil
}

// JoinBlocks concatenates block texts with single spaces, the form the KPI
// detector and description fallback operate on.
func JoinBlocks(blocks []TextBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

func totalTextLen(blocks []TextBlock) int {
	n := 0
	for _, b := range blocks {
		n += len(strings.TrimSpace(b.Text))
	}
	return n
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
