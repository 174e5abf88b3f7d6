package pdftext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ocrPDF rasterizes each page to PNG and runs tesseract over the images.
// Per-block font metrics are lost; each page becomes one block with
// MaxSize 0 and the caller's title selection must tolerate that.
func (e *Extractor) ocrPDF(ctx context.Context, path string, maxPages int) ([]TextBlock, error) {
	tmpDir, err := os.MkdirTemp("", "tm-pp-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("pdftext.ocr.tmp_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 200 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (stderr: %s)", err, truncate(string(errb), 1<<10))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if maxPages > 0 && len(matches) > maxPages {
		matches = matches[:maxPages]
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}

	var blocks []TextBlock
	for i, img := range matches {
		out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract,
			img, "stdout", "-l", e.cfg.TesseractLang)
		if err != nil {
			e.logger.Warn("pdftext.ocr.page_failed",
				"path", path, "page", i, "error", err, "stderr", truncate(string(errb), 1<<10))
			continue
		}
		text := strings.TrimSpace(string(out))
		if text == "" {
			continue
		}
		blocks = append(blocks, TextBlock{Text: text, MaxSize: 0, Page: i})
	}
	return blocks, nil
}
