package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pratish7991/TablueMeta/internal/config"
	"github.com/pratish7991/TablueMeta/internal/metadata"
	"github.com/pratish7991/TablueMeta/internal/pdftext"
	"github.com/pratish7991/TablueMeta/internal/twb"
)

// Debug tool: extract metadata from a single file and print it as JSON.
// Accepts a PDF export or a .twb/.twbx workbook definition.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <file.pdf|file.twb|file.twbx>")
		os.Exit(2)
	}
	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	var out any
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".twb", ".twbx":
		out, err = twb.ParseFile(path)
	default:
		cfg := config.Load()
		acquirer := pdftext.NewExtractor(pdftext.Config{
			Pdftoppm:  cfg.PDF.Pdftoppm,
			Tesseract: cfg.PDF.Tesseract,
			DPI:       cfg.PDF.DPI,
			MaxPages:  cfg.PDF.MaxPages,
		}, logger)
		extractor := metadata.NewHeuristicExtractor(acquirer, cfg.PDF.MaxPages, logger)
		workbook := filepath.Base(filepath.Dir(path))
		out, err = extractor.ExtractFile(ctx, workbook, path)
	}

	if err != nil {
		logger.Error("extraction failed", "file", path, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(data))

	logger.Info("extraction OK", "file", path, "duration_ms", time.Since(start).Milliseconds())
}
