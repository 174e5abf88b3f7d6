package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/pratish7991/TablueMeta/internal/ai"
	"github.com/pratish7991/TablueMeta/internal/config"
	"github.com/pratish7991/TablueMeta/internal/export"
	"github.com/pratish7991/TablueMeta/internal/index"
	"github.com/pratish7991/TablueMeta/internal/ingest"
	"github.com/pratish7991/TablueMeta/internal/llm"
	"github.com/pratish7991/TablueMeta/internal/metadata"
	"github.com/pratish7991/TablueMeta/internal/pdftext"
	"github.com/pratish7991/TablueMeta/internal/repository"
)

// watchDebounce coalesces the save bursts editors and export tools produce.
const watchDebounce = 2 * time.Second

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		root     = flag.String("root", "", "PDF root directory, one subfolder per workbook (defaults to PDF_ROOT)")
		workbook = flag.String("workbook", "", "process a single workbook folder instead of all")
		useLLM   = flag.Bool("llm", false, "extract metadata with the Gemini model instead of heuristics")
		exportTo = flag.String("export", "", "also write an XLSX catalog of all indexed dashboards to this path")
		watch    = flag.Bool("watch", false, "keep running and reprocess workbooks when their PDFs change")
		listJobs = flag.Int("jobs", 0, "print the N most recent extract jobs and exit")
	)
	flag.Parse()

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if *root == "" {
		*root = cfg.Paths.PDFRoot
	}

	// Listing past jobs needs only the local database, no API key.
	if *listJobs > 0 {
		if cfg.Jobs.DBPath == "" {
			printError("Error: JOBS_DB_PATH is not set\n")
			os.Exit(1)
		}
		jobLog, err := repository.Open(cfg.Jobs.DBPath)
		if err != nil {
			logger.Error("failed to open job log", "error", err)
			os.Exit(1)
		}
		defer jobLog.Close()
		rows, err := jobLog.Recent(context.Background(), *listJobs)
		if err != nil {
			logger.Error("failed to list jobs", "error", err)
			os.Exit(1)
		}
		for _, r := range rows {
			line := fmt.Sprintf("%s  %-10s %-9s %s/%s (%d ms)",
				r.StartedAt.Format(time.RFC3339), r.Status, r.Method, r.Workbook, r.FileName, r.ElapsedMs)
			if r.Error != "" {
				line += "  " + r.Error
			}
			fmt.Println(line)
		}
		return
	}

	if err := cfg.ValidateForAI(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	gemini, err := ai.NewClient(ctx, ai.Config{
		APIKey:         cfg.AI.APIKey,
		GenerateModel:  cfg.AI.GenerateModel,
		EmbeddingModel: cfg.AI.EmbeddingModel,
	}, logger)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer gemini.Close()

	acquirer := pdftext.NewExtractor(pdftext.Config{
		Pdftoppm:  cfg.PDF.Pdftoppm,
		Tesseract: cfg.PDF.Tesseract,
		DPI:       cfg.PDF.DPI,
		MaxPages:  cfg.PDF.MaxPages,
	}, logger)

	var extractor metadata.FileExtractor
	if *useLLM {
		extractor = llm.NewDashboardExtractor(acquirer, llm.NewExtractor(gemini, logger), cfg.PDF.MaxPages, logger)
	} else {
		extractor = metadata.NewHeuristicExtractor(acquirer, cfg.PDF.MaxPages, logger)
	}

	var jobs metadata.JobRecorder
	if cfg.Jobs.DBPath != "" {
		jobLog, err := repository.Open(cfg.Jobs.DBPath)
		if err != nil {
			logger.Error("failed to open job log", "error", err)
			os.Exit(1)
		}
		defer jobLog.Close()
		jobs = jobLog
	}

	processor := metadata.NewWorkbookProcessor(extractor, jobs, logger)
	store := index.NewStore(cfg.Paths.EmbeddingsRoot)
	builder := index.NewBuilder(gemini, store, logger)

	runWorkbook := func(name string) error {
		dir := filepath.Join(*root, name)
		dashboards, err := processor.Process(ctx, dir)
		if err != nil {
			return err
		}
		if len(dashboards) == 0 {
			logger.Warn("no dashboards extracted", "workbook", name)
			return nil
		}
		metadata.EnrichTagsFromWorkbookFile(dir, dashboards, logger)
		if err := metadata.WriteDashboards(dir, dashboards); err != nil {
			return err
		}
		return builder.Build(ctx, name, dashboards)
	}

	runAll := func() {
		var names []string
		if *workbook != "" {
			names = []string{*workbook}
		} else {
			entries, err := os.ReadDir(*root)
			if err != nil {
				logger.Error("failed to read PDF root", "root", *root, "error", err)
				os.Exit(1)
			}
			for _, e := range entries {
				if e.IsDir() {
					names = append(names, e.Name())
				}
			}
		}
		for _, name := range names {
			if err := runWorkbook(name); err != nil {
				logger.Error("workbook processing failed", "workbook", name, "error", err)
			}
		}
	}

	runAll()

	if *exportTo != "" {
		svc := export.NewService(store, logger)
		data, err := svc.ExportCatalogXLSX(ctx)
		if err != nil {
			logger.Error("catalog export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*exportTo, data, 0o644); err != nil {
			logger.Error("failed to write catalog file", "path", *exportTo, "error", err)
			os.Exit(1)
		}
		logger.Info("catalog written", "path", *exportTo)
	}

	if !*watch {
		return
	}

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:     *root,
		Debounce: watchDebounce,
	})
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	logger.Info("watching for report changes", "root", *root)

	for {
		select {
		case path, ok := <-events:
			if !ok {
				return
			}
			name := ingest.WorkbookFor(*root, path)
			if name == "" {
				continue
			}
			logger.Info("report changed, reprocessing workbook", "workbook", name, "file", path)
			if err := runWorkbook(name); err != nil {
				logger.Error("workbook reprocessing failed", "workbook", name, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
