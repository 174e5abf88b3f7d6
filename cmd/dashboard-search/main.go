package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/pratish7991/TablueMeta/internal/ai"
	"github.com/pratish7991/TablueMeta/internal/config"
	"github.com/pratish7991/TablueMeta/internal/index"
	"github.com/pratish7991/TablueMeta/internal/tui"
)

func main() {
	var (
		workbook = flag.String("workbook", "", "workbook whose index to search (required)")
		query    = flag.String("query", "", "one-shot query; omit for the interactive console")
		topK     = flag.Int("top", 5, "number of results to return")
	)
	flag.Parse()

	_ = godotenv.Load()

	// The interactive console owns the terminal; only the one-shot mode logs.
	var logger *slog.Logger
	if *query != "" {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		logger = slog.New(slog.NewJSONHandler(discard{}, nil))
	}
	slog.SetDefault(logger)

	if *workbook == "" {
		fmt.Fprintln(os.Stderr, "Error: --workbook is required")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.ValidateForAI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	gemini, err := ai.NewClient(ctx, ai.Config{
		APIKey:         cfg.AI.APIKey,
		EmbeddingModel: cfg.AI.EmbeddingModel,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer gemini.Close()

	store := index.NewStore(cfg.Paths.EmbeddingsRoot)
	engine := index.NewSearchEngine(gemini, store, logger)

	if *query != "" {
		results, err := engine.Search(ctx, *workbook, *query, *topK)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for i, r := range results {
			d := r.Dashboard
			fmt.Printf("%d. %s (distance %.4f)\n   id: %s\n", i+1, d.Name, r.Distance, d.ID)
			if d.Description != "" {
				fmt.Printf("   %s\n", d.Description)
			}
			for _, k := range d.KPIs {
				fmt.Printf("   KPI: %s", k.Name)
				if k.Description != "" {
					fmt.Printf(" - %s", k.Description)
				}
				fmt.Println()
			}
		}
		return
	}

	program := tea.NewProgram(tui.New(engine, *workbook, *topK), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
