package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pratish7991/TablueMeta/internal/embedding"
	"github.com/pratish7991/TablueMeta/internal/metadata"
)

// Result pairs a matched dashboard with its squared L2 distance from the
// query. Smaller distance means a closer match.
type Result struct {
	Dashboard metadata.Dashboard
	Distance  float32
}

// SearchEngine answers semantic queries against a persisted workbook index.
type SearchEngine struct {
	embedder embedding.Embedder
	store    *Store
	logger   *slog.Logger
}

func NewSearchEngine(embedder embedding.Embedder, store *Store, logger *slog.Logger) *SearchEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchEngine{embedder: embedder, store: store, logger: logger}
}

// Search embeds query and returns up to topK dashboards from workbook,
// ordered by ascending distance. Index positions with no metadata entry
// (a store written by a newer index than its metadata) are skipped.
func (e *SearchEngine) Search(ctx context.Context, workbook, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	start := time.Now()

	ix, dashboards, err := e.store.Load(workbook)
	if err != nil {
		return nil, err
	}
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := ix.Search(vec, topK)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		if h.Position >= len(dashboards) {
			e.logger.Warn("search.stale_position", "workbook", workbook, "position", h.Position, "metadata_count", len(dashboards))
			continue
		}
		results = append(results, Result{Dashboard: dashboards[h.Position], Distance: h.Distance})
	}
	e.logger.Info("search.ok",
		"workbook", workbook,
		"results", len(results),
		"elapsed_ms", time.Since(start).Milliseconds())
	return results, nil
}
