package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pratish7991/TablueMeta/internal/embedding"
	"github.com/pratish7991/TablueMeta/internal/metadata"
)

// Builder embeds dashboard metadata and persists the resulting index.
type Builder struct {
	embedder embedding.Embedder
	store    *Store
	logger   *slog.Logger
}

func NewBuilder(embedder embedding.Embedder, store *Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{embedder: embedder, store: store, logger: logger}
}

// SummaryText is the text that gets embedded for one dashboard: name, tags,
// description, then one line per KPI.
func SummaryText(d metadata.Dashboard) string {
	var b strings.Builder
	b.WriteString(d.Name)
	if len(d.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(d.Tags, ", "))
	}
	if d.Description != "" {
		b.WriteString("\n")
		b.WriteString(d.Description)
	}
	for _, k := range d.KPIs {
		b.WriteString("\n")
		b.WriteString(k.Name)
		if k.Description != "" {
			b.WriteString(" - ")
			b.WriteString(k.Description)
		}
	}
	return b.String()
}

// Build embeds every dashboard in order and saves the index/metadata pair
// for workbook. Vector position i corresponds to dashboards[i].
func (b *Builder) Build(ctx context.Context, workbook string, dashboards []metadata.Dashboard) error {
	start := time.Now()
	b.logger.Info("index.build.start", "workbook", workbook, "dashboards", len(dashboards))

	ix := NewFlatIndex()
	for i, d := range dashboards {
		vec, err := b.embedder.Embed(ctx, SummaryText(d))
		if err != nil {
			return fmt.Errorf("embed dashboard %s: %w", d.ID, err)
		}
		if err := ix.Add(vec); err != nil {
			return fmt.Errorf("add dashboard %s at position %d: %w", d.ID, i, err)
		}
	}
	if err := b.store.Save(workbook, ix, dashboards); err != nil {
		return err
	}
	b.logger.Info("index.build.ok",
		"workbook", workbook,
		"vectors", ix.Count(),
		"dim", ix.Dim(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
