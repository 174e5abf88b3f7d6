package metadata

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pratish7991/TablueMeta/internal/twb"
)

// EnrichTagsFromWorkbookFile looks for a workbook definition (.twb/.twbx)
// inside workbookDir and merges its dashboard/worksheet names into every
// dashboard's tags. Missing or unreadable definitions are not an error;
// the PDFs alone already carry the required metadata.
func EnrichTagsFromWorkbookFile(workbookDir string, dashboards []Dashboard, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	path := findWorkbookFile(workbookDir)
	if path == "" {
		return
	}
	meta, err := twb.ParseFile(path)
	if err != nil {
		logger.Warn("metadata.enrich.parse_failed", "file", path, "error", err)
		return
	}
	tags := meta.Tags()
	if len(tags) == 0 {
		return
	}
	for i := range dashboards {
		dashboards[i].Tags = mergeTags(dashboards[i].Tags, tags)
	}
	logger.Info("metadata.enrich.ok", "file", filepath.Base(path), "tags", len(tags))
}

func findWorkbookFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".twb", ".twbx":
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

func mergeTags(existing, extra []string) []string {
	seen := map[string]struct{}{}
	for _, t := range existing {
		seen[strings.ToLower(t)] = struct{}{}
	}
	out := existing
	for _, t := range extra {
		if _, ok := seen[strings.ToLower(t)]; ok {
			continue
		}
		seen[strings.ToLower(t)] = struct{}{}
		out = append(out, t)
	}
	return out
}
