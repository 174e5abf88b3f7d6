package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

const enrichWorkbook = `<?xml version='1.0' encoding='utf-8'?>
<workbook>
  <worksheet name='Profit Trend'/>
  <dashboard name='Executive Summary'/>
</workbook>`

func TestEnrichTagsFromWorkbookFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Finance.twb"), []byte(enrichWorkbook), 0o644); err != nil {
		t.Fatal(err)
	}

	dashboards := []Dashboard{
		{ID: "a", Tags: []string{"finance"}},
		{ID: "b", Tags: []string{"executive summary"}},
	}
	EnrichTagsFromWorkbookFile(dir, dashboards, nil)

	want := []string{"finance", "executive summary", "profit trend"}
	if len(dashboards[0].Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", dashboards[0].Tags, want)
	}
	for i, tag := range want {
		if dashboards[0].Tags[i] != tag {
			t.Errorf("tag %d = %q, want %q", i, dashboards[0].Tags[i], tag)
		}
	}
	// Case-insensitive merge must not duplicate existing tags.
	if len(dashboards[1].Tags) != 2 {
		t.Errorf("expected dedupe, got %v", dashboards[1].Tags)
	}
}

func TestEnrichTagsNoWorkbookFile(t *testing.T) {
	dashboards := []Dashboard{{ID: "a", Tags: []string{"finance"}}}
	EnrichTagsFromWorkbookFile(t.TempDir(), dashboards, nil)
	if len(dashboards[0].Tags) != 1 {
		t.Fatalf("tags changed without a definition file: %v", dashboards[0].Tags)
	}
}
