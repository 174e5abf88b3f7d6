package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubExtractor struct {
	failOn string
	calls  []string
}

func (s *stubExtractor) Method() string { return "stub" }

func (s *stubExtractor) ExtractFile(ctx context.Context, workbook, path string) (Dashboard, error) {
	name := filepath.Base(path)
	s.calls = append(s.calls, name)
	if name == s.failOn {
		return Dashboard{}, errors.New("boom")
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	d := Dashboard{ID: DashboardID(workbook, stem), Name: stem}
	d.Normalize()
	return d, nil
}

func writePDFs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestProcessSkipsFailedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Finance Workbook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writePDFs(t, dir, "Revenue Overview.pdf", "Broken.pdf", "Churn.pdf", "notes.txt")

	ext := &stubExtractor{failOn: "Broken.pdf"}
	p := NewWorkbookProcessor(ext, nil, nil)

	dashboards, err := p.Process(context.Background(), dir)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(dashboards) != 2 {
		t.Fatalf("expected 2 dashboards, got %d", len(dashboards))
	}
	if len(ext.calls) != 3 {
		t.Fatalf("expected 3 PDF attempts, got %v", ext.calls)
	}
	for _, c := range ext.calls {
		if c == "notes.txt" {
			t.Error("non-PDF file was handed to the extractor")
		}
	}
}

func TestDashboardIDDerivation(t *testing.T) {
	got := DashboardID("Finance Workbook", "Revenue Overview Q1")
	want := "finance_workbook_revenue_overview_q1"
	if got != want {
		t.Fatalf("DashboardID = %q, want %q", got, want)
	}
}

func TestWriteReadDashboardsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := []Dashboard{
		{ID: "wb_a", Name: "A", Tags: []string{"sales"}, KPIs: []Kpi{{Name: "Revenue"}}},
		{ID: "wb_b", Name: "B"},
	}
	if err := WriteDashboards(dir, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadDashboards(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 2 || out[0].ID != "wb_a" || out[1].Name != "B" {
		t.Fatalf("unexpected round trip: %+v", out)
	}
	// Normalize keeps slices non-nil in the written form
	if out[1].Tags == nil || out[1].KPIs == nil {
		t.Errorf("expected empty slices, got %+v", out[1])
	}
}

func TestProcessAllSingleWorkbookScope(t *testing.T) {
	root := t.TempDir()
	for _, wb := range []string{"alpha", "beta"} {
		dir := filepath.Join(root, wb)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		writePDFs(t, dir, wb+".pdf")
	}

	ext := &stubExtractor{}
	p := NewWorkbookProcessor(ext, nil, nil)

	out, err := p.ProcessAll(context.Background(), root, SingleWorkbook("alpha"))
	if err != nil {
		t.Fatalf("process all: %v", err)
	}
	if len(out) != 1 || out[0].ID != "alpha_alpha" {
		t.Fatalf("unexpected scoped result: %+v", out)
	}

	ext.calls = nil
	all, err := p.ProcessAll(context.Background(), root, AllWorkbooks())
	if err != nil {
		t.Fatalf("process all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 dashboards across workbooks, got %d", len(all))
	}
}
