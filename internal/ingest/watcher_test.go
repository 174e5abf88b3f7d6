package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWorkbookFor(t *testing.T) {
	root := filepath.Join("data", "pdfs")
	cases := []struct {
		path string
		want string
	}{
		{filepath.Join(root, "Finance", "Revenue.pdf"), "Finance"},
		{filepath.Join(root, "Finance", "nested", "Deep.pdf"), "Finance"},
		{filepath.Join(root, "stray.pdf"), ""},
		{filepath.Join("elsewhere", "Finance", "Revenue.pdf"), ""},
	}
	for _, c := range cases {
		if got := WorkbookFor(root, c.path); got != c.want {
			t.Errorf("WorkbookFor(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

// A burst of creates with a short debounce exercises the timer-driven
// flush path; every report file must come out exactly where it went in.
func TestWatcherDeliversBurstsDebounced(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, errs, err := StartWatcher(ctx, WatchConfig{Root: root, Debounce: time.Millisecond})
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	const n = 120
	want := map[string]struct{}{}
	for i := 0; i < n; i++ {
		path := filepath.Join(root, fmt.Sprintf("report-%03d.pdf", i))
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
		want[path] = struct{}{}
	}

	seen := map[string]struct{}{}
	deadline := time.After(10 * time.Second)
	for len(seen) < n {
		select {
		case p, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed with %d/%d files seen", len(seen), n)
			}
			if _, expected := want[p]; !expected {
				t.Errorf("unexpected path %q", p)
			}
			seen[p] = struct{}{}
		case werr, ok := <-errs:
			if ok {
				t.Fatalf("watcher error: %v", werr)
			}
		case <-deadline:
			t.Fatalf("timed out with %d/%d files seen", len(seen), n)
		}
	}
}

func TestAllowedExtensions(t *testing.T) {
	if !allowed("report.PDF", defaultExts) {
		t.Error("extension match must be case-insensitive")
	}
	if allowed("notes.txt", defaultExts) {
		t.Error("non-report files must be ignored")
	}
	if allowed("noext", defaultExts) {
		t.Error("files without an extension must be ignored")
	}
}
