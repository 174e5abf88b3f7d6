package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pratish7991/TablueMeta/constants"
)

func openTestLog(t *testing.T) *JobLog {
	t.Helper()
	log, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestJobLifecycleSuccess(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Start(ctx, "finance", "Revenue Overview.pdf", constants.MethodHeuristic)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := log.FinishSuccess(ctx, id, 1500*time.Millisecond); err != nil {
		t.Fatalf("finish: %v", err)
	}

	rows, err := log.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.ID != id || r.Workbook != "finance" || r.Method != constants.MethodHeuristic {
		t.Errorf("unexpected row: %+v", r)
	}
	if r.Status != constants.JobStatusExtractOK {
		t.Errorf("status = %s, want %s", r.Status, constants.JobStatusExtractOK)
	}
	if r.ElapsedMs != 1500 {
		t.Errorf("elapsed_ms = %d, want 1500", r.ElapsedMs)
	}
}

func TestJobLifecycleFailure(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	id, err := log.Start(ctx, "finance", "Broken.pdf", constants.MethodLLM)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := log.FinishFailure(ctx, id, "model output is not valid dashboard JSON"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	rows, err := log.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Status != constants.JobStatusFailed {
		t.Errorf("status = %s, want %s", rows[0].Status, constants.JobStatusFailed)
	}
	if rows[0].Error == "" {
		t.Error("failure message not recorded")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	if _, err := log.Start(ctx, "wb", "first.pdf", constants.MethodPDFText); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := log.Start(ctx, "wb", "second.pdf", constants.MethodPDFText); err != nil {
		t.Fatal(err)
	}

	rows, err := log.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].FileName != "second.pdf" {
		t.Fatalf("expected newest first, got %q", rows[0].FileName)
	}
}

func TestRecentLimit(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := log.Start(ctx, "wb", "f.pdf", constants.MethodPDFText); err != nil {
			t.Fatal(err)
		}
	}
	rows, err := log.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}
