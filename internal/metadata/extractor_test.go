package metadata

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pratish7991/TablueMeta/internal/pdftext"
)

type stubAcquirer struct {
	blocks []pdftext.TextBlock
}

func (s *stubAcquirer) Acquire(ctx context.Context, path string, maxPages int) ([]pdftext.TextBlock, error) {
	return s.blocks, nil
}

func TestExcerptKeepsRuneBoundaries(t *testing.T) {
	// 3-byte runes; 500 bytes lands mid-rune, the cut must back up to 498.
	text := strings.Repeat("€", 200)
	got := excerpt(text, 500)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt split a rune: ...%q", got[len(got)-4:])
	}
	if len(got) != 498 {
		t.Errorf("len = %d, want 498", len(got))
	}
	if !strings.HasPrefix(text, got) {
		t.Error("excerpt is not a prefix of its input")
	}
	if short := excerpt("short", 500); short != "short" {
		t.Errorf("short input changed: %q", short)
	}
}

func TestHeuristicDescriptionFallbackIsValidUTF8(t *testing.T) {
	long := strings.Repeat("€", 300)
	acq := &stubAcquirer{blocks: []pdftext.TextBlock{{Text: long, MaxSize: 12, Page: 0}}}
	e := NewHeuristicExtractor(acq, 10, nil)

	d, err := e.ExtractFile(context.Background(), "Finance", "Finance/Overview.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !utf8.ValidString(d.Description) {
		t.Fatal("fallback description is not valid UTF-8")
	}
	if !strings.HasSuffix(d.Description, "...") {
		t.Errorf("expected excerpt suffix, got %q", d.Description[len(d.Description)-8:])
	}
}
