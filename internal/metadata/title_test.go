package metadata

import (
	"testing"

	"github.com/pratish7991/TablueMeta/internal/pdftext"
)

func TestChooseTitleLargestFontOnFirstPage(t *testing.T) {
	blocks := []pdftext.TextBlock{
		{Text: "A", MaxSize: 10, Page: 0},
		{Text: "B", MaxSize: 20, Page: 0},
		{Text: "C", MaxSize: 15, Page: 1},
	}
	title, description := ChooseTitleDescription(blocks)
	if title != "B" {
		t.Fatalf("expected title B, got %q", title)
	}
	if description != "A C" {
		t.Errorf("expected description from non-title blocks, got %q", description)
	}
}

func TestChooseTitleTieKeepsReadingOrder(t *testing.T) {
	blocks := []pdftext.TextBlock{
		{Text: "First", MaxSize: 12, Page: 0},
		{Text: "Second", MaxSize: 12, Page: 0},
	}
	title, _ := ChooseTitleDescription(blocks)
	if title != "First" {
		t.Fatalf("expected tie to keep reading order, got %q", title)
	}
}

func TestChooseTitleFallsBackToAllPages(t *testing.T) {
	blocks := []pdftext.TextBlock{
		{Text: "Later page heading", MaxSize: 18, Page: 2},
		{Text: "body", MaxSize: 9, Page: 2},
	}
	title, _ := ChooseTitleDescription(blocks)
	if title != "Later page heading" {
		t.Fatalf("expected fallback to whole document, got %q", title)
	}
}

func TestChooseTitleDescriptionCapsAndDedupes(t *testing.T) {
	blocks := []pdftext.TextBlock{
		{Text: "Title", MaxSize: 30, Page: 0},
		{Text: "one", MaxSize: 10, Page: 0},
		{Text: "one", MaxSize: 10, Page: 0},
		{Text: "two", MaxSize: 10, Page: 0},
		{Text: "three", MaxSize: 10, Page: 1},
		{Text: "four", MaxSize: 10, Page: 1},
		{Text: "five", MaxSize: 10, Page: 1},
	}
	_, description := ChooseTitleDescription(blocks)
	if description != "one two three four" {
		t.Fatalf("expected four distinct blocks, got %q", description)
	}
}

func TestChooseTitleEmptyInput(t *testing.T) {
	title, description := ChooseTitleDescription(nil)
	if title != "" || description != "" {
		t.Fatalf("expected empty results, got %q / %q", title, description)
	}
}
