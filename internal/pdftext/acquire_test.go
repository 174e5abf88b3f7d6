package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// fakeRunner pretends to be pdftoppm/tesseract: the rasterizer call writes
// placeholder images, the OCR call returns canned text per image.
type fakeRunner struct {
	pages      int
	textByPage map[string]string
	ocrErrOn   string
	calls      []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	switch filepath.Base(name) {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			img := fmt.Sprintf("%s-%d.png", prefix, i)
			if err := os.WriteFile(img, []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		img := filepath.Base(args[0])
		if img == f.ocrErrOn {
			return nil, []byte("ocr blew up"), errors.New("exit status 1")
		}
		return []byte(f.textByPage[img]), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %s", name)
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{DPI: 200, MaxPages: 10}, nil)
	e.runner = r
	return e
}

func TestOCRProducesOneBlockPerPage(t *testing.T) {
	runner := &fakeRunner{
		pages: 2,
		textByPage: map[string]string{
			"page-1.png": "Revenue Overview",
			"page-2.png": "Churn by region",
		},
	}
	e := newTestExtractor(runner)

	blocks, err := e.ocrPDF(context.Background(), "scan.pdf", 0)
	if err != nil {
		t.Fatalf("ocr: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text != "Revenue Overview" || blocks[0].Page != 0 {
		t.Errorf("unexpected first block: %+v", blocks[0])
	}
	if blocks[1].Page != 1 || blocks[1].MaxSize != 0 {
		t.Errorf("rasterized pages carry no font metrics: %+v", blocks[1])
	}
}

func TestOCRSkipsFailedPages(t *testing.T) {
	runner := &fakeRunner{
		pages: 3,
		textByPage: map[string]string{
			"page-1.png": "first",
			"page-3.png": "third",
		},
		ocrErrOn: "page-2.png",
	}
	e := newTestExtractor(runner)

	blocks, err := e.ocrPDF(context.Background(), "scan.pdf", 0)
	if err != nil {
		t.Fatalf("ocr: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("a single bad page must not abort the document, got %d blocks", len(blocks))
	}
	if blocks[1].Text != "third" || blocks[1].Page != 2 {
		t.Errorf("page numbering lost after skip: %+v", blocks[1])
	}
}

func TestOCRHonorsPageCap(t *testing.T) {
	runner := &fakeRunner{
		pages: 5,
		textByPage: map[string]string{
			"page-1.png": "one", "page-2.png": "two", "page-3.png": "three",
			"page-4.png": "four", "page-5.png": "five",
		},
	}
	e := newTestExtractor(runner)

	blocks, err := e.ocrPDF(context.Background(), "scan.pdf", 2)
	if err != nil {
		t.Fatalf("ocr: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected the page cap to apply, got %d blocks", len(blocks))
	}
}

// writeTextlessPDF writes a structurally valid single-page PDF whose page
// content carries no text operators, the shape a scanned export takes.
// Offsets are computed while writing so the xref table stays correct.
func writeTextlessPDF(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 5)
	buf.WriteString("%PDF-1.4\n")
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>")
	const stream = "0 0 m"
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))

	xrefOff := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOff)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireFallsBackToOCRWhenDirectTextIsShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	writeTextlessPDF(t, path)

	runner := &fakeRunner{
		pages:      1,
		textByPage: map[string]string{"page-1.png": "Scanned revenue summary"},
	}
	e := newTestExtractor(runner)

	blocks, err := e.Acquire(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 rasterized block, got %d", len(blocks))
	}
	if blocks[0].Text != "Scanned revenue summary" || blocks[0].MaxSize != 0 || blocks[0].Page != 0 {
		t.Errorf("expected the OCR pseudo-block, got %+v", blocks[0])
	}
	if len(runner.calls) < 2 {
		t.Errorf("expected pdftoppm and tesseract to run, got %v", runner.calls)
	}
}

func TestAcquireUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newTestExtractor(&fakeRunner{})

	_, err := e.Acquire(context.Background(), path, 0)
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
	if readErr.Path != path {
		t.Errorf("error path = %q, want %q", readErr.Path, path)
	}
}

func TestJoinBlocks(t *testing.T) {
	blocks := []TextBlock{
		{Text: "Revenue Overview"},
		{Text: ""},
		{Text: "Q1 2026"},
	}
	if got := JoinBlocks(blocks); got != "Revenue Overview Q1 2026" {
		t.Fatalf("JoinBlocks = %q", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := collapseSpaces("  a \t b\n c  "); got != "a b c" {
		t.Fatalf("collapseSpaces = %q", got)
	}
}
