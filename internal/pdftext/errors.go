package pdftext

import "fmt"

// ReadError marks a document as unreadable or corrupt. Batch callers skip
// the file and continue; everything else about the workbook run proceeds.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read document %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
