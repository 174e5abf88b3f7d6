package constants

import (
	"path/filepath"
	"strings"
)

// Store artifact names. A workbook store is a directory holding exactly
// these two files, written index-first so a crashed build never leaves a
// mismatched pair.
const (
	IndexFileName    = "dashboards.index"
	MetadataFileName = "metadata.json"

	// DashboardsFileName is the combined metadata list written into each
	// workbook folder by the metadata generation step.
	DashboardsFileName = "dashboards.json"
)

// PDFExt is the only extension considered during workbook processing.
const PDFExt = "pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDF reports whether path has a .pdf extension (case-insensitive).
func IsPDF(path string) bool {
	return NormalizeExt(filepath.Ext(path)) == PDFExt
}

// FileStem returns the base name of path without its extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
