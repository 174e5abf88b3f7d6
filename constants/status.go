package constants

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

// Stable values (store these exact strings in the DB).
const (
	JobStatusRunning   JobStatus = "RUNNING"    // in progress
	JobStatusExtractOK JobStatus = "EXTRACT_OK" // metadata extracted
	JobStatusFailed    JobStatus = "FAILED"     // terminal failure
)

// ExtractionMethod labels how text was acquired from a document.
const (
	MethodPDFText   = "pdf-text"
	MethodPDFOCR    = "pdf-ocr"
	MethodLLM       = "llm"
	MethodHeuristic = "heuristic"
)
