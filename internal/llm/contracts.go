package llm

import (
	"context"
	"fmt"
)

// TextGenerator is the narrow generation collaborator: one complete
// response per prompt, no streaming, no retries at this layer.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ExtractRequest carries the caller-pinned identity fields embedded into
// the prompt alongside the acquired PDF text.
type ExtractRequest struct {
	Text          string
	DashboardID   string
	DashboardName string
	WorkbookName  string
	FileName      string
}

// MalformedOutputError reports a model response that is not the strict JSON
// shape we asked for. It carries the raw text for diagnosis and must reach
// the caller: silently proceeding would desynchronize the dashboard list
// from any index built over it.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model output is not valid dashboard JSON: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
