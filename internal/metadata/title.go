package metadata

import (
	"strings"

	"github.com/pratish7991/TablueMeta/internal/pdftext"
)

// maxDescriptionBlocks caps how many distinct blocks feed the description.
const maxDescriptionBlocks = 4

// ChooseTitleDescription picks the dashboard title and a short description
// from acquired text blocks. Title is the largest-font block on the first
// page (falling back to the whole document when page 0 has none), ties
// broken by reading order. The description joins up to four distinct
// non-title blocks. Empty blocks yield empty results; the caller
// substitutes filename/excerpt fallbacks.
func ChooseTitleDescription(blocks []pdftext.TextBlock) (title, description string) {
	if len(blocks) == 0 {
		return "", ""
	}

	candidates := firstPageBlocks(blocks)
	if len(candidates) == 0 {
		candidates = blocks
	}
	best := candidates[0]
	for _, b := range candidates[1:] {
		if b.MaxSize > best.MaxSize {
			best = b
		}
	}
	title = strings.TrimSpace(best.Text)

	var parts []string
	seen := map[string]struct{}{}
	for _, b := range blocks {
		if len(parts) >= maxDescriptionBlocks {
			break
		}
		text := strings.TrimSpace(b.Text)
		if text == "" || text == title {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		parts = append(parts, text)
	}
	return title, strings.TrimSpace(strings.Join(parts, " "))
}

func firstPageBlocks(blocks []pdftext.TextBlock) []pdftext.TextBlock {
	var out []pdftext.TextBlock
	for _, b := range blocks {
		if b.Page == 0 {
			out = append(out, b)
		}
	}
	return out
}
