package metadata

import "strings"

// Dashboard is one analytical report extracted from a single PDF export.
// The JSON field set is also the exact shape the model is instructed to
// return on the LLM extraction path.
type Dashboard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
	KPIs        []Kpi    `json:"kpis"`
}

// Kpi is a named metric with a textual description of its meaning/value.
// Names are deduplicated case-insensitively within one dashboard, first
// occurrence wins.
type Kpi struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Normalize guarantees non-nil slices so the persisted JSON always carries
// arrays, never null.
func (d *Dashboard) Normalize() {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.KPIs == nil {
		d.KPIs = []Kpi{}
	}
}

// DashboardID derives the per-file dashboard id from the workbook and file
// stem: lowercase, spaces replaced with underscores.
func DashboardID(workbook, stem string) string {
	return strings.ToLower(strings.ReplaceAll(workbook+"_"+stem, " ", "_"))
}
