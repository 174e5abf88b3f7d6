package llm

import (
	"fmt"
	"strings"
)

// BuildPrompt composes the fixed instruction template requesting a strict
// JSON object in the Dashboard shape, with id and url pinned to the values
// the caller derived from the workbook layout.
func BuildPrompt(req ExtractRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert in reading Tableau dashboard PDF exports.\n")
	b.WriteString("The following text comes from a dashboard PDF.\n\n")
	b.WriteString("Extract and return ONLY a valid JSON object in the EXACT format:\n")
	fmt.Fprintf(&b, `{
  "id": %q,
  "name": "<Dashboard Name>",
  "description": "<1-2 sentences summarizing purpose of dashboard>",
  "tags": ["tag1", "tag2", "tag3"],
  "url": %q,
  "kpis": [
    {
      "name": "<KPI Name>",
      "description": "<Meaning of KPI and value in context>"
    }
  ]
}`, req.DashboardID, req.WorkbookName+"/"+req.FileName)
	b.WriteString("\n\nIMPORTANT:\n")
	b.WriteString("- For each KPI description, explain what it represents and include the value in parentheses, e.g., ")
	b.WriteString(`"Overall discount in dollars (198,837)" or "Current profit margin (-35%)".` + "\n")
	b.WriteString("- If multiple values appear, mention them in the description.\n")
	b.WriteString("- Do not just output the numeric value; always add context from the KPI name and PDF text.\n")
	b.WriteString("- Tags should be keywords describing the dashboard topic (e.g., 'sales', 'finance', 'profit', 'discount').\n")
	b.WriteString("- Output must be strictly valid JSON with no comments or extra text before/after.\n\n")
	fmt.Fprintf(&b, "Dashboard name hint: %s\n\n", req.DashboardName)
	b.WriteString("PDF Text:\n")
	b.WriteString(req.Text)
	return b.String()
}
