package metadata

import (
	"regexp"
	"strings"
)

// Patterns to capture "KPI name: value" or "KPI name value%" etc., applied
// in priority order: the first family to claim a name wins.
var kpiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?P<name>[A-Za-z0-9 &/._\-]{3,100})[:\s\-]{1,4}(?P<value>\d{1,3}(?:[.,]\d+)?\s?%)`),
	regexp.MustCompile(`(?P<name>[A-Za-z0-9 &/._\-]{3,100})[:\s\-]{1,4}(?P<value>[$€£]?\d{1,3}(?:[,\d]{0,3})*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?P<name>[A-Za-z ]{2,50}?(?:rate|ratio|score|count|value|variance|growth|mean|avg|average|turnover|conversion|revenue|sales|churn|retention))\s+[:\-–]?\s*(?P<value>\d{1,3}(?:[.,]\d+)?\s?%?)`),
}

// Heuristic keywords that flag a line as KPI-bearing.
var kpiKeywords = []string{
	"rate", "ratio", "score", "count", "value", "variance", "growth",
	"average", "mean", "turnover", "conversion", "revenue", "sales",
	"churn", "retention", "uptime", "mttr", "nps", "csat",
}

const detectedValuePrefix = "Detected value"

var (
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	currencyLineRe = regexp.MustCompile(`\$\s?\d`)
	labelSplitRe   = regexp.MustCompile(`[:\-–]{1,2}`)
)

// DetectKPIs scans text for KPI candidates via layered regex and line
// heuristics. Best effort: the output is useful candidates, not ground
// truth. Deterministic for a given input.
func DetectKPIs(text string) []Kpi {
	var kpis []Kpi
	found := map[string]struct{}{}

	seen := func(name string) bool {
		_, ok := found[strings.ToLower(name)]
		return ok
	}
	claim := func(name string) { found[strings.ToLower(name)] = struct{}{} }

	// 1) pattern-based captures
	for _, pat := range kpiPatterns {
		nameIdx := pat.SubexpIndex("name")
		valueIdx := pat.SubexpIndex("value")
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			name := strings.Trim(m[nameIdx], " :\n\t")
			value := strings.TrimSpace(m[valueIdx])
			if name == "" {
				continue
			}
			name = multiSpaceRe.ReplaceAllString(name, " ")
			// The detector's own description prefix is never a KPI;
			// skipping it keeps re-scans of emitted "name: description"
			// lines from inventing phantom entries.
			if strings.EqualFold(name, detectedValuePrefix) {
				continue
			}
			if seen(name) {
				continue
			}
			claim(name)
			desc := ""
			if value != "" {
				desc = detectedValuePrefix + ": " + value
			}
			kpis = append(kpis, Kpi{Name: name, Description: desc})
		}
	}

	// 2) heuristic lines: lines containing '%', a currency amount, or a
	// KPI keyword
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}
		low := strings.ToLower(line)
		if !strings.Contains(line, "%") && !currencyLineRe.MatchString(line) && !containsAny(low, kpiKeywords) {
			continue
		}
		// try to split "Name: value" or "Name - value"
		parts := labelSplitRe.Split(line, 2)
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if len(name) > 2 && value != "" && !seen(name) {
				claim(name)
				kpis = append(kpis, Kpi{Name: name, Description: detectedValuePrefix + ": " + value})
			}
		} else {
			// treat the whole line as a candidate KPI label
			candidate := multiSpaceRe.ReplaceAllString(line, " ")
			if len(candidate) > 10 && !seen(candidate) {
				claim(candidate)
				kpis = append(kpis, Kpi{Name: candidate, Description: ""})
			}
		}
	}

	// final dedupe by name, preserving first-seen order
	dedup := map[string]struct{}{}
	cleaned := make([]Kpi, 0, len(kpis))
	for _, k := range kpis {
		name := strings.TrimSpace(k.Name)
		key := strings.ToLower(name)
		if _, ok := dedup[key]; ok {
			continue
		}
		dedup[key] = struct{}{}
		cleaned = append(cleaned, Kpi{Name: name, Description: k.Description})
	}
	return cleaned
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
