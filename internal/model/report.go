package model

// PolicyReport is the analysis tool payload exactly as the model produced it.
// Findings are relayed unchanged; Normalize only guarantees a findings array.
type PolicyReport map[string]any

// Normalize makes a missing or null "findings" an empty array.
func (r PolicyReport) Normalize() {
	if r["findings"] == nil {
		r["findings"] = []any{}
	}
}

// FindingCount returns the number of findings, or zero when "findings" is not an array.
func (r PolicyReport) FindingCount() int {
	findings, _ := r["findings"].([]any)
	return len(findings)
}
