package model

// PolicyGuidance is the assistant tool payload, relayed unchanged apart from
// Normalize.
type PolicyGuidance map[string]any

// Normalize makes missing or null list fields empty arrays.
func (g PolicyGuidance) Normalize() {
	for _, key := range []string{"referenced_frameworks", "relevant_articles"} {
		if g[key] == nil {
			g[key] = []any{}
		}
	}
}

// ChatRequest is the body of the assistant chat endpoint.
type ChatRequest struct {
	Message    string   `json:"message"`
	Frameworks []string `json:"frameworks"`
}

// Framework is an entry of the framework catalog.
type Framework struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}
