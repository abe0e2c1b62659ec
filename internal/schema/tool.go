package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	ReportToolName   = "generate_policy_report"
	GuidanceToolName = "generate_policy_guidance"
)

// Tool is a forced tool call handed to the model. Input describes the only
// argument shape the model may produce.
type Tool struct {
	Name        string
	Description string
	Input       *Node
}

// ReportTool is the PolicyReport contract used for document analysis.
func ReportTool() Tool {
	boundingBox := object(
		"Highlight rectangle in pixels relative to the rendered page",
		[]string{"x", "y", "width", "height"},
		prop{"x", nonNegative("Left offset in pixels")},
		prop{"y", nonNegative("Top offset in pixels")},
		prop{"width", nonNegative("Width in pixels")},
		prop{"height", nonNegative("Height in pixels")},
	)
	location := object(
		"Where in the document the finding applies",
		[]string{"page_number", "exact_quote"},
		prop{"page_number", &Node{Type: TypeInteger, Description: "Page number taken from the page marker"}},
		prop{"exact_quote", str("Verbatim excerpt from the page")},
		prop{"bounding_box", boundingBox},
	)
	finding := object(
		"",
		[]string{"type", "title", "section", "message", "location_metadata"},
		prop{"type", &Node{Type: TypeString, Enum: []string{"VIOLATION", "COMPLIANCE"}}},
		prop{"title", str("Short title of the finding")},
		prop{"section", str("Section identifier in the document")},
		prop{"message", str("Explanation of the violation or compliance")},
		prop{"policy_reference", str("Framework clause this finding refers to")},
		prop{"location_metadata", location},
	)
	return Tool{
		Name:        ReportToolName,
		Description: "Generate a structured policy compliance report",
		Input: object(
			"",
			[]string{"findings"},
			prop{"findings", &Node{Type: TypeArray, Items: finding}},
		),
	}
}

// GuidanceTool is the PolicyGuidance contract used for the assistant.
func GuidanceTool() Tool {
	article := object(
		"",
		[]string{"title", "source", "url"},
		prop{"title", str("Article or clause title")},
		prop{"source", str("Framework or publication the article belongs to")},
		prop{"url", str("Link to the article text")},
	)
	return Tool{
		Name:        GuidanceToolName,
		Description: "Answer a compliance question with the frameworks and articles used",
		Input: object(
			"",
			[]string{"answer", "referenced_frameworks", "relevant_articles"},
			prop{"answer", str("Answer to the user's question")},
			prop{"referenced_frameworks", &Node{Type: TypeArray, Items: str("Framework name"), Description: "Frameworks actually used in the answer"}},
			prop{"relevant_articles", &Node{Type: TypeArray, Items: article, Description: "Specific articles or clauses cited"}},
		),
	}
}

// JSONSchema returns the tool input as a JSON Schema document.
func (t Tool) JSONSchema() map[string]any {
	return t.Input.JSONSchema()
}

// Validate checks payload against the tool input schema.
func (t Tool) Validate(payload []byte) error {
	b, err := json.Marshal(t.JSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	url := t.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("payload does not match %s: %w", t.Name, err)
	}
	return nil
}
