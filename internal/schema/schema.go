// Package schema declares the structured output the model is allowed to return.
// The shapes are written once as Node trees; provider adapters translate them
// into their own tool definitions.
package schema

// Type is a JSON Schema primitive type.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
)

// Node is a vendor-neutral schema node.
type Node struct {
	Type        Type
	Description string
	Enum        []string
	Properties  map[string]*Node
	Required    []string
	Items       *Node
	Minimum     *float64
}

// JSONSchema renders the node as a JSON Schema document fragment.
func (n *Node) JSONSchema() map[string]any {
	out := map[string]any{"type": string(n.Type)}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if len(n.Enum) > 0 {
		enum := make([]any, len(n.Enum))
		for i, v := range n.Enum {
			enum[i] = v
		}
		out["enum"] = enum
	}
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
	}
	if n.Type == TypeObject {
		props := make(map[string]any, len(n.Properties))
		for name, child := range n.Properties {
			props[name] = child.JSONSchema()
		}
		out["properties"] = props
		if len(n.Required) > 0 {
			req := make([]any, len(n.Required))
			for i, v := range n.Required {
				req[i] = v
			}
			out["required"] = req
		}
	}
	if n.Items != nil {
		out["items"] = n.Items.JSONSchema()
	}
	return out
}

type prop struct {
	name string
	node *Node
}

func object(desc string, required []string, props ...prop) *Node {
	n := &Node{
		Type:        TypeObject,
		Description: desc,
		Properties:  make(map[string]*Node, len(props)),
		Required:    required,
	}
	for _, p := range props {
		n.Properties[p.name] = p.node
	}
	return n
}

func str(desc string) *Node { return &Node{Type: TypeString, Description: desc} }

func nonNegative(desc string) *Node {
	zero := 0.0
	return &Node{Type: TypeNumber, Description: desc, Minimum: &zero}
}
