// Package llm defines the structured completion contract shared by all model
// providers. Providers force exactly one tool call and report the model's
// output as content blocks.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"policyaudit/internal/schema"
)

// ErrInference marks any failure talking to the inference endpoint.
var ErrInference = errors.New("inference failed")

const (
	BlockToolUse = "tool_use"
	BlockText    = "text"
)

// Request is a single forced tool call.
type Request struct {
	Prompt      string
	Tool        schema.Tool
	MaxTokens   int
	Temperature float32
}

// Block is one piece of model output. Tool calls carry Name and Input; text
// blocks carry Text.
type Block struct {
	Type  string
	Name  string
	Input json.RawMessage
	Text  string
}

// Response is the unwrapped model envelope.
type Response struct {
	Model      string
	StopReason string
	Blocks     []Block
}

// StructuredCompletionClient calls a hosted model with a forced tool.
type StructuredCompletionClient interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	// Provider names the backend, used for metrics and logs.
	Provider() string
}

// FindToolInput returns the input of the first tool_use block named name.
func FindToolInput(resp *Response, name string) (json.RawMessage, bool) {
	if resp == nil {
		return nil, false
	}
	for _, b := range resp.Blocks {
		if b.Type == BlockToolUse && b.Name == name {
			return b.Input, true
		}
	}
	return nil, false
}
