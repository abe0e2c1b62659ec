// Package openai implements llm.StructuredCompletionClient on the OpenAI chat
// completions API with a single forced function tool.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"policyaudit/internal/llm"
)

const DefaultModel = "gpt-4o"

// Config holds OpenAI connection settings. BaseURL points at any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	api   *openai.Client
	model string
}

func New(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(oc), model: model}
}

func (c *Client) Provider() string { return "openai" }

// reasoning models take max_completion_tokens and reject a custom temperature.
func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	params, err := json.Marshal(req.Tool.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: encode tool schema: %v", llm.ErrInference, err)
	}

	creq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        req.Tool.Name,
				Description: req.Tool.Description,
				Parameters:  json.RawMessage(params),
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: req.Tool.Name},
		},
	}
	if isReasoningModel(c.model) {
		creq.MaxCompletionTokens = req.MaxTokens
	} else {
		creq.MaxTokens = req.MaxTokens
		creq.Temperature = req.Temperature
	}

	resp, err := c.api.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, fmt.Errorf("%w: create chat completion: %w", llm.ErrInference, err)
	}

	out := &llm.Response{Model: resp.Model}
	if len(resp.Choices) == 0 {
		return out, nil
	}
	choice := resp.Choices[0]
	out.StopReason = string(choice.FinishReason)
	if choice.Message.Content != "" {
		out.Blocks = append(out.Blocks, llm.Block{Type: llm.BlockText, Text: choice.Message.Content})
	}
	for _, call := range choice.Message.ToolCalls {
		if call.Type != "" && call.Type != openai.ToolTypeFunction {
			continue
		}
		out.Blocks = append(out.Blocks, llm.Block{
			Type:  llm.BlockToolUse,
			Name:  call.Function.Name,
			Input: json.RawMessage(call.Function.Arguments),
		})
	}
	return out, nil
}
