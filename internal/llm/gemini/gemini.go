// Package gemini implements llm.StructuredCompletionClient on Google Gemini
// with function calling restricted to the requested tool.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"policyaudit/internal/llm"
	"policyaudit/internal/schema"
)

const DefaultModel = "gemini-1.5-pro"

type Config struct {
	APIKey string
	Model  string
}

type generateFunc func(ctx context.Context, m *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error)

type Client struct {
	client   *genai.Client
	model    string
	newModel func(name string) *genai.GenerativeModel
	generate generateFunc
}

// New dials the Gemini API. Close releases the underlying connection.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: gc, model: model, newModel: gc.GenerativeModel, generate: generateContent}, nil
}

func generateContent(ctx context.Context, m *genai.GenerativeModel, prompt string) (*genai.GenerateContentResponse, error) {
	return m.GenerateContent(ctx, genai.Text(prompt))
}

func (c *Client) Provider() string { return "gemini" }

func (c *Client) Close() error { return c.client.Close() }

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m := c.newModel(c.model)
	configureModel(m, req)

	resp, err := c.generate(ctx, m, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini generate content: %w", llm.ErrInference, err)
	}
	out, err := toResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrInference, err)
	}
	out.Model = c.model
	return out, nil
}

func configureModel(m *genai.GenerativeModel, req llm.Request) {
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	m.SetTemperature(req.Temperature)
	m.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        req.Tool.Name,
			Description: req.Tool.Description,
			Parameters:  toSchema(req.Tool.Input),
		}},
	}}
	m.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode:                 genai.FunctionCallingAny,
			AllowedFunctionNames: []string{req.Tool.Name},
		},
	}
}

// toSchema converts a schema node to Gemini's OpenAPI subset, which has no
// numeric minimum; bounds are dropped.
func toSchema(n *schema.Node) *genai.Schema {
	if n == nil {
		return nil
	}
	s := &genai.Schema{
		Description: n.Description,
		Required:    n.Required,
	}
	switch n.Type {
	case schema.TypeObject:
		s.Type = genai.TypeObject
	case schema.TypeArray:
		s.Type = genai.TypeArray
	case schema.TypeInteger:
		s.Type = genai.TypeInteger
	case schema.TypeNumber:
		s.Type = genai.TypeNumber
	default:
		s.Type = genai.TypeString
	}
	if len(n.Enum) > 0 {
		s.Format = "enum"
		s.Enum = n.Enum
	}
	if len(n.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for name, child := range n.Properties {
			s.Properties[name] = toSchema(child)
		}
	}
	s.Items = toSchema(n.Items)
	return s
}

func toResponse(resp *genai.GenerateContentResponse) (*llm.Response, error) {
	out := &llm.Response{}
	if resp == nil || len(resp.Candidates) == 0 {
		return out, nil
	}
	cand := resp.Candidates[0]
	out.StopReason = cand.FinishReason.String()
	if cand.Content == nil {
		return out, nil
	}
	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			args, err := json.Marshal(p.Args)
			if err != nil {
				return nil, fmt.Errorf("encode function call args: %w", err)
			}
			out.Blocks = append(out.Blocks, llm.Block{Type: llm.BlockToolUse, Name: p.Name, Input: args})
		case genai.Text:
			out.Blocks = append(out.Blocks, llm.Block{Type: llm.BlockText, Text: string(p)})
		}
	}
	return out, nil
}
