// Package bedrock implements llm.StructuredCompletionClient on AWS Bedrock
// Runtime using the Anthropic messages body.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"policyaudit/internal/llm"
)

const (
	DefaultModel     = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	anthropicVersion = "bedrock-2023-05-31"
)

// Config holds Bedrock connection settings. Empty keys use the default
// credential chain (environment, shared config, IAM role).
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Model      string
	HTTPClient *http.Client
}

// invoker is the subset of the Bedrock Runtime client used here.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client calls InvokeModel with a forced tool_choice.
type Client struct {
	api   invoker
	model string
}

// New loads AWS configuration and builds a Bedrock client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, config.WithHTTPClient(cfg.HTTPClient))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newClient(bedrockruntime.NewFromConfig(awsCfg), cfg.Model), nil
}

func newClient(api invoker, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model}
}

func (c *Client) Provider() string { return "bedrock" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type invokeBody struct {
	AnthropicVersion string     `json:"anthropic_version"`
	MaxTokens        int        `json:"max_tokens"`
	Temperature      float32    `json:"temperature"`
	Messages         []message  `json:"messages"`
	Tools            []toolDef  `json:"tools"`
	ToolChoice       toolChoice `json:"tool_choice"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type invokeResult struct {
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []contentBlock `json:"content"`
}

// Complete sends one user message and forces the request's tool.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	body, err := json.Marshal(invokeBody{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		Messages:         []message{{Role: "user", Content: req.Prompt}},
		Tools: []toolDef{{
			Name:        req.Tool.Name,
			Description: req.Tool.Description,
			InputSchema: req.Tool.JSONSchema(),
		}},
		ToolChoice: toolChoice{Type: "tool", Name: req.Tool.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode bedrock body: %v", llm.ErrInference, err)
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bedrock invoke model: %w", llm.ErrInference, err)
	}

	var res invokeResult
	if err := json.Unmarshal(out.Body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode bedrock response: %v", llm.ErrInference, err)
	}

	resp := &llm.Response{Model: res.Model, StopReason: res.StopReason}
	if resp.Model == "" {
		resp.Model = c.model
	}
	for _, b := range res.Content {
		switch b.Type {
		case llm.BlockToolUse:
			resp.Blocks = append(resp.Blocks, llm.Block{Type: llm.BlockToolUse, Name: b.Name, Input: b.Input})
		case llm.BlockText:
			resp.Blocks = append(resp.Blocks, llm.Block{Type: llm.BlockText, Text: b.Text})
		}
	}
	return resp, nil
}
