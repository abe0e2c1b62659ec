// Package provider builds the configured llm.StructuredCompletionClient.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"policyaudit/internal/config"
	"policyaudit/internal/llm"
	"policyaudit/internal/llm/bedrock"
	"policyaudit/internal/llm/gemini"
	"policyaudit/internal/llm/openai"
)

// tracedHTTPClient propagates trace context to the inference endpoint.
func tracedHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

// New returns the client for cfg.LLM.Provider and a close function that
// releases provider resources.
func New(ctx context.Context, cfg *config.AppConfig) (llm.StructuredCompletionClient, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LLM.Provider {
	case "bedrock":
		c, err := bedrock.New(ctx, bedrock.Config{
			Region:     cfg.AWS.Region,
			AccessKey:  cfg.AWS.AccessKey,
			SecretKey:  cfg.AWS.SecretKey,
			Model:      cfg.LLM.Model,
			HTTPClient: tracedHTTPClient(),
		})
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil
	case "openai":
		return openai.New(openai.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.LLM.Model,
			HTTPClient: tracedHTTPClient(),
		}), noop, nil
	case "gemini":
		c, err := gemini.New(ctx, gemini.Config{APIKey: cfg.Gemini.APIKey, Model: cfg.LLM.Model})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}
