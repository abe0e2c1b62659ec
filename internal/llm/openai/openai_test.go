package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyaudit/internal/llm"
	"policyaudit/internal/schema"
)

func newTestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			assert.NoError(t, json.Unmarshal(raw, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Complete(t *testing.T) {
	var sent map[string]any
	srv := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-2024-08-06",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "generate_policy_guidance", "arguments": "{\"answer\":\"yes\",\"referenced_frameworks\":[],\"relevant_articles\":[]}"}
				}]
			}
		}]
	}`, &sent)

	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	resp, err := c.Complete(context.Background(), llm.Request{
		Prompt:    "question",
		Tool:      schema.GuidanceTool(),
		MaxTokens: 512,
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", sent["model"])
	assert.Equal(t, float64(512), sent["max_tokens"])
	assert.Equal(t, map[string]any{
		"type":     "function",
		"function": map[string]any{"name": "generate_policy_guidance"},
	}, sent["tool_choice"])
	tools := sent["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "generate_policy_guidance", fn["name"])
	assert.Equal(t, "object", fn["parameters"].(map[string]any)["type"])

	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	assert.Equal(t, "tool_calls", resp.StopReason)
	in, ok := llm.FindToolInput(resp, "generate_policy_guidance")
	require.True(t, ok)
	assert.JSONEq(t, `{"answer":"yes","referenced_frameworks":[],"relevant_articles":[]}`, string(in))
}

func TestClient_Complete_ReasoningModel(t *testing.T) {
	var sent map[string]any
	srv := newTestServer(t, http.StatusOK, `{"model":"o3","choices":[{"index":0,"message":{"role":"assistant","content":"no tool"}}]}`, &sent)

	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "o3"})
	resp, err := c.Complete(context.Background(), llm.Request{Prompt: "p", Tool: schema.ReportTool(), MaxTokens: 100, Temperature: 0.2})
	require.NoError(t, err)

	assert.Equal(t, float64(100), sent["max_completion_tokens"])
	assert.NotContains(t, sent, "max_tokens")
	assert.NotContains(t, sent, "temperature")

	_, ok := llm.FindToolInput(resp, "generate_policy_report")
	assert.False(t, ok)
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, "no tool", resp.Blocks[0].Text)
}

func TestClient_Complete_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, nil)

	c := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	resp, err := c.Complete(context.Background(), llm.Request{Prompt: "p", Tool: schema.ReportTool(), MaxTokens: 10})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, llm.ErrInference)
}
