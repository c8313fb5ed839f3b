package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
		{
			name:    "missing model",
			cfg:     &Config{Provider: "openai", APIKey: "test-key"},
			wantErr: true,
		},
		{
			name:    "openai defaults",
			cfg:     &Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "test-key"},
			wantErr: false,
		},
		{
			name:    "deepseek defaults",
			cfg:     &Config{Provider: "deepseek", Model: "deepseek-chat", APIKey: "test-key"},
			wantErr: false,
		},
		{
			name:    "unknown provider without base url",
			cfg:     &Config{Provider: "unsupported", Model: "m", APIKey: "test-key"},
			wantErr: true,
		},
		{
			name:    "unknown provider with base url",
			cfg:     &Config{Provider: "vllm", Model: "m", BaseURL: "http://localhost:8000/v1"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	svc, err := NewService(&Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "test-key"})
	require.NoError(t, err)

	s, ok := svc.(*service)
	require.True(t, ok, "NewService() did not return *service type")

	assert.Equal(t, 2048, s.maxTokens)
	assert.Equal(t, 120, s.timeout)
}

func TestService_ChatWithTools_ForcesToolChoice(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "search", "arguments": "{\"query\":\"test\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
		}`))
	}))
	defer srv.Close()

	svc, err := NewService(&Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, stats, err := svc.ChatWithTools(context.Background(),
		[]Message{SystemPrompt("sys"), UserMessage("hi")},
		[]ToolDescriptor{{Name: "search", Description: "Search", Parameters: `{"type":"object"}`}},
		"search",
	)
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "search", resp.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query":"test"}`, resp.ToolCalls[0].Function.Arguments)
	assert.Equal(t, 20, stats.TotalTokens)

	choice, ok := captured["tool_choice"].(map[string]any)
	require.True(t, ok, "tool_choice missing from request")
	assert.Equal(t, "function", choice["type"])
	assert.Equal(t, "search", choice["function"].(map[string]any)["name"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestService_ChatWithTools_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	svc, err := NewService(&Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, stats, err := svc.ChatWithTools(context.Background(), []Message{UserMessage("hi")}, nil, "")
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Nil(t, stats)
}

func TestService_ChatWithTools_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	svc, err := NewService(&Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, _, err = svc.ChatWithTools(context.Background(), []Message{UserMessage("hi")}, nil, "")
	assert.ErrorContains(t, err, "empty response")
}

func TestService_Warmup_NoPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, err := NewService(&Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	// Warmup only logs failures.
	svc.Warmup(context.Background())
}

func TestConvertMessages(t *testing.T) {
	got := convertMessages([]Message{
		{Role: "system", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "tool", Content: "c"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "system", got[0].Role)
	assert.Equal(t, "assistant", got[1].Role)
	assert.Equal(t, "user", got[2].Role)
}

func TestJSONSchema_String(t *testing.T) {
	closed := false
	s := &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"tags": {Type: "array", Items: &JSONSchema{Type: "string"}},
			"meta": {Type: "object"},
		},
		Required:             []string{"tags"},
		AdditionalProperties: &closed,
	}

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"tags": {"type": "array", "items": {"type": "string"}},
			"meta": {"type": "object"}
		},
		"required": ["tags"],
		"additionalProperties": false
	}`, s.String())
}
