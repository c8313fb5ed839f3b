package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/cadsense/ai/core/llm"
)

// fakeLLM is a scripted llm.Service that records what it was asked.
type fakeLLM struct {
	resp  *llm.ChatResponse
	stats *llm.LLMCallStats
	err   error

	calls      int
	messages   []llm.Message
	tools      []llm.ToolDescriptor
	toolChoice string
}

func (f *fakeLLM) ChatWithTools(_ context.Context, messages []llm.Message, tools []llm.ToolDescriptor, toolChoice string) (*llm.ChatResponse, *llm.LLMCallStats, error) {
	f.calls++
	f.messages = messages
	f.tools = tools
	f.toolChoice = toolChoice
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.resp, f.stats, nil
}

func (f *fakeLLM) Warmup(context.Context) {}

func toolResponse(arguments string) *llm.ChatResponse {
	return &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: llm.FunctionCall{Name: ToolName, Arguments: arguments},
		}},
	}
}

func TestGenerativePlanner_Unavailable(t *testing.T) {
	g := NewGenerativePlanner(nil)

	assert.False(t, g.Available())
	result := g.Attempt(context.Background(), "office", nil)
	assert.Equal(t, ResultUnavailable, result.Kind)
	assert.Nil(t, result.Plan)
}

func TestGenerativePlanner_Success(t *testing.T) {
	fake := &fakeLLM{
		resp: toolResponse(`{
			"title": "Office",
			"summary": "Office with two desks",
			"entities": [
				{"action": "draw_polyline", "layer": "walls", "geometry": {"points": [[0,0],[4,0]]}},
				{"action": "draw_rectangle", "geometry": {"corner": [1,1], "width": 1.2, "height": 0.6}, "notes": "desk"}
			],
			"metadata": {"units": "meters", "scale": "1:100"}
		}`),
		stats: &llm.LLMCallStats{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}
	g := NewGenerativePlanner(fake)

	result := g.Attempt(context.Background(), "Office with two desks", map[string]any{"units": "feet"})

	require.Equal(t, ResultSuccess, result.Kind)
	require.NoError(t, result.Err)
	plan := result.Plan
	assert.Equal(t, "Office", plan.Title)
	assert.Equal(t, "Office with two desks", plan.Summary)
	assert.Equal(t, SourceLLM, plan.Source)
	require.Len(t, plan.Entities, 2)
	assert.Equal(t, "walls", plan.Entities[0].Layer)
	assert.Equal(t, "desk", plan.Entities[1].Notes)
	assert.Equal(t, map[string]any{"units": "meters", "scale": "1:100"}, plan.Metadata)
	assert.Equal(t, 30, result.Stats.TotalTokens)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, ToolName, fake.toolChoice)
	require.Len(t, fake.tools, 1)
	assert.Equal(t, ToolName, fake.tools[0].Name)
	require.Len(t, fake.messages, 2)
	assert.Equal(t, "system", fake.messages[0].Role)
	assert.Equal(t, "user", fake.messages[1].Role)
	assert.Contains(t, fake.messages[1].Content, "User request: Office with two desks")
}

func TestGenerativePlanner_DefaultsForAbsentFields(t *testing.T) {
	g := NewGenerativePlanner(&fakeLLM{resp: toolResponse(`{}`)})
	meta := map[string]any{"units": "feet", "format": "dxf"}

	result := g.Attempt(context.Background(), "Kitchen layout", meta)

	require.Equal(t, ResultSuccess, result.Kind)
	assert.Equal(t, "Autodesk drawing", result.Plan.Title)
	assert.Equal(t, "Kitchen layout", result.Plan.Summary)
	assert.NotNil(t, result.Plan.Entities)
	assert.Empty(t, result.Plan.Entities)
	assert.Equal(t, meta, result.Plan.Metadata)

	meta["units"] = "inches"
	assert.Equal(t, "feet", result.Plan.Metadata["units"])
}

func TestGenerativePlanner_DefaultMetadataIsEmptyObject(t *testing.T) {
	g := NewGenerativePlanner(&fakeLLM{resp: toolResponse(`{"title":"t","summary":"s","entities":[]}`)})

	result := g.Attempt(context.Background(), "x", nil)

	require.Equal(t, ResultSuccess, result.Kind)
	assert.Equal(t, map[string]any{}, result.Plan.Metadata)
}

func TestGenerativePlanner_Failures(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
		want ResultKind
	}{
		{
			name: "network error",
			llm:  &fakeLLM{err: errors.New("dial tcp: connection refused")},
			want: ResultTransportError,
		},
		{
			name: "cancelled",
			llm:  &fakeLLM{err: context.Canceled},
			want: ResultTransportError,
		},
		{
			name: "no tool call",
			llm:  &fakeLLM{resp: &llm.ChatResponse{Content: "Sure, here is a drawing"}},
			want: ResultTransportError,
		},
		{
			name: "nil response",
			llm:  &fakeLLM{},
			want: ResultTransportError,
		},
		{
			name: "arguments are not JSON",
			llm:  &fakeLLM{resp: toolResponse(`{"title": "unterminated`)},
			want: ResultContractViolation,
		},
		{
			name: "arguments are a JSON array",
			llm:  &fakeLLM{resp: toolResponse(`[1,2,3]`)},
			want: ResultContractViolation,
		},
		{
			name: "arguments are null",
			llm:  &fakeLLM{resp: toolResponse(`null`)},
			want: ResultContractViolation,
		},
		{
			name: "geometry is not an object",
			llm:  &fakeLLM{resp: toolResponse(`{"entities":[{"action":"annotate","geometry":5}]}`)},
			want: ResultContractViolation,
		},
		{
			name: "entity without geometry",
			llm:  &fakeLLM{resp: toolResponse(`{"entities":[{"action":"annotate"}]}`)},
			want: ResultContractViolation,
		},
		{
			name: "entity without action",
			llm:  &fakeLLM{resp: toolResponse(`{"entities":[{"geometry":{}}]}`)},
			want: ResultContractViolation,
		},
		{
			name: "wrong tool",
			llm: &fakeLLM{resp: &llm.ChatResponse{ToolCalls: []llm.ToolCall{{
				Function: llm.FunctionCall{Name: "delete_everything", Arguments: `{}`},
			}}}},
			want: ResultContractViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewGenerativePlanner(tt.llm).Attempt(context.Background(), "office", nil)

			assert.Equal(t, tt.want, result.Kind)
			assert.Nil(t, result.Plan)
			assert.Error(t, result.Err)
			assert.Equal(t, 1, tt.llm.calls, "exactly one outbound call, no retries")
		})
	}
}

func TestToolContract(t *testing.T) {
	tool := ToolContract()

	assert.Equal(t, "create_autocad_drawing", tool.Name)
	assert.NotEmpty(t, tool.Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(tool.Parameters), &schema))

	assert.Equal(t, "object", schema["type"])
	assert.ElementsMatch(t, []any{"title", "summary", "entities"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Equal(t, "string", props["title"].(map[string]any)["type"])
	assert.Equal(t, "string", props["summary"].(map[string]any)["type"])
	assert.Equal(t, "object", props["metadata"].(map[string]any)["type"])

	entities := props["entities"].(map[string]any)
	assert.Equal(t, "array", entities["type"])
	items := entities["items"].(map[string]any)
	assert.ElementsMatch(t, []any{"action", "geometry"}, items["required"])
	itemProps := items["properties"].(map[string]any)
	assert.Contains(t, itemProps, "layer")
	assert.Contains(t, itemProps, "notes")
	assert.Equal(t, "object", itemProps["geometry"].(map[string]any)["type"])
}
