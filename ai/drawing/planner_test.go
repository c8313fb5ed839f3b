package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/cadsense/ai/core/llm"
)

type planRecord struct {
	source, outcome string
}

type fakeRecorder struct {
	plans    []planRecord
	llmCalls int
}

func (r *fakeRecorder) RecordPlan(source, outcome string, _ time.Duration) {
	r.plans = append(r.plans, planRecord{source, outcome})
}

func (r *fakeRecorder) RecordLLMCall(int, int, time.Duration) {
	r.llmCalls++
}

func payloadJSON(t *testing.T, p *Plan) string {
	t.Helper()
	b, err := json.Marshal(p.Payload())
	require.NoError(t, err)
	return string(b)
}

func TestPlanner_NoCredentialEqualsFallback(t *testing.T) {
	synth := NewSynthesizer(DefaultDefaults())
	planner := NewPlanner(NewGenerativePlanner(nil), synth, nil)

	descriptions := []string{
		"Rectangular office with two desks",
		strings.Repeat("open plan studio ", 6),
		"",
	}
	metas := []map[string]any{nil, {}, {"units": "feet", "format": "dxf"}}

	for _, d := range descriptions {
		for _, m := range metas {
			got := planner.Plan(context.Background(), d, m)
			want := synth.Synthesize(d, m)
			assert.Equal(t, payloadJSON(t, want), payloadJSON(t, got))
		}
	}
	assert.False(t, planner.GenerativeAvailable())
}

func TestPlanner_UsesLLMPlanOnSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	fake := &fakeLLM{
		resp:  toolResponse(`{"title":"Deck","summary":"Wooden deck","entities":[{"action":"draw_polyline","geometry":{"points":[[0,0],[3,0]]}}]}`),
		stats: &llm.LLMCallStats{PromptTokens: 5, CompletionTokens: 7},
	}
	planner := NewPlanner(NewGenerativePlanner(fake), nil, rec)

	plan := planner.Plan(context.Background(), "Wooden deck", nil)

	assert.Equal(t, "Deck", plan.Title)
	assert.Equal(t, SourceLLM, plan.Source)
	assert.Equal(t, []planRecord{{"llm", "success"}}, rec.plans)
	assert.Equal(t, 1, rec.llmCalls)
	assert.True(t, planner.GenerativeAvailable())
}

func TestPlanner_NetworkErrorFallsBack(t *testing.T) {
	rec := &fakeRecorder{}
	fake := &fakeLLM{err: errors.New("dial tcp 10.0.0.1:443: i/o timeout")}
	planner := NewPlanner(NewGenerativePlanner(fake), NewSynthesizer(DefaultDefaults()), rec)

	var plan *Plan
	require.NotPanics(t, func() {
		plan = planner.Plan(context.Background(), "Rectangular office with two desks", nil)
	})

	assert.Equal(t, "LLM-free sketch", plan.Title)
	assert.Equal(t, SourceFallback, plan.Source)
	require.Len(t, plan.Entities, 2)
	assert.Equal(t, []planRecord{{"fallback", "transport_error"}}, rec.plans)
	assert.Equal(t, 0, rec.llmCalls)
}

func TestPlanner_ContractViolationFallsBack(t *testing.T) {
	rec := &fakeRecorder{}
	fake := &fakeLLM{resp: toolResponse(`not json`)}
	planner := NewPlanner(NewGenerativePlanner(fake), nil, rec)

	plan := planner.Plan(context.Background(), "Garage", map[string]any{"units": "feet"})

	assert.Equal(t, SourceFallback, plan.Source)
	assert.Equal(t, "feet", plan.Entities[0].Geometry["units"])
	assert.Equal(t, []planRecord{{"fallback", "contract_violation"}}, rec.plans)
}

func TestPlanner_CancelledContextFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	planner := NewPlanner(NewGenerativePlanner(&fakeLLM{err: context.Canceled}), nil, nil)

	plan := planner.Plan(ctx, "Garage", nil)

	assert.Equal(t, SourceFallback, plan.Source)
}

func TestPlanner_EveryPathYieldsWellFormedEntities(t *testing.T) {
	planners := []*Planner{
		NewPlanner(nil, nil, nil),
		NewPlanner(NewGenerativePlanner(&fakeLLM{err: errors.New("boom")}), nil, nil),
		NewPlanner(NewGenerativePlanner(&fakeLLM{resp: toolResponse(`{"entities":[{"action":"x"}]}`)}), nil, nil),
		NewPlanner(NewGenerativePlanner(&fakeLLM{resp: toolResponse(`{"entities":[{"action":"x","geometry":{}}]}`)}), nil, nil),
	}

	for i, p := range planners {
		plan := p.Plan(context.Background(), "desc", nil)
		for _, e := range plan.Entities {
			assert.NoError(t, e.Valid(), "planner %d", i)
		}
	}
}
