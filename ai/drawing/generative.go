package drawing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hrygo/cadsense/ai/core/llm"
)

// ResultKind classifies the outcome of one generative attempt.
type ResultKind string

const (
	ResultSuccess           ResultKind = "success"
	ResultUnavailable       ResultKind = "unavailable"
	ResultTransportError    ResultKind = "transport_error"
	ResultContractViolation ResultKind = "contract_violation"
)

// Result is the outcome of GenerativePlanner.Attempt.
// Plan is set only for ResultSuccess; Err is set for the two failure kinds.
type Result struct {
	Kind  ResultKind
	Plan  *Plan
	Err   error
	Stats *llm.LLMCallStats
}

const (
	defaultLLMTitle = "Autodesk drawing"
)

// GenerativePlanner asks an LLM for a plan through the tool contract.
// A planner built without a service is permanently unavailable.
type GenerativePlanner struct {
	llm llm.Service
}

// NewGenerativePlanner creates a planner around svc. svc may be nil.
func NewGenerativePlanner(svc llm.Service) *GenerativePlanner {
	return &GenerativePlanner{llm: svc}
}

// Available reports whether a backend was configured at construction time.
func (g *GenerativePlanner) Available() bool {
	return g != nil && g.llm != nil
}

// Attempt issues exactly one forced tool call. It never retries and never panics
// on backend misbehavior; every failure is reported through Result.
func (g *GenerativePlanner) Attempt(ctx context.Context, description string, metadata map[string]any) Result {
	if !g.Available() {
		return Result{Kind: ResultUnavailable}
	}

	messages := []llm.Message{
		llm.SystemPrompt(systemPrompt),
		llm.UserMessage(userPrompt(description)),
	}

	resp, stats, err := g.llm.ChatWithTools(ctx, messages, []llm.ToolDescriptor{ToolContract()}, ToolName)
	if err != nil {
		return Result{Kind: ResultTransportError, Err: err}
	}
	if resp == nil || len(resp.ToolCalls) == 0 {
		return Result{Kind: ResultTransportError, Err: fmt.Errorf("response carried no tool call"), Stats: stats}
	}

	call := resp.ToolCalls[0]
	if call.Function.Name != "" && call.Function.Name != ToolName {
		return Result{
			Kind:  ResultContractViolation,
			Err:   fmt.Errorf("unexpected tool %q, want %q", call.Function.Name, ToolName),
			Stats: stats,
		}
	}

	plan, err := parseToolArguments(call.Function.Arguments, description, metadata)
	if err != nil {
		return Result{Kind: ResultContractViolation, Err: err, Stats: stats}
	}
	return Result{Kind: ResultSuccess, Plan: plan, Stats: stats}
}

// toolArguments uses pointers so absent fields can be told apart from empty ones.
type toolArguments struct {
	Title    *string         `json:"title"`
	Summary  *string         `json:"summary"`
	Entities *[]Entity       `json:"entities"`
	Metadata *map[string]any `json:"metadata"`
}

func parseToolArguments(raw, description string, metadata map[string]any) (*Plan, error) {
	if trimmed := strings.TrimSpace(raw); !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("tool arguments are not a JSON object: %.40q", trimmed)
	}
	var args toolArguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("tool arguments are not a JSON object: %w", err)
	}

	plan := &Plan{
		Title:    defaultLLMTitle,
		Summary:  description,
		Entities: []Entity{},
		Source:   SourceLLM,
	}
	if args.Title != nil {
		plan.Title = *args.Title
	}
	if args.Summary != nil {
		plan.Summary = *args.Summary
	}
	if args.Entities != nil && *args.Entities != nil {
		plan.Entities = *args.Entities
	}
	for i, e := range plan.Entities {
		if err := e.Valid(); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
	}
	if args.Metadata != nil && *args.Metadata != nil {
		plan.Metadata = *args.Metadata
	} else {
		plan.Metadata = cloneMetadata(metadata)
	}

	return plan, nil
}
