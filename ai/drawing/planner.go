package drawing

import (
	"context"
	"log/slog"
	"time"
)

// Recorder receives planning telemetry. *metrics.PrometheusExporter implements it.
type Recorder interface {
	RecordPlan(source, outcome string, latency time.Duration)
	RecordLLMCall(promptTokens, completionTokens int, latency time.Duration)
}

// Planner tries the generative path and falls back to the synthesizer.
// Plan always returns a usable plan.
type Planner struct {
	generative  *GenerativePlanner
	synthesizer *Synthesizer
	recorder    Recorder
}

// NewPlanner wires the two planning paths. recorder may be nil.
func NewPlanner(generative *GenerativePlanner, synthesizer *Synthesizer, recorder Recorder) *Planner {
	if generative == nil {
		generative = NewGenerativePlanner(nil)
	}
	if synthesizer == nil {
		synthesizer = NewSynthesizer(DefaultDefaults())
	}
	return &Planner{
		generative:  generative,
		synthesizer: synthesizer,
		recorder:    recorder,
	}
}

// GenerativeAvailable reports whether the LLM path is configured.
func (p *Planner) GenerativeAvailable() bool {
	return p.generative.Available()
}

// Plan returns a drawing plan for description. It never fails: every
// generative outcome other than success routes to the deterministic sketch.
func (p *Planner) Plan(ctx context.Context, description string, metadata map[string]any) *Plan {
	start := time.Now()
	result := p.generative.Attempt(ctx, description, metadata)

	if result.Stats != nil && p.recorder != nil {
		p.recorder.RecordLLMCall(result.Stats.PromptTokens, result.Stats.CompletionTokens,
			time.Duration(result.Stats.TotalDurationMs)*time.Millisecond)
	}

	plan := result.Plan
	switch result.Kind {
	case ResultSuccess:
		slog.Info("drawing plan generated by LLM",
			"title", plan.Title,
			"entities", len(plan.Entities),
		)
	case ResultUnavailable:
		slog.Debug("LLM not configured, using fallback sketch")
	case ResultTransportError:
		slog.Warn("LLM planning failed, using fallback sketch", "error", result.Err)
	case ResultContractViolation:
		slog.Error("LLM broke the drawing tool contract, using fallback sketch", "error", result.Err)
	}

	if result.Kind != ResultSuccess || plan == nil {
		plan = p.synthesizer.Synthesize(description, metadata)
	}

	if p.recorder != nil {
		p.recorder.RecordPlan(string(plan.Source), string(result.Kind), time.Since(start))
	}
	return plan
}
