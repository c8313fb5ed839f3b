// Package drawing turns natural-language requests into AutoCAD drawing plans.
//
// A Planner first asks a generative backend for a plan through a forced tool
// call and falls back to a deterministic sketch whenever that path is
// unavailable or fails, so callers always receive a usable Plan.
package drawing

import (
	"fmt"
	"maps"
)

// Source identifies which planning path produced a Plan.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Metadata keys recognized by the planner. Other keys pass through untouched.
const (
	MetadataUnits  = "units"
	MetadataFormat = "format"
)

// Entity is one drawing primitive. Action and Geometry are required.
type Entity struct {
	Action   string         `json:"action"`
	Layer    string         `json:"layer,omitempty"`
	Geometry map[string]any `json:"geometry"`
	Notes    string         `json:"notes,omitempty"`
}

// Valid reports whether the entity carries an action and a geometry mapping.
func (e Entity) Valid() error {
	if e.Action == "" {
		return fmt.Errorf("entity action is empty")
	}
	if e.Geometry == nil {
		return fmt.Errorf("entity %q has no geometry", e.Action)
	}
	return nil
}

// Plan is the structured output of a planning request.
// It is built once and must not be mutated afterwards.
type Plan struct {
	Title    string
	Summary  string
	Entities []Entity
	Metadata map[string]any

	// Source is informational and not part of the payload.
	Source Source
}

// Payload returns the transport representation of the plan.
func (p *Plan) Payload() map[string]any {
	entities := p.Entities
	if entities == nil {
		entities = []Entity{}
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"title":    p.Title,
		"summary":  p.Summary,
		"entities": entities,
		"metadata": metadata,
	}
}

// cloneMetadata returns a shallow copy so later caller mutations never leak
// into a constructed plan.
func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
