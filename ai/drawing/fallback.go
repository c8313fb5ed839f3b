package drawing

import "github.com/hrygo/cadsense/internal/strutil"

const (
	fallbackTitle         = "LLM-free sketch"
	fallbackSummaryPrefix = "Prototype layout for: "
	summaryMaxRunes       = 80
	annotationMaxRunes    = 60
)

// Defaults holds the values the fallback path uses when the caller gave none.
type Defaults struct {
	Units  string
	Format string
}

// DefaultDefaults returns meters / dwg.
func DefaultDefaults() Defaults {
	return Defaults{Units: "meters", Format: "dwg"}
}

// Synthesizer builds deterministic plans without any external dependency.
type Synthesizer struct {
	defaults Defaults
}

// NewSynthesizer creates a Synthesizer. Empty fields fall back to DefaultDefaults.
func NewSynthesizer(defaults Defaults) *Synthesizer {
	d := DefaultDefaults()
	if defaults.Units != "" {
		d.Units = defaults.Units
	}
	if defaults.Format != "" {
		d.Format = defaults.Format
	}
	return &Synthesizer{defaults: d}
}

// Synthesize returns a fixed two-step sketch: a 5x3 rectangular envelope and
// an annotation carrying the request text. It never fails.
func (s *Synthesizer) Synthesize(description string, metadata map[string]any) *Plan {
	var units any = s.defaults.Units
	if v, ok := metadata[MetadataUnits]; ok {
		units = v
	}

	planMetadata := map[string]any{
		MetadataUnits:  s.defaults.Units,
		MetadataFormat: s.defaults.Format,
	}
	if len(metadata) > 0 {
		planMetadata = cloneMetadata(metadata)
	}

	return &Plan{
		Title:   fallbackTitle,
		Summary: fallbackSummaryPrefix + strutil.Prefix(description, summaryMaxRunes),
		Entities: []Entity{
			{
				Action: "draw_polyline",
				Layer:  "walls",
				Geometry: map[string]any{
					"points": [][]int{{0, 0}, {5, 0}, {5, 3}, {0, 3}, {0, 0}},
					"units":  units,
				},
				Notes: "Rectangular envelope as a starting frame.",
			},
			{
				Action: "annotate",
				Layer:  "labels",
				Geometry: map[string]any{
					"location": []float64{1.0, 1.5},
					"text":     strutil.Truncate(description, annotationMaxRunes),
				},
				Notes: "Drop the prompt in the center as a reminder of intent.",
			},
		},
		Metadata: planMetadata,
		Source:   SourceFallback,
	}
}
