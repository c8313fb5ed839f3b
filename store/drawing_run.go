package store

// DefaultListLimit caps ListDrawingRuns when no limit is given.
const DefaultListLimit = 20

// DrawingRun records one planning request and what happened to its payload.
type DrawingRun struct {
	ID          int64
	UID         string
	Description string
	Title       string
	Source      string // "llm" | "fallback"
	Payload     string // assembled work-item JSON
	Sent        bool
	CreatedTs   int64
}

// FindDrawingRun filters ListDrawingRuns. Results are newest first.
type FindDrawingRun struct {
	UID    *string
	Source *string
	Limit  int
}

// EffectiveLimit returns Limit, or DefaultListLimit when unset.
func (f *FindDrawingRun) EffectiveLimit() int {
	if f == nil || f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}
