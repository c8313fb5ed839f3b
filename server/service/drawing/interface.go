package drawing

import (
	"context"

	"github.com/hrygo/cadsense/plugin/autodesk"
	"github.com/hrygo/cadsense/store"
)

// SkippedSubmission is reported when the caller did not ask to send.
const SkippedSubmission = "Skipped (preview only)"

// Submission statuses recorded on the metrics exporter.
const (
	SubmissionSent    = "sent"
	SubmissionPreview = "preview"
	SubmissionError   = "error"
)

// Sender delivers an assembled request. *autodesk.Client implements it.
type Sender interface {
	Send(ctx context.Context, payload *autodesk.RequestPayload) (*autodesk.SendResult, error)
	Enabled() bool
}

// RunStore persists run history. *store.Store implements it.
type RunStore interface {
	CreateDrawingRun(ctx context.Context, create *store.DrawingRun) (*store.DrawingRun, error)
	ListDrawingRuns(ctx context.Context, find *store.FindDrawingRun) ([]*store.DrawingRun, error)
}

// SubmissionRecorder counts send outcomes. *metrics.PrometheusExporter implements it.
type SubmissionRecorder interface {
	RecordSubmission(status string)
}

// RunRequest is one workbench request.
type RunRequest struct {
	Description string `json:"description"`
	Units       string `json:"units"`
	Format      string `json:"format"`
	Send        bool   `json:"send"`
}

// RunResult carries everything the workbench displays for a run.
type RunResult struct {
	RunID      string `json:"runId"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Entities   string `json:"entities"`
	Payload    string `json:"payload"`
	Submission string `json:"submission"`
}
