// Package drawing is the workbench: plan, assemble, optionally send, record.
package drawing

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	aidrawing "github.com/hrygo/cadsense/ai/drawing"
	"github.com/hrygo/cadsense/plugin/autodesk"
	"github.com/hrygo/cadsense/store"
)

// Service runs workbench requests end to end.
type Service struct {
	planner  *aidrawing.Planner
	sender   Sender
	runs     RunStore
	recorder SubmissionRecorder
	defaults aidrawing.Defaults
	warmer   interface{ Warmup(ctx context.Context) }
}

// Option configures a Service.
type Option func(*Service)

// WithRunStore records every run in runs.
func WithRunStore(runs RunStore) Option {
	return func(s *Service) { s.runs = runs }
}

// WithRecorder counts submissions on recorder.
func WithRecorder(recorder SubmissionRecorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// WithDefaults sets the units and format used when a request leaves them empty.
func WithDefaults(defaults aidrawing.Defaults) Option {
	return func(s *Service) {
		if defaults.Units != "" {
			s.defaults.Units = defaults.Units
		}
		if defaults.Format != "" {
			s.defaults.Format = defaults.Format
		}
	}
}

// NewService creates a workbench service.
func NewService(planner *aidrawing.Planner, sender Sender, opts ...Option) *Service {
	if planner == nil {
		planner = aidrawing.NewPlanner(nil, nil, nil)
	}
	if sender == nil {
		sender = autodesk.NewClient(autodesk.Config{})
	}
	s := &Service{
		planner:  planner,
		sender:   sender,
		defaults: aidrawing.DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendEnabled reports whether sends reach the remote service.
func (s *Service) SendEnabled() bool {
	return s.sender.Enabled()
}

// GenerativeAvailable reports whether the LLM path is configured.
func (s *Service) GenerativeAvailable() bool {
	return s.planner.GenerativeAvailable()
}

// Run plans the request and assembles its payload. Planning never fails;
// an error means assembly or the send step failed.
func (s *Service) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	if req == nil {
		req = &RunRequest{}
	}
	units, format := req.Units, req.Format
	if units == "" {
		units = s.defaults.Units
	}
	if format == "" {
		format = s.defaults.Format
	}
	metadata := map[string]any{
		aidrawing.MetadataUnits:  units,
		aidrawing.MetadataFormat: format,
	}

	plan := s.planner.Plan(ctx, req.Description, metadata)
	planPayload := plan.Payload()

	entities, err := prettyJSON(planPayload["entities"])
	if err != nil {
		return nil, errors.Wrap(err, "failed to render entities")
	}
	payload, err := autodesk.BuildRequestPayload(planPayload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to assemble request payload")
	}
	payloadJSON, err := prettyJSON(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render request payload")
	}

	result := &RunResult{
		RunID:      shortuuid.New(),
		Source:     string(plan.Source),
		Title:      plan.Title,
		Summary:    plan.Summary,
		Entities:   entities,
		Payload:    payloadJSON,
		Submission: SkippedSubmission,
	}

	sent := false
	if req.Send {
		sendResult, err := s.sender.Send(ctx, payload)
		if err != nil {
			s.recordSubmission(SubmissionError)
			s.recordRun(ctx, req.Description, result, payloadJSON, false)
			return nil, errors.Wrap(err, "failed to send drawing request")
		}
		sent = sendResult.Sent
		if sent {
			s.recordSubmission(SubmissionSent)
		} else {
			s.recordSubmission(SubmissionPreview)
		}
		submission, err := prettyJSON(sendResult)
		if err != nil {
			return nil, errors.Wrap(err, "failed to render submission")
		}
		result.Submission = submission
	}

	s.recordRun(ctx, req.Description, result, payloadJSON, sent)
	return result, nil
}

// History lists recent runs, newest first. Without a store it returns an empty list.
func (s *Service) History(ctx context.Context, limit int) ([]*store.DrawingRun, error) {
	if s.runs == nil {
		return []*store.DrawingRun{}, nil
	}
	runs, err := s.runs.ListDrawingRuns(ctx, &store.FindDrawingRun{Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list drawing runs")
	}
	return runs, nil
}

func (s *Service) recordSubmission(status string) {
	if s.recorder != nil {
		s.recorder.RecordSubmission(status)
	}
}

// recordRun is best-effort: storage failures are logged and dropped.
func (s *Service) recordRun(ctx context.Context, description string, result *RunResult, payload string, sent bool) {
	if s.runs == nil {
		return
	}
	_, err := s.runs.CreateDrawingRun(ctx, &store.DrawingRun{
		UID:         result.RunID,
		Description: description,
		Title:       result.Title,
		Source:      result.Source,
		Payload:     payload,
		Sent:        sent,
	})
	if err != nil {
		slog.Warn("failed to record drawing run", "run_id", result.RunID, "error", err)
	}
}

func prettyJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
