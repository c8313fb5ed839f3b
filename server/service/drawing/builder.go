package drawing

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/cadsense/ai/core/llm"
	aidrawing "github.com/hrygo/cadsense/ai/drawing"
	"github.com/hrygo/cadsense/ai/metrics"
	"github.com/hrygo/cadsense/internal/profile"
	"github.com/hrygo/cadsense/plugin/autodesk"
	"github.com/hrygo/cadsense/store"
)

// llmTemperature keeps tool-call arguments close to deterministic.
const llmTemperature = 0.2

// NewServiceFromProfile wires the planner, sender, metrics and optional
// run store described by p. runs and exporter may be nil.
func NewServiceFromProfile(p *profile.Profile, runs *store.Store, exporter *metrics.PrometheusExporter) (*Service, error) {
	var llmService llm.Service
	if p.IsAIEnabled() {
		svc, err := llm.NewService(&llm.Config{
			Provider:    p.ALLMProvider,
			Model:       p.ALLMModel,
			APIKey:      p.ALLMAPIKey,
			BaseURL:     p.ALLMBaseURL,
			Temperature: llmTemperature,
			Timeout:     p.ALLMTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize LLM service")
		}
		slog.Info("LLM service initialized",
			"provider", p.ALLMProvider,
			"model", p.ALLMModel,
		)
		llmService = svc
	} else {
		slog.Info("LLM planning disabled, every plan uses the fallback sketch")
	}

	defaults := aidrawing.Defaults{Units: p.DefaultUnits, Format: p.DefaultFormat}

	var recorder aidrawing.Recorder
	if exporter != nil {
		recorder = exporter
	}
	planner := aidrawing.NewPlanner(
		aidrawing.NewGenerativePlanner(llmService),
		aidrawing.NewSynthesizer(defaults),
		recorder,
	)
	sender := autodesk.NewClient(autodesk.Config{
		Token:   p.AutodeskToken,
		BaseURL: p.AutodeskBaseURL,
	})

	opts := []Option{WithDefaults(defaults)}
	if runs != nil {
		opts = append(opts, WithRunStore(runs))
	}
	if exporter != nil {
		opts = append(opts, WithRecorder(exporter))
	}
	s := NewService(planner, sender, opts...)
	s.warmer = llmService
	return s, nil
}

// Warmup pre-connects the LLM backend in the background. It is a no-op
// when the generative path is disabled.
func (s *Service) Warmup() {
	if s.warmer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.warmer.Warmup(ctx)
	}()
}
