package drawing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/cadsense/ai/metrics"
	"github.com/hrygo/cadsense/internal/profile"
)

func TestNewServiceFromProfile_Disabled(t *testing.T) {
	p := &profile.Profile{DefaultUnits: "feet", DefaultFormat: "dxf"}
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())

	svc, err := NewServiceFromProfile(p, nil, exporter)
	require.NoError(t, err)
	assert.False(t, svc.GenerativeAvailable())
	assert.False(t, svc.SendEnabled())
	svc.Warmup()

	result, err := svc.Run(context.Background(), &RunRequest{Description: "porch", Send: true})
	require.NoError(t, err)
	assert.Contains(t, result.Entities, `"units": "feet"`)

	families, err := exporter.GetRegistry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "cadsense_planner_requests_total")
	assert.Contains(t, names, "cadsense_autodesk_submissions_total")
}

func TestNewServiceFromProfile_Enabled(t *testing.T) {
	p := &profile.Profile{
		ALLMProvider:  "openai",
		ALLMAPIKey:    "sk-test",
		ALLMBaseURL:   "http://127.0.0.1:1/v1",
		ALLMModel:     "gpt-4o-mini",
		AutodeskToken: "tok",
	}

	svc, err := NewServiceFromProfile(p, nil, nil)
	require.NoError(t, err)
	assert.True(t, svc.GenerativeAvailable())
	assert.True(t, svc.SendEnabled())
}

func TestNewServiceFromProfile_BadLLMConfig(t *testing.T) {
	_, err := NewServiceFromProfile(&profile.Profile{ALLMAPIKey: "sk", ALLMProvider: "openai"}, nil, nil)
	assert.Error(t, err)
}
