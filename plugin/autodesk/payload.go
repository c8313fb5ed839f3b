// Package autodesk builds and submits Design Automation work items for drawing plans.
package autodesk

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

const (
	// ActivityID names the Design Automation activity that consumes drawing plans.
	ActivityID = "AutoCAD.Activity+prod"

	dataURLPrefix = "data:application/json,"
)

// RequestPayload is a minimal Design Automation work-item body.
type RequestPayload struct {
	ActivityID string    `json:"activityId"`
	Arguments  Arguments `json:"arguments"`
}

// Arguments holds the named work-item arguments.
type Arguments struct {
	DrawingSpec DrawingSpec `json:"drawingSpec"`
}

// DrawingSpec carries the plan inline as a JSON data URL.
type DrawingSpec struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// BuildRequestPayload wraps a plan payload in a work-item envelope.
// The plan is embedded verbatim; nothing about its content is validated.
func BuildRequestPayload(plan map[string]any) (*RequestPayload, error) {
	body, err := json.Marshal(plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal drawing plan")
	}

	return &RequestPayload{
		ActivityID: ActivityID,
		Arguments: Arguments{
			DrawingSpec: DrawingSpec{
				URL:     dataURLPrefix + string(body),
				Headers: map[string]string{"Content-Type": "application/json"},
			},
		},
	}, nil
}

// DecodeDrawingSpec parses the plan embedded in a payload's data URL.
func DecodeDrawingSpec(payload *RequestPayload) (map[string]any, error) {
	if payload == nil {
		return nil, errors.New("payload is nil")
	}
	raw, ok := strings.CutPrefix(payload.Arguments.DrawingSpec.URL, dataURLPrefix)
	if !ok {
		return nil, errors.Errorf("drawing spec url is not a JSON data url: %.40q", payload.Arguments.DrawingSpec.URL)
	}

	var plan map[string]any
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, errors.Wrap(err, "failed to decode embedded drawing plan")
	}
	return plan, nil
}
