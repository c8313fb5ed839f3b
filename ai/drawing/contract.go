package drawing

import (
	"github.com/hrygo/cadsense/ai/core/llm"
)

// ToolName is the function the generative backend is forced to call.
const ToolName = "create_autocad_drawing"

const toolDescription = "Prepare a JSON payload for Autodesk Design Automation that renders" +
	" an AutoCAD drawing based on the user's request."

// contractSchema mirrors what the Design Automation activity consumes so the
// tool arguments can be relayed without reshaping.
func contractSchema() *llm.JSONSchema {
	return &llm.JSONSchema{
		Type: "object",
		Properties: map[string]*llm.JSONSchema{
			"title": {Type: "string", Description: "Drawing title"},
			"summary": {
				Type:        "string",
				Description: "Short paragraph describing the drawing",
			},
			"entities": {
				Type:        "array",
				Description: "Step-by-step drawing primitives with coordinates, units, and layer suggestions.",
				Items: &llm.JSONSchema{
					Type: "object",
					Properties: map[string]*llm.JSONSchema{
						"action": {Type: "string", Description: "AutoCAD verb"},
						"layer":  {Type: "string"},
						"geometry": {
							Type:        "object",
							Description: "Coordinates or dimensions for the entity",
						},
						"notes": {Type: "string"},
					},
					Required: []string{"action", "geometry"},
				},
			},
			"metadata": {
				Type:        "object",
				Description: "Units, scale, file type, and other render options",
			},
		},
		Required: []string{"title", "summary", "entities"},
	}
}

// ToolContract describes the single tool a generative backend must invoke.
func ToolContract() llm.ToolDescriptor {
	return llm.ToolDescriptor{
		Name:        ToolName,
		Description: toolDescription,
		Parameters:  contractSchema().String(),
	}
}
