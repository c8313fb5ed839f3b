package drawing

const systemPrompt = `You are a CAD automation specialist that plans Autodesk AutoCAD drawings from natural language.
Use tools to propose an HTTP payload the downstream service can send to Autodesk's Design Automation API.
Only request the minimum set of operations to achieve the user's intent.`

const userPromptPrefix = "Create an AutoCAD drawing plan and emit a single tool call." +
	" Include coordinates and layer hints. User request: "

func userPrompt(description string) string {
	return userPromptPrefix + description
}
