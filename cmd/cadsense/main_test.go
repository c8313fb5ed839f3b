package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/cadsense/server/service/drawing"
	"github.com/hrygo/cadsense/store"
)

func TestPrintRunResult(t *testing.T) {
	var buf bytes.Buffer
	printRunResult(&buf, &drawing.RunResult{
		RunID:      "abc",
		Source:     "fallback",
		Title:      "LLM-free sketch",
		Summary:    "Prototype layout for: shed",
		Entities:   "[]",
		Payload:    "{}",
		Submission: drawing.SkippedSubmission,
	})

	out := buf.String()
	assert.Contains(t, out, "Title: LLM-free sketch\n")
	assert.Contains(t, out, "Summary: Prototype layout for: shed\n")
	assert.Contains(t, out, "Entities:\n[]\n")
	assert.Contains(t, out, "Payload:\n{}\n")
	assert.Contains(t, out, "Submission:\nSkipped (preview only)\n")
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	printRuns(&buf, nil)
	assert.Equal(t, "No runs recorded yet.\n", buf.String())

	buf.Reset()
	printRuns(&buf, []*store.DrawingRun{
		{UID: "u1", Source: "llm", Sent: true, Description: "office", CreatedTs: 0},
		{UID: "u2", Source: "fallback", Description: "shed", CreatedTs: 0},
	})
	out := buf.String()
	assert.Contains(t, out, "u1")
	assert.Contains(t, out, "sent")
	assert.Contains(t, out, "preview")
	assert.Contains(t, out, "shed")
}

func TestOrNone(t *testing.T) {
	assert.Equal(t, "none", orNone(""))
	assert.Equal(t, "sqlite", orNone("sqlite"))
}
