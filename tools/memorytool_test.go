package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/memory"
)

func TestMemoryToolRendersTranscript(t *testing.T) {
	history := memory.History{
		Inputs: []memory.Turn{
			{Seq: 0, Text: "what did they say about pricing?"},
			{Seq: 1, Text: "and onboarding?"},
		},
		Outputs: []memory.Turn{
			{Seq: 0, Text: "pricing was the main complaint"},
		},
	}

	recorder := &promptRecorder{reply: "you asked about pricing"}
	tool := NewMemoryTool(llm.NewClient(recorder), history, nil)

	answer, err := tool.Run(context.Background(), "what did I ask first?", RunParams{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "you asked about pricing" {
		t.Errorf("answer = %q", answer)
	}

	prompt := recorder.prompts[0]
	if !strings.Contains(prompt, "what did they say about pricing?") {
		t.Errorf("earlier turn missing from transcript:\n%s", prompt)
	}
	// The newest input is the in-flight question, not part of the transcript.
	if strings.Contains(prompt, "and onboarding?") {
		t.Errorf("current question leaked into transcript:\n%s", prompt)
	}
}

func TestMemoryToolEmptyHistory(t *testing.T) {
	recorder := &promptRecorder{reply: "unused"}
	tool := NewMemoryTool(llm.NewClient(recorder), memory.History{}, nil)

	answer, err := tool.Run(context.Background(), "what did I ask?", RunParams{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(answer, "no earlier conversation") {
		t.Errorf("answer = %q", answer)
	}
	if len(recorder.prompts) != 0 {
		t.Error("model called despite empty history")
	}
}
