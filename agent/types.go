// Package agent provides the ReAct agent implementation.
//
// Contains all types used by agents for parsed actions, steps and results.
package agent

import (
	"fmt"
	"strings"
)

// ActionKind classifies what the model asked for in one step.
type ActionKind int

const (
	// ActionUnparseable means the output matched no known shape.
	ActionUnparseable ActionKind = iota

	// ActionTool means the model requested a tool invocation.
	ActionTool

	// ActionFinal means the model produced its final answer.
	ActionFinal
)

// Action is one parsed model output within the loop.
type Action struct {
	Kind    ActionKind
	Thought string

	// Tool and Input are set for ActionTool.
	Tool  string
	Input string

	// Answer is set for ActionFinal.
	Answer string
}

// Step records one completed loop iteration for the transcript.
type Step struct {
	Thought     string
	Tool        string
	Input       string
	Observation string
}

// Render writes the step back in the protocol's own format so it can be
// replayed to the model on the next iteration.
func (s Step) Render() string {
	var b strings.Builder
	if s.Thought != "" {
		fmt.Fprintf(&b, "Thought: %s\n", s.Thought)
	}
	if s.Tool != "" {
		fmt.Fprintf(&b, "Tool: %s\n", s.Tool)
		fmt.Fprintf(&b, "Tool Input: %s\n", s.Input)
	}
	fmt.Fprintf(&b, "Observation: %s\n", s.Observation)
	return b.String()
}

// Result is the outcome of one agent run.
type Result struct {
	// Answer is the final answer, or the fallback if the step budget ran out.
	Answer string

	// Transcript is the full reasoning trace in protocol format.
	Transcript string

	// Steps is the number of loop iterations consumed.
	Steps int

	// Exhausted reports whether the answer is the fallback.
	Exhausted bool
}
