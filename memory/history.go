// Package memory provides conversation history rendering and compaction.
//
// Information Hiding:
// - Turn ordering and interleaving rules hidden in pure functions
// - Compaction prompt hidden in SummaryMemory
//
// History values are never mutated: every operation returns a new value,
// so callers can share one loaded history across classifier, memory and
// agent without order-of-call surprises.
package memory

import (
	"fmt"
	"strings"
)

// Turn is one side of a conversation exchange, correlated by Seq.
type Turn struct {
	Seq  int
	Text string
}

// History holds the user (input) and agent (output) turns of a chat as
// two parallel sequences correlated by sequence id. Sequence ids are
// strictly increasing per chat.
type History struct {
	Inputs  []Turn
	Outputs []Turn
}

// Empty reports whether the history has no turns.
func (h History) Empty() bool {
	return len(h.Inputs) == 0 && len(h.Outputs) == 0
}

// Order controls the direction turns are rendered in.
type Order int

const (
	// Ascending renders oldest turns first.
	Ascending Order = iota
	// Descending renders newest turns first.
	Descending
)

// RenderOptions controls how a history is flattened to text.
type RenderOptions struct {
	// IncludeCurrent keeps the newest input turn. The classifier and
	// summary memory exclude it: the current query is supplied to the
	// prompt separately.
	IncludeCurrent bool
	Order          Order
}

// Render flattens the history into "User:"/"Agent:" lines. Exchanges are
// interleaved by sequence id. The input history is not modified.
func Render(h History, opts RenderOptions) string {
	inputs := h.Inputs
	if !opts.IncludeCurrent && len(inputs) > 0 {
		current := currentSeq(inputs)
		trimmed := make([]Turn, 0, len(inputs))
		for _, t := range inputs {
			if t.Seq != current {
				trimmed = append(trimmed, t)
			}
		}
		inputs = trimmed
	}

	outputBySeq := make(map[int]string, len(h.Outputs))
	for _, t := range h.Outputs {
		outputBySeq[t.Seq] = t.Text
	}

	var lines []string
	for _, in := range inputs {
		lines = append(lines, fmt.Sprintf("User: %s", in.Text))
		if out, ok := outputBySeq[in.Seq]; ok {
			lines = append(lines, fmt.Sprintf("Agent: %s", out))
		}
	}

	if opts.Order == Descending {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}

	return strings.Join(lines, "\n")
}

// Bounded returns a history restricted to the last n exchanges by
// sequence id. The input history is not modified.
func Bounded(h History, n int) History {
	if n <= 0 || len(h.Inputs) <= n {
		return h
	}

	cutoff := h.Inputs[len(h.Inputs)-n].Seq
	out := History{}
	for _, t := range h.Inputs {
		if t.Seq >= cutoff {
			out.Inputs = append(out.Inputs, t)
		}
	}
	for _, t := range h.Outputs {
		if t.Seq >= cutoff {
			out.Outputs = append(out.Outputs, t)
		}
	}
	return out
}

// currentSeq returns the highest sequence id among the turns.
func currentSeq(turns []Turn) int {
	max := turns[0].Seq
	for _, t := range turns[1:] {
		if t.Seq > max {
			max = t.Seq
		}
	}
	return max
}
