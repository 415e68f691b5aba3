// Parsing of the model's plain-text loop protocol.
//
// Information Hiding:
// - Protocol markers and their tolerated variations hidden
// - Tool name cleanup delegated to the toolbox's normalizer

package agent

import (
	"strings"

	"github.com/qwizzhq/qwizz/tools"
)

// Protocol markers the model is instructed to emit.
const (
	markerThought     = "Thought:"
	markerTool        = "Tool:"
	markerToolInput   = "Tool Input:"
	markerObservation = "Observation:"
	markerFinal       = "Final Answer:"
)

// ParseAction interprets one raw model output.
//
// A "Final Answer:" marker wins over a tool request appearing in the same
// output: models sometimes emit both, and answering is the safer reading.
func ParseAction(output string) Action {
	action := Action{Thought: section(output, markerThought)}

	if answer := section(output, markerFinal); answer != "" {
		action.Kind = ActionFinal
		action.Answer = answer
		return action
	}

	name := tools.Normalize(section(output, markerTool))
	if name != "" {
		action.Kind = ActionTool
		action.Tool = name
		action.Input = section(output, markerToolInput)
		return action
	}

	action.Kind = ActionUnparseable
	return action
}

// section extracts the text following a marker, up to the next marker or
// the end of the output. Returns "" when the marker is absent.
func section(output, marker string) string {
	idx := strings.Index(output, marker)
	if idx < 0 {
		return ""
	}
	rest := output[idx+len(marker):]

	end := len(rest)
	for _, m := range []string{markerThought, markerTool, markerToolInput, markerObservation, markerFinal} {
		if m == marker {
			continue
		}
		if i := strings.Index(rest, m); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(rest[:end])
}
