// Agent configuration types.
//
// Information Hiding:
// - Step budget and default values hidden
// - Prompt assembly from the toolbox hidden

package agent

import (
	"fmt"
	"strings"

	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/tools"
)

// DefaultMaxSteps bounds the loop regardless of model behavior.
const DefaultMaxSteps = 8

// Config holds agent configuration.
type Config struct {
	// Name identifies the agent variant in logs.
	Name string

	// SystemPrompt frames the agent's role. The protocol instructions
	// and the tool catalog are appended automatically.
	SystemPrompt string

	// Memory is the compacted digest of earlier conversation turns,
	// regenerated per run. Empty for fresh conversations.
	Memory string

	// Toolbox holds the tools this variant may invoke.
	Toolbox *tools.Toolbox

	// MaxSteps caps loop iterations. Zero means DefaultMaxSteps.
	MaxSteps int

	// CallOptions are the per-call overrides for every loop iteration.
	CallOptions *llm.CallOptions
}

// Validate reports configuration errors before the first model call.
func (c Config) Validate() error {
	if c.Toolbox == nil || len(c.Toolbox.Names()) == 0 {
		return fmt.Errorf("agent %q has no tools", c.Name)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("agent %q has negative max steps", c.Name)
	}
	return nil
}

const protocolInstructions = `Answer the question by reasoning step by step. Use this exact format:

Thought: what you are thinking about the question
Tool: the tool to use, one of [%s]
Tool Input: the input to the tool
Observation: the tool's result (provided to you, never write this yourself)

Repeat Thought/Tool/Tool Input/Observation as needed. When you know the answer, write:

Thought: I now know the answer
Final Answer: the answer to the question

Available tools:
%s`

// systemPrompt renders the full system message: the variant's framing
// followed by the protocol instructions and tool catalog.
func (c Config) systemPrompt() string {
	names := strings.Join(c.Toolbox.Names(), ", ")
	proto := fmt.Sprintf(protocolInstructions, names, c.Toolbox.Description())

	var parts []string
	if c.SystemPrompt != "" {
		parts = append(parts, c.SystemPrompt)
	}
	if c.Memory != "" {
		parts = append(parts, "Summary of the conversation so far:\n"+c.Memory)
	}
	parts = append(parts, proto)
	return strings.Join(parts, "\n\n")
}

// maxSteps resolves the effective step budget.
func (c Config) maxSteps() int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return DefaultMaxSteps
}
