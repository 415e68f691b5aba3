// Package tools provides the tool system for conversational agents.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Retrieval and generation pipelines hidden in implementations
// - Toolbox lookup and name normalization hidden from consumers
//
// A tool's description is rendered verbatim into the agent's system
// prompt and is the only mechanism by which the agent knows what the
// tool does. Treat descriptions as part of the contract.
package tools

import (
	"context"
	"fmt"

	"github.com/qwizzhq/qwizz/docstore"
)

// Capabilities declares which parameter stages a tool's pipeline
// accepts. Declared at registration instead of introspecting the
// pipeline at call time.
type Capabilities struct {
	Retriever       bool
	FilterRetriever bool
}

// Metadata describes what a tool does and how to address it.
type Metadata struct {
	Name        string
	Description string
	Caps        Capabilities
}

// String returns a string representation of the tool metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// StageParams are parameters addressed to one pipeline stage.
type StageParams struct {
	TopK   int
	Filter docstore.Filter
}

// RunParams carries per-stage parameters for a tool invocation. Stages
// the tool does not declare are pruned before the tool sees them; an
// unknown stage key is dropped, never an error.
type RunParams struct {
	Retriever       *StageParams
	FilterRetriever *StageParams
}

// Prune removes stage parameters the capabilities do not declare.
func (c Capabilities) Prune(p RunParams) RunParams {
	if !c.Retriever {
		p.Retriever = nil
	}
	if !c.FilterRetriever {
		p.FilterRetriever = nil
	}
	return p
}

// Tool is the interface all agent tools implement.
type Tool interface {
	// Metadata returns the tool's name, description and capabilities.
	Metadata() Metadata

	// Run executes the tool on the given input text.
	Run(ctx context.Context, input string, params RunParams) (string, error)
}

// Func adapts a plain function into a Tool.
type Func struct {
	Meta Metadata
	Fn   func(ctx context.Context, input string, params RunParams) (string, error)
}

// Metadata returns the tool metadata.
func (f Func) Metadata() Metadata {
	return f.Meta
}

// Run invokes the wrapped function.
func (f Func) Run(ctx context.Context, input string, params RunParams) (string, error) {
	return f.Fn(ctx, input, params)
}

// Verify Func implements Tool
var _ Tool = Func{}
