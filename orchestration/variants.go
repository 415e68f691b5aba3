// Agent variant construction: one toolbox and framing per intent.
//
// Information Hiding:
// - Variant system prompts hidden
// - Tool selection per variant hidden

package orchestration

import (
	"github.com/qwizzhq/qwizz/agent"
	"github.com/qwizzhq/qwizz/config"
	"github.com/qwizzhq/qwizz/intent"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/tools"
)

const documentFraming = `You are a research assistant for qualitative researchers. You answer questions about uploaded interview documents using the tools. Ground every claim in the documents and cite sources as doc_id: <id>. If the documents do not answer the question, say so instead of guessing.`

const assistantFraming = `You are the in-app assistant for a qualitative research tool. You help users with the application itself and with general research concepts. Do not invent document content.`

// Variants builds the per-intent agent configurations.
type Variants struct {
	deps     tools.Deps
	provider llm.Provider
	opts     config.Options
	maxSteps int
}

// NewVariants creates a variant builder over shared dependencies.
func NewVariants(deps tools.Deps, provider llm.Provider, opts config.Options) *Variants {
	return &Variants{deps: deps, provider: provider, opts: opts}
}

// WithMaxSteps overrides the agents' step budget.
func (v *Variants) WithMaxSteps(n int) *Variants {
	if n > 0 {
		v.maxSteps = n
	}
	return v
}

// Build returns the agent for the given intent. The digest is the
// compacted conversation memory injected into the system prompt.
// The memory tool stays unregistered; follow-up references are resolved
// through the digest instead.
func (v *Variants) Build(it intent.Intent, digest string) *agent.Agent {
	callOpts := tools.CallOptionsFor(v.opts)

	switch it {
	case intent.IntentTool:
		box := tools.NewToolbox().MustRegister(
			tools.NewHelperTool(v.deps, v.opts),
			tools.NewRecommendQuestionTool(v.deps, v.opts),
			tools.NewExplainerTool(v.deps, v.opts),
		)
		return agent.New(agent.Config{
			Name:         "assistant",
			SystemPrompt: assistantFraming,
			Memory:       digest,
			Toolbox:      box,
			MaxSteps:     v.maxSteps,
			CallOptions:  callOpts,
		}, v.provider)

	default:
		box := tools.NewToolbox().MustRegister(
			tools.NewSearchTool(v.deps, v.opts),
			tools.NewComparisonTool(v.deps, v.opts),
			tools.NewKeyPointTool(v.deps, v.opts),
			tools.NewExternalKnowledgeTool(v.deps, v.opts),
		)
		return agent.New(agent.Config{
			Name:         "document",
			SystemPrompt: documentFraming,
			Memory:       digest,
			Toolbox:      box,
			MaxSteps:     v.maxSteps,
			CallOptions:  callOpts,
		}, v.provider)
	}
}
