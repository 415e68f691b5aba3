// Retrieval + generation pipelines wrapped by the document tools.
//
// Information Hiding:
// - Embedding, vector query, ranking and prompt assembly hidden behind Run
// - Per-stage parameter defaults hidden here

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/rank"
)

// Default retrieval and prompt-assembly settings.
const (
	DefaultTopK       = 5
	DefaultWordBudget = 1024
)

// Deps bundles the external services pipelines depend on.
type Deps struct {
	Client   *llm.Client
	Embedder docstore.Embedder
	Store    docstore.Store
}

// SearchPipeline embeds a query, retrieves passages under a document
// filter, ranks them and generates an answer grounded in them.
type SearchPipeline struct {
	deps       Deps
	template   string
	callOpts   *llm.CallOptions
	topK       int
	wordBudget int
}

// NewSearchPipeline creates a pipeline with the given answer template.
// The template receives the formatted passages and the query, in that order.
func NewSearchPipeline(deps Deps, template string, callOpts *llm.CallOptions) *SearchPipeline {
	return &SearchPipeline{
		deps:       deps,
		template:   template,
		callOpts:   callOpts,
		topK:       DefaultTopK,
		wordBudget: DefaultWordBudget,
	}
}

// WithTopK overrides the default passage count.
func (p *SearchPipeline) WithTopK(k int) *SearchPipeline {
	if k > 0 {
		p.topK = k
	}
	return p
}

// Run executes embed, retrieve, rank and generate for the query.
// The stage params may carry a document filter and topK override; both
// the plain retriever and the filter-retriever stage shapes are accepted.
func (p *SearchPipeline) Run(ctx context.Context, query string, params RunParams) (string, error) {
	stage := params.FilterRetriever
	if stage == nil {
		stage = params.Retriever
	}

	topK := p.topK
	filter := docstore.Filter{}
	if stage != nil {
		if stage.TopK > 0 {
			topK = stage.TopK
		}
		filter = stage.Filter
	}

	vec, err := p.deps.Embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}

	passages, err := p.deps.Store.QueryByEmbedding(ctx, vec, filter, topK)
	if err != nil {
		return "", fmt.Errorf("retrieving passages: %w", err)
	}
	if len(passages) == 0 {
		return "No relevant passages were found for this question.", nil
	}

	passages = rank.Diversity(passages)
	passages = rank.LostInTheMiddle(passages, p.wordBudget)

	prompt := fmt.Sprintf(p.template, FormatPassages(passages), query)
	answer, err := p.deps.Client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, p.callOpts)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// FormatPassages renders passages for a prompt, annotating each with its
// source document id so the model can cite it.
func FormatPassages(passages []docstore.Passage) string {
	var parts []string
	for _, p := range passages {
		parts = append(parts, fmt.Sprintf("(doc_id: %s) %s", p.DocID, p.Content))
	}
	return strings.Join(parts, "\n\n")
}

// GenerateOnly runs a bare generation call with the given template and
// input. Used by tools that need no retrieval.
func GenerateOnly(ctx context.Context, client *llm.Client, template, input string, callOpts *llm.CallOptions) (string, error) {
	prompt := fmt.Sprintf(template, input)
	answer, err := client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, callOpts)
	if err != nil {
		return "", fmt.Errorf("generating: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
