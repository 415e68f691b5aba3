// Document-variant tools: search, comparison, key points, external knowledge.

package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/qwizzhq/qwizz/config"
	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/rank"
	"github.com/qwizzhq/qwizz/summarize"
)

const searchTemplate = `Answer the question using only the interview passages below. When you use a passage, cite its source as doc_id: <id>. If the passages do not contain the answer, say so.

Passages:
%s

Question: %s
Answer:`

const comparisonTemplate = `Compare how the different documents below address the question. Point out agreements and disagreements, citing each source as doc_id: <id>.

Passages:
%s

Question: %s
Comparison:`

const externalKnowledgeTemplate = `Answer the question from your general knowledge. The interview passages below show what the user is working on; use them for context only and do not invent citations to them.

Passages:
%s

Question: %s
Answer:`

// CallOptionsFor translates validated generation options into per-call
// overrides. Model selection stays with the configured provider, so only
// the token budget and temperature are forwarded.
func CallOptionsFor(opts config.Options) *llm.CallOptions {
	temp := float32(opts.Temperature)
	return &llm.CallOptions{
		MaxTokens:   opts.MaxTokens(),
		Temperature: &temp,
	}
}

// NewSearchTool answers questions from passages retrieved across the
// selected documents.
func NewSearchTool(deps Deps, opts config.Options) Tool {
	pipeline := NewSearchPipeline(deps, searchTemplate, CallOptionsFor(opts))

	return Func{
		Meta: Metadata{
			Name:        "search_tool",
			Description: "Useful for answering questions about what the documents say. Input should be a fully formed question.",
			Caps:        Capabilities{Retriever: true, FilterRetriever: true},
		},
		Fn: pipeline.Run,
	}
}

// NewComparisonTool contrasts statements across the selected documents.
// Retrieval runs once per document so a high-scoring document cannot
// crowd the others out of the comparison.
func NewComparisonTool(deps Deps, opts config.Options) Tool {
	callOpts := CallOptionsFor(opts)

	return Func{
		Meta: Metadata{
			Name:        "comparison_tool",
			Description: "Useful for comparing what different documents say about a topic. Input should name the topic to compare.",
			Caps:        Capabilities{Retriever: true, FilterRetriever: true},
		},
		Fn: func(ctx context.Context, input string, params RunParams) (string, error) {
			stage := params.FilterRetriever
			if stage == nil {
				stage = params.Retriever
			}

			topK := DefaultTopK
			filter := docstore.Filter{}
			if stage != nil {
				if stage.TopK > 0 {
					topK = stage.TopK
				}
				filter = stage.Filter
			}

			vec, err := deps.Embedder.Embed(ctx, input)
			if err != nil {
				return "", fmt.Errorf("embedding query: %w", err)
			}

			var passages []docstore.Passage
			if len(filter.DocIDs) > 0 {
				for _, id := range filter.DocIDs {
					got, err := deps.Store.QueryByEmbedding(ctx, vec, docstore.Filter{DocIDs: []string{id}}, topK)
					if err != nil {
						return "", fmt.Errorf("retrieving passages for %s: %w", id, err)
					}
					passages = append(passages, got...)
				}
			} else {
				passages, err = deps.Store.QueryByEmbedding(ctx, vec, filter, 2*topK)
				if err != nil {
					return "", fmt.Errorf("retrieving passages: %w", err)
				}
			}
			if len(passages) == 0 {
				return "No relevant passages were found for this question.", nil
			}

			passages = rank.Diversity(passages)
			passages = rank.LostInTheMiddle(passages, DefaultWordBudget)

			prompt := fmt.Sprintf(comparisonTemplate, FormatPassages(passages), input)
			answer, err := deps.Client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, callOpts)
			if err != nil {
				return "", fmt.Errorf("generating comparison: %w", err)
			}
			return strings.TrimSpace(answer), nil
		},
	}
}

// NewKeyPointTool extracts key points per document via grouped recursive
// reduction over all passages of the filtered documents.
func NewKeyPointTool(deps Deps, opts config.Options) Tool {
	router := summarize.NewRouter(deps.Client, summarize.KeyPointPrompts).
		WithCallOptions(CallOptionsFor(opts))

	return Func{
		Meta: Metadata{
			Name:        "key_point_tool",
			Description: "Useful for summarizing the key points of whole documents. Input should describe what to focus on.",
			Caps:        Capabilities{FilterRetriever: true},
		},
		Fn: func(ctx context.Context, input string, params RunParams) (string, error) {
			filter := docstore.Filter{}
			if params.FilterRetriever != nil {
				filter = params.FilterRetriever.Filter
			}

			passages, err := deps.Store.GetAll(ctx, filter)
			if err != nil {
				return "", err
			}
			if len(passages) == 0 {
				return "The selected documents contain no passages.", nil
			}

			reduced, err := router.Run(ctx, passages)
			if err != nil {
				return "", err
			}

			var parts []string
			for _, p := range reduced {
				parts = append(parts, "doc_id: "+p.DocID+"\n"+p.Content)
			}
			return strings.Join(parts, "\n\n"), nil
		},
	}
}

// NewExternalKnowledgeTool answers from the model's general knowledge,
// with retrieved passages as context so the answer stays anchored to
// what the user is researching.
func NewExternalKnowledgeTool(deps Deps, opts config.Options) Tool {
	// Always evaluates to 0 for non-negative configured temperatures.
	temp := float32(math.Min(0, opts.Temperature-0.1))
	callOpts := &llm.CallOptions{
		MaxTokens:   opts.MaxTokens(),
		Temperature: &temp,
	}
	pipeline := NewSearchPipeline(deps, externalKnowledgeTemplate, callOpts)

	return Func{
		Meta: Metadata{
			Name:        "external_knowledge_tool",
			Description: "Useful for general background questions that the documents cannot answer. Input should be a fully formed question.",
			Caps:        Capabilities{Retriever: true, FilterRetriever: true},
		},
		Fn: pipeline.Run,
	}
}
