// Verbatim quote retrieval, bypassing the agent loop.
//
// Quote requests must return the documents' exact words, so the
// generation step is constrained to extraction instead of free reasoning.

package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/memory"
	"github.com/qwizzhq/qwizz/tools"
)

// quotesTopK keeps the extraction focused on the best passages.
const quotesTopK = 2

const reformulatePrompt = `Rewrite the user's request as a standalone search query for finding passages in interview documents. Resolve pronouns and references using the conversation. Return the query only.

Conversation so far:
%s

Request: %s
Query:`

const extractPrompt = `Extract verbatim quotes from the passages below that answer the request. Copy the wording exactly as it appears, in quotation marks, and cite each quote's source as doc_id: <id>. Do not paraphrase. If no passage contains a fitting quote, say so.

Passages:
%s

Request: %s
Quotes:`

// QuotesRetriever answers quote requests with exact passage text.
type QuotesRetriever struct {
	deps     tools.Deps
	callOpts *llm.CallOptions
}

// NewQuotesRetriever creates a retriever over the shared dependencies.
func NewQuotesRetriever(deps tools.Deps, callOpts *llm.CallOptions) *QuotesRetriever {
	return &QuotesRetriever{deps: deps, callOpts: callOpts}
}

// Run reformulates the request into a standalone query, retrieves the
// top passages under the document filter and extracts verbatim quotes.
func (q *QuotesRetriever) Run(ctx context.Context, request string, history memory.History, filter docstore.Filter) (agentResult, error) {
	query, err := q.reformulate(ctx, request, history)
	if err != nil {
		return agentResult{}, fmt.Errorf("reformulating quote request: %w", err)
	}

	vec, err := q.deps.Embedder.Embed(ctx, query)
	if err != nil {
		return agentResult{}, fmt.Errorf("embedding quote query: %w", err)
	}

	passages, err := q.deps.Store.QueryByEmbedding(ctx, vec, filter, quotesTopK)
	if err != nil {
		return agentResult{}, fmt.Errorf("retrieving quote passages: %w", err)
	}

	transcript := "QuotesRetriever: " + query + "\n"
	if len(passages) == 0 {
		return agentResult{
			Answer:     "No passages were found to quote from for this request.",
			Transcript: transcript,
		}, nil
	}

	prompt := fmt.Sprintf(extractPrompt, tools.FormatPassages(passages), request)
	answer, err := q.deps.Client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, q.callOpts)
	if err != nil {
		return agentResult{}, fmt.Errorf("extracting quotes: %w", err)
	}

	return agentResult{
		Answer:     strings.TrimSpace(answer),
		Transcript: transcript,
	}, nil
}

// reformulate resolves follow-up references into a standalone query.
// With no prior turns the request is already standalone.
func (q *QuotesRetriever) reformulate(ctx context.Context, request string, history memory.History) (string, error) {
	transcript := memory.Render(history, memory.RenderOptions{
		IncludeCurrent: false,
		Order:          memory.Ascending,
	})
	if transcript == "" {
		return request, nil
	}

	prompt := fmt.Sprintf(reformulatePrompt, transcript, request)
	query, err := q.deps.Client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, q.callOpts)
	if err != nil {
		return "", err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return request, nil
	}
	return query, nil
}
