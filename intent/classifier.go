// Package intent routes an incoming question to an agent variant.
//
// Information Hiding:
// - Classification prompt hidden
// - Tolerant matching of model output to the taxonomy hidden
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qwizzhq/qwizz/internal/fuzzy"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/memory"
)

// Intent is one of the supported question categories.
type Intent string

const (
	// IntentDocument covers questions about document content.
	IntentDocument Intent = "document"

	// IntentQuotes covers requests for verbatim quotes.
	IntentQuotes Intent = "quotes"

	// IntentTool covers questions about the application itself.
	IntentTool Intent = "tool"
)

// Default is the intent assumed when classification fails in any way.
const Default = IntentDocument

// maxEditDistance bounds how far a model answer may drift from a
// taxonomy label and still match.
const maxEditDistance = 3

var taxonomy = []string{
	string(IntentDocument),
	string(IntentQuotes),
	string(IntentTool),
}

const classifyPrompt = `Classify the user's question into exactly one category. Answer with the category name only.

Categories:
- document: the question asks about the content of the uploaded documents, or asks to summarize or compare them. Examples: "What did participants think of the pricing change?", "Summarize the second interview."
- quotes: the question asks for verbatim quotes or exact passages from the documents. Examples: "Give me a quote about onboarding.", "What exactly did they say about the redesign?"
- tool: the question is about the application itself, how to use it, or general concepts unrelated to the documents. Examples: "How do I upload a document?", "What is thematic analysis?"

Conversation so far:
%s

Question: %s
Category:`

// Classifier assigns an intent to each question using one model call.
type Classifier struct {
	client *llm.Client
	opts   *llm.CallOptions
	logger *slog.Logger
}

// NewClassifier creates a classifier on the given provider.
func NewClassifier(provider llm.Provider, opts *llm.CallOptions) *Classifier {
	return &Classifier{
		client: llm.NewClient(provider),
		opts:   opts,
		logger: slog.Default().With("component", "intent"),
	}
}

// Classify returns the intent for the question, falling back to
// IntentDocument when the model fails or answers outside the taxonomy.
// Classification never returns an error: a wrong route still produces
// an answer, a failed route would not.
func (c *Classifier) Classify(ctx context.Context, question string, history memory.History) Intent {
	transcript := memory.Render(history, memory.RenderOptions{
		IncludeCurrent: false,
		Order:          memory.Ascending,
	})
	if transcript == "" {
		transcript = "(no prior turns)"
	}

	prompt := fmt.Sprintf(classifyPrompt, transcript, question)
	answer, err := c.client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, c.opts)
	if err != nil {
		c.logger.Warn("classification failed, using default", "error", err)
		return Default
	}

	label, ok := fuzzy.ClosestMatch(firstWord(answer), taxonomy, maxEditDistance)
	if !ok {
		c.logger.Warn("classification outside taxonomy, using default", "answer", answer)
		return Default
	}
	return Intent(label)
}

// firstWord strips explanations the model may append after the label.
func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n.,:;"); i >= 0 {
		s = s[:i]
	}
	return s
}
