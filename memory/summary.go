package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/qwizzhq/qwizz/llm"
)

const summaryPrompt = `Condense the following conversation between a user and a research assistant into a short summary. Keep names of documents, topics and any conclusions that were reached. Write at most five sentences.

Conversation:
%s

Summary:`

// SummaryMemory compacts prior conversation turns into a short digest
// used as prompt context. The digest is regenerated on every run and is
// owned exclusively by one agent invocation; nothing is cached across
// requests.
type SummaryMemory struct {
	client *llm.Client
}

// NewSummaryMemory creates a summary memory over the given client.
func NewSummaryMemory(client *llm.Client) *SummaryMemory {
	return &SummaryMemory{client: client}
}

// Summarize produces the digest for the given history, excluding the
// current turn. An empty history yields an empty digest without a model
// call.
func (m *SummaryMemory) Summarize(ctx context.Context, h History) (string, error) {
	rendered := Render(h, RenderOptions{IncludeCurrent: false, Order: Ascending})
	if strings.TrimSpace(rendered) == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(summaryPrompt, rendered)
	digest, err := m.client.Chat(ctx, []llm.ChatMessage{llm.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("summarizing conversation: %w", err)
	}
	return strings.TrimSpace(digest), nil
}
