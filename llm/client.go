// LLMClient - Simple wrapper around providers.

package llm

import (
	"context"
	"fmt"
)

// Client wraps a Provider with a simple interface.
type Client struct {
	provider Provider
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Chat sends a chat completion request and returns just the content.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	response, err := c.provider.Chat(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

// ChatWithOptions sends a chat completion request with per-call overrides
// (model, token budget, temperature, stop sequences) and returns the content.
func (c *Client) ChatWithOptions(ctx context.Context, messages []ChatMessage, opts *CallOptions) (string, error) {
	response, err := c.provider.Chat(ctx, messages, opts)
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

// ChatWithUsage sends a chat completion request with per-call overrides
// and returns content with token usage. Usage may be nil when the
// provider does not report it.
func (c *Client) ChatWithUsage(ctx context.Context, messages []ChatMessage, opts *CallOptions) (string, *TokenUsage, error) {
	response, err := c.provider.Chat(ctx, messages, opts)
	if err != nil {
		return "", nil, err
	}
	return response.Content, response.Usage, nil
}

// ChatBatch renders the template once per document and generates an answer
// for each. Results are returned in input order. The calls are sequential;
// a failure aborts the batch with the index of the failed document.
func (c *Client) ChatBatch(ctx context.Context, documents []string, template string, opts *CallOptions) ([]string, error) {
	results := make([]string, 0, len(documents))
	for i, doc := range documents {
		prompt := fmt.Sprintf(template, doc)
		response, err := c.provider.Chat(ctx, []ChatMessage{UserMessage(prompt)}, opts)
		if err != nil {
			return nil, fmt.Errorf("batch generation failed at document %d: %w", i, err)
		}
		results = append(results, response.Content)
	}
	return results, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
