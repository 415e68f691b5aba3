package llm

import (
	"context"
	"testing"
)

// usageProvider reports fixed usage and echoes the call options it saw.
type usageProvider struct {
	lastOpts *CallOptions
}

func (p *usageProvider) Name() string  { return "usage" }
func (p *usageProvider) Model() string { return "usage-model" }

func (p *usageProvider) Chat(_ context.Context, _ []ChatMessage, opts *CallOptions) (LLMResponse, error) {
	p.lastOpts = opts
	return LLMResponse{
		Content: "answer",
		Usage:   &TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func TestChatWithUsageForwardsOptionsAndUsage(t *testing.T) {
	provider := &usageProvider{}
	client := NewClient(provider)

	opts := &CallOptions{MaxTokens: 64}
	content, usage, err := client.ChatWithUsage(context.Background(), []ChatMessage{UserMessage("q")}, opts)
	if err != nil {
		t.Fatalf("ChatWithUsage: %v", err)
	}
	if content != "answer" {
		t.Errorf("content = %q", content)
	}
	if usage == nil || usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", usage)
	}
	if provider.lastOpts != opts {
		t.Error("call options not forwarded to the provider")
	}
}
