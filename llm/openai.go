// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API
// - Per-call API-key rotation

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI.
// One underlying client is built per configured API key; the chooser
// decides which one serves each call.
type OpenAIProvider struct {
	clients     map[string]*openai.Client
	keys        KeyChooser
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI provider over the given keys.
func NewOpenAIProvider(keys KeyChooser, apiKeys []string, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	clients := make(map[string]*openai.Client, len(apiKeys))
	for _, k := range apiKeys {
		clients[k] = openai.NewClient(k)
	}

	return &OpenAIProvider{
		clients:     clients,
		keys:        keys,
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// NewOpenAIProviderWithKey creates a provider with a single static key.
func NewOpenAIProviderWithKey(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return NewOpenAIProvider(StaticKey(apiKey), []string{apiKey}, model, maxTokens, temperature)
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the default model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Chat sends a chat completion request with optional per-call overrides.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []ChatMessage, opts *CallOptions) (LLMResponse, error) {
	client, err := p.client()
	if err != nil {
		return LLMResponse{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	if opts != nil {
		if opts.Model != "" {
			req.Model = opts.Model
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = int(opts.MaxTokens)
		}
		if opts.Temperature != nil {
			req.Temperature = *opts.Temperature
		}
		if len(opts.Stop) > 0 {
			req.Stop = opts.Stop
		}
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, Usage: usage}, nil
}

// client returns the underlying client for the next key in rotation.
func (p *OpenAIProvider) client() (*openai.Client, error) {
	key := p.keys.Next()
	client, ok := p.clients[key]
	if !ok {
		return nil, fmt.Errorf("no client for chosen API key")
	}
	return client, nil
}

// convertToOpenAIMessages converts our ChatMessage to openai.ChatCompletionMessage
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
