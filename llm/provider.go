// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
// - API-key rotation across configured keys

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the default model being used.
	Model() string

	// Chat sends a chat completion request. opts may be nil, in which
	// case provider defaults apply. Stop sequences in opts truncate
	// generation at the first occurrence.
	Chat(ctx context.Context, messages []ChatMessage, opts *CallOptions) (LLMResponse, error)
}
