// Question generation for the document QnA page.
//
// Two implementations: a remote inference endpoint and a prompt-based
// fallback on the configured chat model.
//
// Information Hiding:
// - Remote request shape and retry policy hidden
// - Prompt wording hidden

package explore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qwizzhq/qwizz/llm"
)

// maxQuestions caps how many questions one document page gets.
const maxQuestions = 3

// Remote endpoints answer 503 while a model is loading; that is the
// only status worth waiting out.
const (
	remoteExtraAttempts = 2
	remoteRetryDelay    = 2 * time.Second
)

// QuestionGenerator produces candidate questions about a document text.
type QuestionGenerator interface {
	Generate(ctx context.Context, docText string) ([]string, error)
}

// RemoteGenerator calls a hosted question-generation model.
type RemoteGenerator struct {
	url    string
	apiKey string
	client *http.Client
	delay  time.Duration
}

// NewRemoteGenerator creates a generator for the given inference endpoint.
func NewRemoteGenerator(url, apiKey string) *RemoteGenerator {
	return &RemoteGenerator{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		delay:  remoteRetryDelay,
	}
}

type remoteRequest struct {
	Inputs  []string      `json:"inputs"`
	Options remoteOptions `json:"options"`
}

type remoteOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type remoteAnswer struct {
	GeneratedText string `json:"generated_text"`
}

// Generate asks the remote model for questions, retrying only when the
// endpoint reports it is still loading.
func (g *RemoteGenerator) Generate(ctx context.Context, docText string) ([]string, error) {
	var lastStatus int
	for attempt := 0; attempt <= remoteExtraAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(g.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		questions, status, err := g.call(ctx, docText)
		if err != nil {
			return nil, err
		}
		if status == http.StatusOK {
			return questions, nil
		}
		lastStatus = status
		if status != http.StatusServiceUnavailable {
			return nil, fmt.Errorf("question generation returned status %d", status)
		}
	}
	return nil, fmt.Errorf("question generation unavailable after retries, last status %d", lastStatus)
}

func (g *RemoteGenerator) call(ctx context.Context, docText string) ([]string, int, error) {
	body, err := json.Marshal(remoteRequest{
		Inputs:  []string{docText},
		Options: remoteOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encoding question request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("building question request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("calling question generation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var answers []remoteAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answers); err != nil {
		return nil, 0, fmt.Errorf("decoding question response: %w", err)
	}

	var questions []string
	for _, a := range answers {
		if q := strings.TrimSpace(a.GeneratedText); q != "" {
			questions = append(questions, q)
		}
		if len(questions) == maxQuestions {
			break
		}
	}
	return questions, http.StatusOK, nil
}

const questionPrompt = `Read the following interview document and write up to three questions a researcher would ask about its content. Each question must be answerable from the document. Return one question per line, nothing else.

Document:
%s

Questions:`

// PromptGenerator generates questions with the configured chat model.
type PromptGenerator struct {
	client *llm.Client
	opts   *llm.CallOptions
}

// NewPromptGenerator creates a prompt-based generator.
func NewPromptGenerator(client *llm.Client, opts *llm.CallOptions) *PromptGenerator {
	return &PromptGenerator{client: client, opts: opts}
}

// Generate asks the chat model for questions, one per line.
func (g *PromptGenerator) Generate(ctx context.Context, docText string) ([]string, error) {
	prompt := fmt.Sprintf(questionPrompt, docText)
	answer, err := g.client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, g.opts)
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}

	var questions []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789.) "))
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == maxQuestions {
			break
		}
	}
	return questions, nil
}
