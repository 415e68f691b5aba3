// Package orchestration wires classification, routing, agent execution
// and persistence into one Answer entry point.
//
// Information Hiding:
// - Intent routing hidden
// - Retry policy hidden
// - Turn persistence hidden
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qwizzhq/qwizz/config"
	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/intent"
	"github.com/qwizzhq/qwizz/internal/text"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/memory"
	"github.com/qwizzhq/qwizz/tools"
)

// Retry policy for a whole agent run. The retry wraps the entire run,
// not individual model calls: a half-finished transcript is not worth
// resuming.
const (
	defaultRunAttempts = 2
	retryDelay         = time.Second
)

// defaultHistoryLast bounds how many prior turns feed classification
// and memory.
const defaultHistoryLast = 10

// fallbackAnswer is returned when every run attempt failed outright.
const fallbackAnswer = "Something went wrong while answering your question. Please try again."

// ConversationStore persists chat turns and reloads them as history.
type ConversationStore interface {
	History(ctx context.Context, chatID string, lastN int) (memory.History, error)
	AppendTurn(ctx context.Context, chatID, question, answer string) error
}

// Reply is the outcome of one Answer call.
type Reply struct {
	Answer           string
	Transcript       string
	Intent           intent.Intent
	ReferencedDocIDs []string
}

// agentResult is the routing-independent shape both execution paths
// produce.
type agentResult struct {
	Answer     string
	Transcript string
}

// Service answers questions over a chat's documents.
type Service struct {
	deps       tools.Deps
	provider   llm.Provider
	classifier *intent.Classifier
	store      ConversationStore
	logger     *slog.Logger
	delay      time.Duration

	attempts    int
	historyLast int
	maxSteps    int
	topK        int
}

// NewService creates the orchestration service.
func NewService(deps tools.Deps, provider llm.Provider, store ConversationStore) *Service {
	return &Service{
		deps:        deps,
		provider:    provider,
		classifier:  intent.NewClassifier(provider, nil),
		store:       store,
		logger:      slog.Default().With("component", "orchestration"),
		delay:       retryDelay,
		attempts:    defaultRunAttempts,
		historyLast: defaultHistoryLast,
	}
}

// WithAgentConfig applies the environment-driven execution limits.
// Zero or negative values keep the defaults.
func (s *Service) WithAgentConfig(cfg config.AgentConfig) *Service {
	if cfg.MaxRetries > 0 {
		s.attempts = cfg.MaxRetries
	}
	if cfg.HistoryLast > 0 {
		s.historyLast = cfg.HistoryLast
	}
	if cfg.MaxSteps > 0 {
		s.maxSteps = cfg.MaxSteps
	}
	if cfg.TopK > 0 {
		s.topK = cfg.TopK
	}
	return s
}

// Answer routes the question to the right variant, runs it with retry,
// extracts document references and persists the turn.
func (s *Service) Answer(ctx context.Context, chatID, question string, docIDs []string, opts config.Options) (Reply, error) {
	history, err := s.store.History(ctx, chatID, s.historyLast)
	if err != nil {
		return Reply{}, fmt.Errorf("loading history: %w", err)
	}
	history = withCurrentQuestion(memory.Bounded(history, s.historyLast), question)

	it := s.classifier.Classify(ctx, question, history)
	s.logger.Info("question classified", "chat_id", chatID, "intent", it)

	// The digest is regenerated per run; a failure here degrades to an
	// agent without compacted memory, not a failed answer.
	digest, err := memory.NewSummaryMemory(s.deps.Client).Summarize(ctx, history)
	if err != nil {
		s.logger.Warn("memory compaction failed", "chat_id", chatID, "error", err)
		digest = ""
	}

	result, err := s.runWithRetry(ctx, it, question, history, digest, docIDs, opts)
	if err != nil {
		s.logger.Error("all run attempts failed", "chat_id", chatID, "error", err)
		result = agentResult{Answer: fallbackAnswer}
	}

	answer, refs := text.ExtractReferencedDocuments(result.Answer)

	if err := s.store.AppendTurn(ctx, chatID, question, answer); err != nil {
		return Reply{}, fmt.Errorf("persisting turn: %w", err)
	}

	return Reply{
		Answer:           answer,
		Transcript:       result.Transcript,
		Intent:           it,
		ReferencedDocIDs: refs,
	}, nil
}

// runWithRetry executes the routed run, retrying the whole run on error.
func (s *Service) runWithRetry(ctx context.Context, it intent.Intent, question string, history memory.History, digest string, docIDs []string, opts config.Options) (agentResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			s.logger.Warn("retrying run", "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return agentResult{}, ctx.Err()
			}
		}

		result, err := s.run(ctx, it, question, history, digest, docIDs, opts)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return agentResult{}, lastErr
}

// run dispatches one attempt to the intent's execution path.
func (s *Service) run(ctx context.Context, it intent.Intent, question string, history memory.History, digest string, docIDs []string, opts config.Options) (agentResult, error) {
	filter := docstore.Filter{DocIDs: docIDs}

	if it == intent.IntentQuotes {
		retriever := NewQuotesRetriever(s.deps, tools.CallOptionsFor(opts))
		return retriever.Run(ctx, question, history, filter)
	}

	params := tools.RunParams{
		Retriever:       &tools.StageParams{Filter: filter, TopK: s.topK},
		FilterRetriever: &tools.StageParams{Filter: filter, TopK: s.topK},
	}

	variant := NewVariants(s.deps, s.provider, opts).WithMaxSteps(s.maxSteps).Build(it, digest)
	result, err := variant.Run(ctx, question, params)
	if err != nil {
		return agentResult{}, err
	}
	return agentResult{Answer: result.Answer, Transcript: result.Transcript}, nil
}

// withCurrentQuestion appends the incoming question as the newest input
// turn so rendering and classification see a consistent snapshot.
func withCurrentQuestion(h memory.History, question string) memory.History {
	seq := 0
	for _, t := range h.Inputs {
		if t.Seq >= seq {
			seq = t.Seq + 1
		}
	}
	out := memory.History{
		Inputs:  append(append([]memory.Turn(nil), h.Inputs...), memory.Turn{Seq: seq, Text: question}),
		Outputs: append([]memory.Turn(nil), h.Outputs...),
	}
	return out
}
