package orchestration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/qwizzhq/qwizz/config"
	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/intent"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/memory"
	"github.com/qwizzhq/qwizz/tools"
)

// scriptedProvider replays outputs in order. A script entry of "!" fails
// that call.
type scriptedProvider struct {
	outputs []string
	calls   int
	prompts []string
}

func (s *scriptedProvider) Name() string  { return "scripted" }
func (s *scriptedProvider) Model() string { return "scripted-model" }

func (s *scriptedProvider) Chat(_ context.Context, messages []llm.ChatMessage, _ *llm.CallOptions) (llm.LLMResponse, error) {
	s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	i := s.calls
	if i >= len(s.outputs) {
		i = len(s.outputs) - 1
	}
	s.calls++
	if s.outputs[i] == "!" {
		return llm.LLMResponse{}, errors.New("scripted failure")
	}
	return llm.LLMResponse{Content: s.outputs[i]}, nil
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type memConversations struct {
	histories map[string]memory.History
	appended  []string
}

func newMemConversations() *memConversations {
	return &memConversations{histories: make(map[string]memory.History)}
}

func (m *memConversations) History(_ context.Context, chatID string, _ int) (memory.History, error) {
	return m.histories[chatID], nil
}

func (m *memConversations) AppendTurn(_ context.Context, chatID, question, answer string) error {
	m.appended = append(m.appended, question, answer)
	return nil
}

func serviceUnderTest(t *testing.T, provider llm.Provider) (*Service, *memConversations) {
	t.Helper()

	store := docstore.NewMemStore()
	err := store.WriteDocuments(context.Background(), []docstore.Passage{
		{DocID: "42", SplitID: 0, Content: "pricing was the main complaint", Embedding: []float32{1, 0}},
		{DocID: "43", SplitID: 0, Content: "onboarding felt slow", Embedding: []float32{0.9, 0.1}},
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	deps := tools.Deps{
		Client:   llm.NewClient(provider),
		Embedder: fixedEmbedder{},
		Store:    store,
	}
	conversations := newMemConversations()
	svc := NewService(deps, provider, conversations)
	svc.delay = 0
	return svc, conversations
}

func TestAnswerDocumentPath(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{
		"document",
		"Thought: search\nTool: search_tool\nTool Input: pricing complaints",
		"Thought: done\nFinal Answer: Pricing was the main complaint, see doc_id: 42 for the full context.",
	}}
	svc, conversations := serviceUnderTest(t, provider)

	reply, err := svc.Answer(context.Background(), "chat-1", "what did they complain about?", []string{"42", "43"}, config.DefaultOptions())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if reply.Intent != intent.IntentDocument {
		t.Errorf("intent = %v", reply.Intent)
	}
	if !strings.Contains(reply.Answer, "[1]") {
		t.Errorf("reference not rewritten to an index: %q", reply.Answer)
	}
	if len(reply.ReferencedDocIDs) != 1 || reply.ReferencedDocIDs[0] != "42" {
		t.Errorf("referenced doc ids = %v, want [42]", reply.ReferencedDocIDs)
	}
	if !strings.Contains(reply.Transcript, "Tool: search_tool") {
		t.Errorf("transcript missing tool step:\n%s", reply.Transcript)
	}
	if len(conversations.appended) != 2 {
		t.Fatalf("expected question and answer persisted, got %v", conversations.appended)
	}
	if conversations.appended[1] != reply.Answer {
		t.Error("persisted answer differs from reply answer")
	}
}

func TestAnswerQuotesPath(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{
		"quotes",
		`"pricing was the main complaint" (doc_id: 42)`,
	}}
	svc, _ := serviceUnderTest(t, provider)

	reply, err := svc.Answer(context.Background(), "chat-1", "give me a quote about pricing", []string{"42"}, config.DefaultOptions())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if reply.Intent != intent.IntentQuotes {
		t.Errorf("intent = %v", reply.Intent)
	}
	if !strings.HasPrefix(reply.Transcript, "QuotesRetriever: ") {
		t.Errorf("transcript = %q", reply.Transcript)
	}
	if !strings.Contains(reply.Answer, "pricing was the main complaint") {
		t.Errorf("answer lost the quote: %q", reply.Answer)
	}
}

func TestAnswerRetriesWholeRun(t *testing.T) {
	// Classification succeeds, the first run attempt fails, the retry
	// reaches a final answer.
	provider := &scriptedProvider{outputs: []string{
		"document",
		"!",
		"Final Answer: recovered on retry",
	}}
	svc, _ := serviceUnderTest(t, provider)

	reply, err := svc.Answer(context.Background(), "chat-1", "q", nil, config.DefaultOptions())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if reply.Answer != "recovered on retry" {
		t.Errorf("answer = %q", reply.Answer)
	}
}

func TestAnswerHonorsConfiguredAttempts(t *testing.T) {
	// With a single attempt configured, the run that would have been
	// rescued by a retry falls back instead.
	provider := &scriptedProvider{outputs: []string{
		"document",
		"!",
		"Final Answer: would recover on retry",
	}}
	svc, _ := serviceUnderTest(t, provider)
	svc.WithAgentConfig(config.AgentConfig{MaxRetries: 1})

	reply, err := svc.Answer(context.Background(), "chat-1", "q", nil, config.DefaultOptions())
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if reply.Answer != fallbackAnswer {
		t.Errorf("answer = %q, want fallback without retry", reply.Answer)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want classification plus one attempt", provider.calls)
	}
}

func TestAnswerFallsBackAfterAllAttempts(t *testing.T) {
	provider := &scriptedProvider{outputs: []string{
		"document",
		"!",
	}}
	svc, conversations := serviceUnderTest(t, provider)

	reply, err := svc.Answer(context.Background(), "chat-1", "q", nil, config.DefaultOptions())
	if err != nil {
		t.Fatalf("Answer should not fail outright: %v", err)
	}
	if reply.Answer != fallbackAnswer {
		t.Errorf("answer = %q, want fallback", reply.Answer)
	}
	// The failed exchange is still persisted so the user sees it in the chat.
	if len(conversations.appended) != 2 {
		t.Errorf("turn not persisted on fallback: %v", conversations.appended)
	}
}
