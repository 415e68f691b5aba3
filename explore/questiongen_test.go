package explore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/qwizzhq/qwizz/llm"
)

func remoteServer(t *testing.T, failures int, failStatus int) (*httptest.Server, *int) {
	t.Helper()
	calls := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if *calls <= failures {
			w.WriteHeader(failStatus)
			return
		}
		json.NewEncoder(w).Encode([]remoteAnswer{
			{GeneratedText: "What did participants say about pricing?"},
			{GeneratedText: "How was onboarding received?"},
		})
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestRemoteGeneratorRetriesOn503(t *testing.T) {
	server, calls := remoteServer(t, 2, http.StatusServiceUnavailable)
	gen := NewRemoteGenerator(server.URL, "test-key")
	gen.delay = 0

	questions, err := gen.Generate(context.Background(), "document text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3", *calls)
	}
	if len(questions) != 2 {
		t.Errorf("questions = %v", questions)
	}
}

func TestRemoteGeneratorGivesUpAfterRetries(t *testing.T) {
	server, calls := remoteServer(t, 10, http.StatusServiceUnavailable)
	gen := NewRemoteGenerator(server.URL, "")
	gen.delay = 0

	if _, err := gen.Generate(context.Background(), "document text"); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if *calls != 1+remoteExtraAttempts {
		t.Errorf("calls = %d, want %d", *calls, 1+remoteExtraAttempts)
	}
}

func TestRemoteGeneratorDoesNotRetryOtherStatuses(t *testing.T) {
	server, calls := remoteServer(t, 10, http.StatusBadRequest)
	gen := NewRemoteGenerator(server.URL, "")
	gen.delay = 0

	if _, err := gen.Generate(context.Background(), "document text"); err == nil {
		t.Fatal("expected error for bad request")
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1 without retry", *calls)
	}
}

func TestRemoteGeneratorRequestShape(t *testing.T) {
	var got remoteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode([]remoteAnswer{{GeneratedText: "q"}})
	}))
	t.Cleanup(server.Close)

	gen := NewRemoteGenerator(server.URL, "")
	if _, err := gen.Generate(context.Background(), "document text"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got.Inputs) != 1 || got.Inputs[0] != "document text" {
		t.Errorf("inputs = %v", got.Inputs)
	}
	if !got.Options.WaitForModel {
		t.Error("wait_for_model not set")
	}
}

func TestRemoteGeneratorSendsAuthHeader(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]remoteAnswer{{GeneratedText: "q"}})
	}))
	t.Cleanup(server.Close)

	gen := NewRemoteGenerator(server.URL, "secret")
	if _, err := gen.Generate(context.Background(), "text"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("auth header = %q", auth)
	}
}

type lineProvider struct {
	answer string
}

func (p lineProvider) Name() string  { return "lines" }
func (p lineProvider) Model() string { return "lines-model" }

func (p lineProvider) Chat(_ context.Context, _ []llm.ChatMessage, _ *llm.CallOptions) (llm.LLMResponse, error) {
	return llm.LLMResponse{Content: p.answer}, nil
}

func TestPromptGeneratorCapsAndCleansQuestions(t *testing.T) {
	provider := lineProvider{answer: "1. First question?\n\n- Second question?\n3) Third question?\n4. Fourth question?"}
	gen := NewPromptGenerator(llm.NewClient(provider), nil)

	questions, err := gen.Generate(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(questions) != maxQuestions {
		t.Fatalf("questions = %d, want %d", len(questions), maxQuestions)
	}
	for _, q := range questions {
		if !strings.HasSuffix(q, "question?") || strings.ContainsAny(q[:1], "0123456789-*") {
			t.Errorf("question not cleaned: %q", q)
		}
	}
}
