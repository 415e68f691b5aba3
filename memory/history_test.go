package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/qwizzhq/qwizz/llm"
)

func sampleHistory() History {
	return History{
		Inputs: []Turn{
			{Seq: 1, Text: "What is this study about?"},
			{Seq: 2, Text: "Who were the participants?"},
			{Seq: 3, Text: "What did they say about privacy?"},
		},
		Outputs: []Turn{
			{Seq: 1, Text: "It examines remote work."},
			{Seq: 2, Text: "Twelve software engineers."},
		},
	}
}

func TestRenderExcludesCurrentTurn(t *testing.T) {
	out := Render(sampleHistory(), RenderOptions{IncludeCurrent: false, Order: Ascending})

	if strings.Contains(out, "privacy") {
		t.Errorf("current turn leaked into rendering:\n%s", out)
	}
	if !strings.Contains(out, "User: What is this study about?") {
		t.Errorf("missing first exchange:\n%s", out)
	}
	if !strings.Contains(out, "Agent: Twelve software engineers.") {
		t.Errorf("missing agent turn:\n%s", out)
	}
}

func TestRenderIncludesCurrentTurn(t *testing.T) {
	out := Render(sampleHistory(), RenderOptions{IncludeCurrent: true, Order: Ascending})
	if !strings.Contains(out, "privacy") {
		t.Errorf("current turn missing:\n%s", out)
	}
}

func TestRenderDescending(t *testing.T) {
	out := Render(sampleHistory(), RenderOptions{IncludeCurrent: false, Order: Descending})
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "Agent: Twelve") {
		t.Errorf("expected newest line first, got %q", lines[0])
	}
}

func TestRenderDoesNotMutateHistory(t *testing.T) {
	h := sampleHistory()
	Render(h, RenderOptions{IncludeCurrent: false, Order: Descending})

	if len(h.Inputs) != 3 || h.Inputs[2].Text != "What did they say about privacy?" {
		t.Error("Render mutated the caller's history")
	}
}

func TestBounded(t *testing.T) {
	h := sampleHistory()
	b := Bounded(h, 2)

	if len(b.Inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(b.Inputs))
	}
	if b.Inputs[0].Seq != 2 {
		t.Errorf("expected oldest kept seq 2, got %d", b.Inputs[0].Seq)
	}
	// Original untouched.
	if len(h.Inputs) != 3 {
		t.Error("Bounded mutated the caller's history")
	}
}

func TestBoundedNoLimit(t *testing.T) {
	h := sampleHistory()
	b := Bounded(h, 0)
	if len(b.Inputs) != 3 {
		t.Errorf("expected full history, got %d inputs", len(b.Inputs))
	}
}

// stubProvider returns canned responses for summary tests.
type stubProvider struct {
	response string
	calls    int
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func (s *stubProvider) Chat(_ context.Context, _ []llm.ChatMessage, _ *llm.CallOptions) (llm.LLMResponse, error) {
	s.calls++
	return llm.LLMResponse{Content: s.response}, nil
}

func TestSummarizeEmptyHistorySkipsModelCall(t *testing.T) {
	stub := &stubProvider{response: "should not be called"}
	mem := NewSummaryMemory(llm.NewClient(stub))

	digest, err := mem.Summarize(context.Background(), History{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if digest != "" {
		t.Errorf("expected empty digest, got %q", digest)
	}
	if stub.calls != 0 {
		t.Errorf("expected no model calls, got %d", stub.calls)
	}
}

func TestSummarizeReturnsDigest(t *testing.T) {
	stub := &stubProvider{response: "  The user asked about a remote-work study.  "}
	mem := NewSummaryMemory(llm.NewClient(stub))

	digest, err := mem.Summarize(context.Background(), sampleHistory())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if digest != "The user asked about a remote-work study." {
		t.Errorf("digest = %q", digest)
	}
	if stub.calls != 1 {
		t.Errorf("expected one model call, got %d", stub.calls)
	}
}
