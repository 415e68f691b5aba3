package rank

import (
	"testing"

	"github.com/qwizzhq/qwizz/docstore"
)

func TestDiversityKeepsTopPassageFirst(t *testing.T) {
	passages := []docstore.Passage{
		{ID: "a", Embedding: []float32{1, 0, 0}},
		{ID: "b", Embedding: []float32{0.99, 0.01, 0}},
		{ID: "c", Embedding: []float32{0, 1, 0}},
	}

	out := Diversity(passages)

	if len(out) != 3 {
		t.Fatalf("expected 3 passages, got %d", len(out))
	}
	if out[0].ID != "a" {
		t.Errorf("top passage moved: got %s first", out[0].ID)
	}
	// The orthogonal passage is less similar to "a" than the near-duplicate.
	if out[1].ID != "c" {
		t.Errorf("expected most diverse passage second, got %s", out[1].ID)
	}
}

func TestDiversityReordersRetrievedPassages(t *testing.T) {
	// Passages in the shape the vector stores return: scored, with the
	// stored embedding attached, two near-duplicates ranked first.
	passages := []docstore.Passage{
		{ID: "a", DocID: "1", Content: "pricing a", Score: 0.99, Embedding: []float32{1, 0, 0}},
		{ID: "b", DocID: "1", Content: "pricing b", Score: 0.98, Embedding: []float32{0.99, 0.01, 0}},
		{ID: "c", DocID: "2", Content: "onboarding", Score: 0.5, Embedding: []float32{0, 1, 0}},
	}

	out := Diversity(passages)

	if out[0].ID != "a" || out[1].ID != "c" || out[2].ID != "b" {
		t.Errorf("near-duplicates not spread out: %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestDiversityWithoutEmbeddingsKeepsOrder(t *testing.T) {
	passages := []docstore.Passage{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}
	out := Diversity(passages)
	for i, want := range []string{"a", "b", "c"} {
		if out[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, out[i].ID, want)
		}
	}
}

func TestLostInTheMiddleEdgePlacement(t *testing.T) {
	passages := []docstore.Passage{
		{ID: "1", Content: "one"},
		{ID: "2", Content: "two"},
		{ID: "3", Content: "three"},
		{ID: "4", Content: "four"},
		{ID: "5", Content: "five"},
	}

	out := LostInTheMiddle(passages, 0)

	want := []string{"1", "3", "5", "4", "2"}
	for i := range want {
		if out[i].ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, out[i].ID, want[i])
		}
	}
}

func TestLostInTheMiddleWordBudget(t *testing.T) {
	passages := []docstore.Passage{
		{ID: "1", Content: "one two three"},
		{ID: "2", Content: "four five six"},
		{ID: "3", Content: "seven eight nine"},
	}

	out := LostInTheMiddle(passages, 6)

	if len(out) != 2 {
		t.Fatalf("expected 2 passages within budget, got %d", len(out))
	}
	if out[0].ID != "1" {
		t.Errorf("top passage dropped: got %s first", out[0].ID)
	}
}

func TestLostInTheMiddleKeepsTopOverBudget(t *testing.T) {
	passages := []docstore.Passage{
		{ID: "1", Content: "a b c d e f g h"},
		{ID: "2", Content: "x"},
	}

	out := LostInTheMiddle(passages, 3)

	if len(out) != 1 || out[0].ID != "1" {
		t.Errorf("expected only the top passage, got %+v", out)
	}
}

func TestLostInTheMiddleEmpty(t *testing.T) {
	if out := LostInTheMiddle(nil, 10); len(out) != 0 {
		t.Errorf("expected empty output, got %d", len(out))
	}
}
