package ingest

import (
	"context"
	"testing"

	"github.com/qwizzhq/qwizz/docstore"
)

func TestSplitOverlappingWindows(t *testing.T) {
	text := "para one\n\npara two\n\npara three\n\npara four"

	passages := Split("doc-1", text)
	if len(passages) != 3 {
		t.Fatalf("splits = %d, want 3", len(passages))
	}

	wants := []string{
		"para one\n\npara two",
		"para two\n\npara three",
		"para three\n\npara four",
	}
	for i, want := range wants {
		if passages[i].Content != want {
			t.Errorf("split %d = %q, want %q", i, passages[i].Content, want)
		}
		if passages[i].SplitID != i {
			t.Errorf("split %d has id %d", i, passages[i].SplitID)
		}
		if passages[i].DocID != "doc-1" {
			t.Errorf("split %d has doc id %q", i, passages[i].DocID)
		}
		if passages[i].Meta[docstore.MetaDocID] != "doc-1" {
			t.Errorf("split %d missing doc_id metadata", i)
		}
	}
}

func TestSplitSingleParagraph(t *testing.T) {
	passages := Split("doc-1", "only one paragraph")
	if len(passages) != 1 {
		t.Fatalf("splits = %d, want 1", len(passages))
	}
	if passages[0].Content != "only one paragraph" {
		t.Errorf("content = %q", passages[0].Content)
	}
}

func TestSplitSkipsBlankParagraphs(t *testing.T) {
	passages := Split("doc-1", "first\n\n\n\n   \n\nsecond")
	if len(passages) != 1 {
		t.Fatalf("splits = %d, want 1", len(passages))
	}
	if passages[0].Content != "first\n\nsecond" {
		t.Errorf("content = %q", passages[0].Content)
	}
}

func TestSplitEmptyDocument(t *testing.T) {
	if passages := Split("doc-1", "   \n\n  "); passages != nil {
		t.Errorf("expected nil for empty document, got %v", passages)
	}
}

type countingEmbedder struct {
	batches int
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.batches++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func TestAddDocumentEmbedsAndStores(t *testing.T) {
	store := docstore.NewMemStore()
	embedder := &countingEmbedder{}
	handler := NewHandler(embedder, store)

	n, err := handler.AddDocument(context.Background(), "doc-1", "alpha\n\nbeta\n\ngamma")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if n != 2 {
		t.Errorf("passages = %d, want 2", n)
	}
	if embedder.batches != 1 {
		t.Errorf("embedding batches = %d, want 1", embedder.batches)
	}

	stored, err := store.GetAll(context.Background(), docstore.Filter{DocIDs: []string{"doc-1"}})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored = %d", len(stored))
	}
	for _, p := range stored {
		if len(p.Embedding) == 0 {
			t.Error("stored passage missing embedding")
		}
	}
}

func TestAddDocumentRejectsEmptyText(t *testing.T) {
	handler := NewHandler(&countingEmbedder{}, docstore.NewMemStore())
	if _, err := handler.AddDocument(context.Background(), "doc-1", "  "); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestDeleteDocument(t *testing.T) {
	store := docstore.NewMemStore()
	handler := NewHandler(&countingEmbedder{}, store)

	if _, err := handler.AddDocument(context.Background(), "doc-1", "alpha\n\nbeta"); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if err := handler.DeleteDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("passages remain after delete: %d", store.Len())
	}
}
