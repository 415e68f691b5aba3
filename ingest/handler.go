package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qwizzhq/qwizz/docstore"
)

// Handler ingests documents into the passage store.
type Handler struct {
	embedder docstore.Embedder
	store    docstore.Store
	logger   *slog.Logger
}

// NewHandler creates an ingestion handler.
func NewHandler(embedder docstore.Embedder, store docstore.Store) *Handler {
	return &Handler{
		embedder: embedder,
		store:    store,
		logger:   slog.Default().With("component", "ingest"),
	}
}

// AddDocument splits, embeds and stores one document's text.
func (h *Handler) AddDocument(ctx context.Context, docID, text string) (int, error) {
	passages := Split(docID, text)
	if len(passages) == 0 {
		return 0, fmt.Errorf("document %q contains no text", docID)
	}

	contents := make([]string, len(passages))
	for i, p := range passages {
		contents[i] = p.Content
	}

	embeddings, err := h.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("embedding document %q: %w", docID, err)
	}
	if len(embeddings) != len(passages) {
		return 0, fmt.Errorf("embedding count mismatch for document %q: %d passages, %d embeddings", docID, len(passages), len(embeddings))
	}
	for i := range passages {
		passages[i].Embedding = embeddings[i]
	}

	if err := h.store.WriteDocuments(ctx, passages); err != nil {
		return 0, fmt.Errorf("storing document %q: %w", docID, err)
	}

	h.logger.Info("document ingested", "doc_id", docID, "passages", len(passages))
	return len(passages), nil
}

// DeleteDocument removes all of a document's passages.
func (h *Handler) DeleteDocument(ctx context.Context, docID string) error {
	err := h.store.DeleteDocuments(ctx, docstore.Filter{DocIDs: []string{docID}})
	if err != nil {
		return fmt.Errorf("deleting document %q: %w", docID, err)
	}
	h.logger.Info("document deleted", "doc_id", docID)
	return nil
}
