package docstore

import "context"

// Store is the vector document store contract used by retrieval tools
// and the exploration pipeline.
type Store interface {
	// QueryByEmbedding returns the topK passages ranked by similarity
	// to the query vector, restricted by the filter.
	QueryByEmbedding(ctx context.Context, embedding []float32, filter Filter, topK int) ([]Passage, error)

	// GetAll returns every passage matching the filter,
	// ordered by document id then split id.
	GetAll(ctx context.Context, filter Filter) ([]Passage, error)

	// WriteDocuments stores the passages, replacing any with the same id.
	WriteDocuments(ctx context.Context, passages []Passage) error

	// DeleteDocuments removes every passage matching the filter.
	DeleteDocuments(ctx context.Context, filter Filter) error
}

// Embedder turns text into a vector in the store's embedding space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
