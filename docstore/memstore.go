// In-memory implementation of Store.
//
// Exact cosine scan over all stored passages. Used for tests and for
// local runs without a Postgres instance.

package docstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemStore implements Store with an in-memory passage map.
type MemStore struct {
	mu       sync.RWMutex
	passages map[string]Passage
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{passages: make(map[string]Passage)}
}

// QueryByEmbedding ranks matching passages by cosine similarity.
func (s *MemStore) QueryByEmbedding(_ context.Context, embedding []float32, filter Filter, topK int) ([]Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []Passage
	for _, p := range s.passages {
		if !filter.Matches(p) || len(p.Embedding) == 0 {
			continue
		}
		p.Score = CosineSimilarity(embedding, p.Embedding)
		scored = append(scored, p)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

// GetAll returns matching passages ordered by doc then split id.
func (s *MemStore) GetAll(_ context.Context, filter Filter) ([]Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Passage
	for _, p := range s.passages {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DocID != result[j].DocID {
			return result[i].DocID < result[j].DocID
		}
		return result[i].SplitID < result[j].SplitID
	})
	return result, nil
}

// WriteDocuments stores passages, replacing any with the same id.
func (s *MemStore) WriteDocuments(_ context.Context, passages []Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range passages {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.passages[p.ID] = p
	}
	return nil
}

// DeleteDocuments removes passages matching the filter.
// An empty filter deletes nothing (guard against wiping the store).
func (s *MemStore) DeleteDocuments(_ context.Context, filter Filter) error {
	if len(filter.DocIDs) == 0 {
		return fmt.Errorf("refusing to delete with empty filter")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.passages {
		if filter.Matches(p) {
			delete(s.passages, id)
		}
	}
	return nil
}

// Len returns the number of stored passages.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Verify MemStore implements Store
var _ Store = (*MemStore)(nil)
