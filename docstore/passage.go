// Package docstore provides the passage model and vector document stores.
//
// Information Hiding:
// - Vector storage and similarity search behind the Store interface
// - Embedding provider behind the Embedder interface
// - Metadata filter translation hidden in implementations
package docstore

import (
	"sort"
	"strconv"
)

// Metadata keys set by ingestion on every passage.
const (
	MetaDocID   = "doc_id"
	MetaSplitID = "split_id"
)

// Passage is the unit of retrieval: an ordered chunk of a source document.
// SplitID defines a total order within a document; merges must preserve it.
type Passage struct {
	ID        string
	DocID     string
	SplitID   int
	Content   string
	Score     float64
	Meta      map[string]string
	Embedding []float32
}

// MetaValue returns the metadata value for key, falling back to the
// structured fields for the well-known keys.
func (p Passage) MetaValue(key string) (string, bool) {
	if v, ok := p.Meta[key]; ok {
		return v, true
	}
	switch key {
	case MetaDocID:
		if p.DocID != "" {
			return p.DocID, true
		}
	case MetaSplitID:
		return strconv.Itoa(p.SplitID), true
	}
	return "", false
}

// SortBySplitID orders passages by their within-document split index,
// in place. Stable so equal split ids keep their relative order.
func SortBySplitID(passages []Passage) {
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].SplitID < passages[j].SplitID
	})
}

// Filter restricts store operations to a set of documents.
// An empty DocIDs list means "no restriction".
type Filter struct {
	DocIDs []string
}

// Matches reports whether the passage passes the filter.
func (f Filter) Matches(p Passage) bool {
	if len(f.DocIDs) == 0 {
		return true
	}
	for _, id := range f.DocIDs {
		if p.DocID == id {
			return true
		}
	}
	return false
}
