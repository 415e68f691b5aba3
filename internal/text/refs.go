// Package text provides small text utilities for generated answers.
package text

import (
	"fmt"
	"regexp"
)

// Matches the reference phrasings models produce when citing a source
// document: "doc_id: 123", "document 123", "Document ID 123".
var docRefPattern = regexp.MustCompile(`(?i)(?:doc_id\s*:?\s*|document\s+id\s*:?\s*|document\s+)(\d+)`)

// ExtractReferencedDocuments rewrites document references in generated text
// to sequential bracketed indexes and returns the rewritten text together
// with the de-duplicated list of referenced ids in first-seen order.
// Two phrasings citing the same id map to the same index.
func ExtractReferencedDocuments(answer string) (string, []string) {
	indexByID := make(map[string]int)
	var ids []string

	rewritten := docRefPattern.ReplaceAllStringFunc(answer, func(match string) string {
		id := docRefPattern.FindStringSubmatch(match)[1]
		idx, seen := indexByID[id]
		if !seen {
			idx = len(ids) + 1
			indexByID[id] = idx
			ids = append(ids, id)
		}
		return fmt.Sprintf("[%d]", idx)
	})

	return rewritten, ids
}
