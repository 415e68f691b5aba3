// Package ingest turns raw document text into embedded passages.
//
// Information Hiding:
// - Paragraph splitting and overlap policy hidden
// - Embedding and store writes hidden behind AddDocument
package ingest

import (
	"strings"

	"github.com/qwizzhq/qwizz/docstore"
)

// Splits overlap by one paragraph so a statement cut at a boundary is
// still retrievable in one piece.
const (
	paragraphsPerSplit = 2
	paragraphOverlap   = 1
)

// Split breaks document text into overlapping passages with strictly
// increasing split ids.
func Split(docID, text string) []docstore.Passage {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	step := paragraphsPerSplit - paragraphOverlap
	var passages []docstore.Passage
	for start, split := 0, 0; start < len(paragraphs); start, split = start+step, split+1 {
		end := start + paragraphsPerSplit
		if end > len(paragraphs) {
			end = len(paragraphs)
		}

		passages = append(passages, docstore.Passage{
			DocID:   docID,
			SplitID: split,
			Content: strings.Join(paragraphs[start:end], "\n\n"),
			Meta: map[string]string{
				docstore.MetaDocID: docID,
			},
		})

		if end == len(paragraphs) {
			break
		}
	}
	return passages
}

// splitParagraphs splits on blank lines and drops empty paragraphs.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
