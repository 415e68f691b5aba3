package rank

import (
	"strings"

	"github.com/qwizzhq/qwizz/docstore"
)

// LostInTheMiddle reorders ranked passages so the most relevant sit at
// the beginning and end of the sequence and the least relevant in the
// middle. When wordBudget > 0 the tail of the ranking is dropped once
// the cumulative word count exceeds the budget; the top-ranked passage
// is always kept even when it alone exceeds the budget.
func LostInTheMiddle(passages []docstore.Passage, wordBudget int) []docstore.Passage {
	if len(passages) == 0 {
		return passages
	}

	kept := passages
	if wordBudget > 0 {
		kept = kept[:0:0]
		words := 0
		for i, p := range passages {
			words += len(strings.Fields(p.Content))
			if i > 0 && words > wordBudget {
				break
			}
			kept = append(kept, p)
		}
	}

	if len(kept) <= 2 {
		return kept
	}

	// Alternate ranked passages onto the left and right edges.
	var left, right []docstore.Passage
	for i, p := range kept {
		if i%2 == 0 {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}

	out := make([]docstore.Passage, 0, len(kept))
	out = append(out, left...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return out
}
