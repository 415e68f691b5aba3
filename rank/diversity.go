// Package rank provides retrieval post-processing stages.
//
// These run between the vector query and prompt assembly: Diversity
// spreads out near-duplicate passages, LostInTheMiddle places the most
// relevant passages at the prompt edges where models attend best.
package rank

import "github.com/qwizzhq/qwizz/docstore"

// Diversity reorders passages greedily so that each next passage is the
// least similar to those already picked. The top-ranked passage always
// stays first. Passages without embeddings leave the order unchanged.
func Diversity(passages []docstore.Passage) []docstore.Passage {
	if len(passages) <= 2 {
		return passages
	}
	for _, p := range passages {
		if len(p.Embedding) == 0 {
			return passages
		}
	}

	picked := make([]docstore.Passage, 0, len(passages))
	remaining := make([]docstore.Passage, len(passages))
	copy(remaining, passages)

	// Seed with the top-ranked passage.
	picked = append(picked, remaining[0])
	remaining = remaining[1:]

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := meanSimilarity(remaining[0], picked)
		for i := 1; i < len(remaining); i++ {
			if s := meanSimilarity(remaining[i], picked); s < bestScore {
				bestIdx = i
				bestScore = s
			}
		}
		picked = append(picked, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return picked
}

// meanSimilarity is the average cosine similarity of p to the picked set.
func meanSimilarity(p docstore.Passage, picked []docstore.Passage) float64 {
	var sum float64
	for _, q := range picked {
		sum += docstore.CosineSimilarity(p.Embedding, q.Embedding)
	}
	return sum / float64(len(picked))
}
