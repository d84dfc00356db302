package search

import "sort"

// Candidate carries both relevance signals for one document, keyed by
// identity rather than by position in any parallel structure.
type Candidate struct {
	Filename string
	Distance float64 // raw squared Euclidean distance from the index
	Keyword  float64 // keyword coverage, 0..100
}

// Ranked is the fused ranking entry for one document.
type Ranked struct {
	Filename   string
	Score      float64 // fused, 0..100
	Similarity float64 // distance-derived, 0..100
	Keyword    float64
}

const (
	similarityWeight = 0.7
	keywordWeight    = 0.3
)

// Fuse blends the vector and lexical signals into one ordering.
// Distances normalise to a 0..100 similarity relative to the worst
// distance in the set (all-zero distances count as full similarity).
// A filename appears at most once: the first occurrence wins. Only
// documents strictly above minScore survive; survivors are sorted
// descending by score with discovery order breaking ties.
func Fuse(candidates []Candidate, minScore float64) []Ranked {
	if len(candidates) == 0 {
		return nil
	}

	var maxDistance float64
	seen := make(map[string]struct{}, len(candidates))
	deduped := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Filename]; dup {
			continue
		}
		seen[c.Filename] = struct{}{}
		deduped = append(deduped, c)
		if c.Distance > maxDistance {
			maxDistance = c.Distance
		}
	}

	ranked := make([]Ranked, 0, len(deduped))
	for _, c := range deduped {
		similarity := 100.0
		if maxDistance > 0 {
			similarity = 100 - c.Distance/maxDistance*100
		}
		score := round2(similarityWeight*similarity + keywordWeight*c.Keyword)
		if score <= minScore {
			continue
		}
		ranked = append(ranked, Ranked{
			Filename:   c.Filename,
			Score:      score,
			Similarity: round2(similarity),
			Keyword:    c.Keyword,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
