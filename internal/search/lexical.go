package search

import (
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// KeywordCoverage scores how much of the query's vocabulary appears in
// the document text: |query ∩ document| / |query| × 100, rounded to two
// decimals. A query with no tokens scores zero. The score is
// per-document and independent of the rest of the corpus.
func KeywordCoverage(query, text string) float64 {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return 0
	}
	docTokens := tokenSet(text)
	matched := 0
	for tok := range queryTokens {
		if _, ok := docTokens[tok]; ok {
			matched++
		}
	}
	return round2(float64(matched) / float64(len(queryTokens)) * 100)
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
