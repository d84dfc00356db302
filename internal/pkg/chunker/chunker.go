package chunker

import "strings"

// Split cuts text into contiguous chunks of at most maxTokens
// whitespace-delimited words. Chunks do not overlap, so joining them
// back together preserves the original token sequence. Empty or
// whitespace-only text yields no chunks.
func Split(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = 500
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+maxTokens-1)/maxTokens)
	for i := 0; i < len(words); i += maxTokens {
		end := i + maxTokens
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// WordCount reports the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
