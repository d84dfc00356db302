package summarizer

import (
	"context"
	"fmt"
	"strings"

	"resumescout/internal/ai"
	"resumescout/internal/pkg/chunker"
)

// Summarizer condenses a document into a short synopsis, optionally
// steered by the originating query.
type Summarizer interface {
	Summarize(ctx context.Context, text, query string) (string, error)
}

// Options bound the summary generation. Texts at or below
// WordThreshold words skip the backend and are returned truncated to
// TruncateChars; longer texts are split into ChunkSize-token chunks
// and each chunk is summarised to MinWords..MaxWords.
type Options struct {
	WordThreshold int
	ChunkSize     int
	MinWords      int
	MaxWords      int
	TruncateChars int
}

func (o *Options) applyDefaults() {
	if o.WordThreshold <= 0 {
		o.WordThreshold = 50
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 500
	}
	if o.MinWords <= 0 {
		o.MinWords = 50
	}
	if o.MaxWords <= 0 {
		o.MaxWords = 150
	}
	if o.TruncateChars <= 0 {
		o.TruncateChars = 500
	}
}

// LLM generates summaries through an OpenAI-compatible chat backend.
type LLM struct {
	client *ai.Client
	opts   Options
}

func NewLLM(client *ai.Client, opts Options) *LLM {
	opts.applyDefaults()
	return &LLM{client: client, opts: opts}
}

func (s *LLM) Summarize(ctx context.Context, text, query string) (string, error) {
	text = strings.TrimSpace(text)
	if chunker.WordCount(text) <= s.opts.WordThreshold {
		return truncate(text, s.opts.TruncateChars), nil
	}

	chunks := chunker.Split(text, s.opts.ChunkSize)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := s.summarizeChunk(ctx, chunk, query)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimSpace(part))
	}
	return strings.Join(parts, " "), nil
}

func (s *LLM) summarizeChunk(ctx context.Context, chunk, query string) (string, error) {
	system := fmt.Sprintf(
		"You are a recruiter. Provide a concise summary (between %d and %d words).",
		s.opts.MinWords, s.opts.MaxWords,
	)
	user := "Summarize this resume"
	if q := strings.TrimSpace(query); q != "" {
		user += " based on: " + q
	}
	user += "\n" + chunk

	messages := []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	out, err := s.client.Complete(ctx, messages, s.opts.MaxWords*2)
	if err != nil {
		return "", fmt.Errorf("summarize chunk failed: %w", err)
	}
	return out, nil
}

func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
