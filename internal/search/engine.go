package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"resumescout/internal/cache"
	"resumescout/internal/index"
	"resumescout/internal/pkg/chunker"
	"resumescout/internal/pkg/pdfextract"
	"resumescout/internal/summarizer"
)

const (
	ModeHybrid = "hybrid"
	ModeTFIDF  = "tfidf"

	previewChars    = 200
	summaryFallback = "Summary unavailable due to processing error."
)

// ErrEmptyQuery marks a request rejected before any corpus work.
var ErrEmptyQuery = errors.New("query is required")

// Source yields the document identities of one corpus and maps them to
// filesystem paths.
type Source interface {
	List() ([]string, error)
	Path(name string) string
}

// Extractor turns a document path into its full text. A wrapped
// pdfextract.ErrTooManyPages means the document is skipped, any other
// error means it yielded no text; neither aborts the batch.
type Extractor interface {
	Extract(path string) (string, error)
}

// Embedder maps a batch of texts to fixed-dimension vectors,
// deterministically within a process run.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Result is one ranked hit. Similarity and KeywordScore are the raw
// sub-signals behind Score; hybrid mode always carries them, even at
// zero, and tfidf mode omits them.
type Result struct {
	Filename     string   `json:"filename"`
	Score        float64  `json:"score"`
	Summary      string   `json:"summary"`
	Preview      string   `json:"preview"`
	Similarity   *float64 `json:"similarity,omitempty"`
	KeywordScore *float64 `json:"keyword_score,omitempty"`
}

type Options struct {
	Mode      string
	Workers   int
	ChunkSize int
	MinScore  float64
}

// Engine is the ingestion and retrieval core. It is built once at
// startup with its long-lived collaborators and rebuilds its vector
// index from the corpus on every Search call; nothing survives a
// request except the injected caches.
type Engine struct {
	opts        Options
	source      Source
	extractor   Extractor
	embedder    Embedder
	summarizer  summarizer.Summarizer
	extractMemo *cache.Memo
	summaryMemo *cache.Memo
}

func NewEngine(
	source Source,
	extractor Extractor,
	embedder Embedder,
	summ summarizer.Summarizer,
	opts Options,
	extractMemo, summaryMemo *cache.Memo,
) *Engine {
	if opts.Mode == "" {
		opts.Mode = ModeHybrid
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	return &Engine{
		opts:        opts,
		source:      source,
		extractor:   extractor,
		embedder:    embedder,
		summarizer:  summ,
		extractMemo: extractMemo,
		summaryMemo: summaryMemo,
	}
}

type document struct {
	name string
	text string
}

// Search ranks the corpus against query and returns results in
// descending score order, one per document.
func (e *Engine) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	names, err := e.source.List()
	if err != nil {
		return nil, err
	}

	docs := e.extractAll(ctx, names)
	if len(docs) == 0 {
		return []Result{}, nil
	}

	var ranked []Ranked
	switch e.opts.Mode {
	case ModeTFIDF:
		ranked = e.rankTFIDF(docs, query)
	default:
		ranked, err = e.rankHybrid(ctx, docs, query)
		if err != nil {
			return nil, err
		}
	}

	textByName := make(map[string]string, len(docs))
	for _, d := range docs {
		textByName[d.name] = d.text
	}

	results := make([]Result, 0, len(ranked))
	for _, r := range ranked {
		text := textByName[r.Filename]
		res := Result{
			Filename: r.Filename,
			Score:    r.Score,
			Summary:  e.summarize(ctx, text, query),
			Preview:  preview(text),
		}
		if e.opts.Mode != ModeTFIDF {
			similarity, keyword := r.Similarity, r.Keyword
			res.Similarity = &similarity
			res.KeywordScore = &keyword
		}
		results = append(results, res)
	}
	return results, nil
}

type extractRecord struct {
	Text    string `json:"text"`
	Skipped bool   `json:"skipped"`
}

// extractAll runs extraction across a bounded worker pool. Workers
// complete in any order; slots are keyed by listing position so the
// returned documents keep the corpus discovery order.
func (e *Engine) extractAll(ctx context.Context, names []string) []document {
	texts := make([]string, len(names))
	extracted := make([]bool, len(names))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			rec, err := e.extractOne(ctx, name)
			if err != nil {
				log.Printf("extract %s failed: %v", name, err)
				return nil
			}
			if rec.Skipped {
				log.Printf("skipping %s: exceeds page limit", name)
				return nil
			}
			if strings.TrimSpace(rec.Text) == "" {
				return nil
			}
			mu.Lock()
			texts[i] = rec.Text
			extracted[i] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	docs := make([]document, 0, len(names))
	for i, name := range names {
		if extracted[i] {
			docs = append(docs, document{name: name, text: texts[i]})
		}
	}
	return docs
}

func (e *Engine) extractOne(ctx context.Context, name string) (extractRecord, error) {
	path := e.source.Path(name)
	compute := func() ([]byte, error) {
		text, err := e.extractor.Extract(path)
		if errors.Is(err, pdfextract.ErrTooManyPages) {
			// The reject is cached: page count only changes with the file.
			return json.Marshal(extractRecord{Skipped: true})
		}
		if err != nil {
			return nil, err
		}
		return json.Marshal(extractRecord{Text: text})
	}

	var raw []byte
	var err error
	if e.extractMemo != nil {
		raw, err = e.extractMemo.Do(ctx, cache.Key("extract", path), compute)
	} else {
		raw, err = compute()
	}
	if err != nil {
		return extractRecord{}, err
	}
	var rec extractRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return extractRecord{}, fmt.Errorf("decode cached extraction failed: %w", err)
	}
	return rec, nil
}

// rankHybrid builds the per-request vector index from mean-pooled
// chunk embeddings and fuses distances with keyword coverage.
func (e *Engine) rankHybrid(ctx context.Context, docs []document, query string) ([]Ranked, error) {
	entries := make([]index.Entry, 0, len(docs))
	textByName := make(map[string]string, len(docs))
	for _, d := range docs {
		chunks := chunker.Split(d.text, e.opts.ChunkSize)
		if len(chunks) == 0 {
			continue
		}
		vectors, err := e.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			log.Printf("embed %s failed, excluding from index: %v", d.name, err)
			continue
		}
		pooled := meanPool(vectors)
		if len(pooled) == 0 {
			continue
		}
		entries = append(entries, index.Entry{ID: d.name, Vector: pooled})
		textByName[d.name] = d.text
	}

	idx, err := index.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("build index failed: %w", err)
	}
	if idx.Len() == 0 {
		return nil, nil
	}

	queryVectors, err := e.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}
	hits, err := idx.Search(queryVectors[0], idx.Len())
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, Candidate{
			Filename: h.ID,
			Distance: h.Distance,
			Keyword:  KeywordCoverage(query, textByName[h.ID]),
		})
	}
	return Fuse(candidates, e.opts.MinScore), nil
}

// rankTFIDF scores the corpus with a request-local TF-IDF model; the
// score is the cosine similarity as a percentage, no fusion.
func (e *Engine) rankTFIDF(docs []document, query string) []Ranked {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.text
	}
	vectorizer := NewVectorizer()
	if err := vectorizer.Fit(texts); err != nil {
		log.Printf("tf-idf fit failed: %v", err)
		return nil
	}
	queryVec := vectorizer.Transform(query)

	ranked := make([]Ranked, 0, len(docs))
	for _, d := range docs {
		score := round2(Cosine(queryVec, vectorizer.Transform(d.text)) * 100)
		if score > e.opts.MinScore {
			ranked = append(ranked, Ranked{Filename: d.name, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (e *Engine) summarize(ctx context.Context, text, query string) string {
	compute := func() ([]byte, error) {
		s, err := e.summarizer.Summarize(ctx, text, query)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	var raw []byte
	var err error
	if e.summaryMemo != nil {
		// Failures are never stored; backend health may change.
		raw, err = e.summaryMemo.Do(ctx, cache.Key("summary", text, query), compute)
	} else {
		raw, err = compute()
	}
	if err != nil {
		log.Printf("summarize failed: %v", err)
		return summaryFallback
	}
	return string(raw)
}

// meanPool reduces chunk vectors to one document vector by
// component-wise arithmetic mean. Zero chunks have no defined pooling;
// callers must exclude such documents.
func meanPool(vectors [][]float64) []float64 {
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil
	}
	dim := len(vectors[0])
	pooled := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil
		}
		for i, x := range v {
			pooled[i] += x
		}
	}
	for i := range pooled {
		pooled[i] /= float64(len(vectors))
	}
	return pooled
}

func preview(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= previewChars {
		return string(runes)
	}
	return string(runes[:previewChars])
}
