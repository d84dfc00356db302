package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"resumescout/internal/cache"
	"resumescout/internal/pkg/pdfextract"
)

type fakeSource struct {
	names     []string
	err       error
	listCalls atomic.Int32
}

func (s *fakeSource) List() ([]string, error) {
	s.listCalls.Add(1)
	return s.names, s.err
}

func (s *fakeSource) Path(name string) string { return name }

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
	calls atomic.Int32
}

func (e *fakeExtractor) Extract(path string) (string, error) {
	e.calls.Add(1)
	if err, ok := e.errs[path]; ok {
		return "", err
	}
	text, ok := e.texts[path]
	if !ok {
		return "", fmt.Errorf("open pdf failed: %s", path)
	}
	return text, nil
}

// fakeEmbedder maps text onto counts of a tiny fixed vocabulary, so
// embeddings are deterministic and semantically plausible.
type fakeEmbedder struct{}

var fakeVocab = []string{"python", "developer", "backend", "designer", "photoshop", "systems"}

func (fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, len(fakeVocab))
		for _, word := range strings.Fields(strings.ToLower(text)) {
			for j, term := range fakeVocab {
				if word == term {
					vec[j]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float64, error) {
	return nil, errors.New("embedding backend down")
}

type fakeSummarizer struct {
	err   error
	calls atomic.Int32
}

func (s *fakeSummarizer) Summarize(_ context.Context, text, query string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return "summary for " + query, nil
}

const (
	devResume      = "Python developer with 5 years experience in backend systems"
	designerResume = "Graphic designer skilled in Adobe Photoshop"
)

func newTestEngine(src *fakeSource, ext *fakeExtractor, opts Options) (*Engine, *fakeSummarizer) {
	summ := &fakeSummarizer{}
	return NewEngine(src, ext, fakeEmbedder{}, summ, opts, nil, nil), summ
}

func TestSearchEmptyQueryRejectedBeforeCorpusWork(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{"a.pdf": devResume}}
	engine, _ := newTestEngine(src, ext, Options{})

	for _, query := range []string{"", "   \t"} {
		if _, err := engine.Search(context.Background(), query); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("Search(%q) err = %v, want ErrEmptyQuery", query, err)
		}
	}
	if n := src.listCalls.Load(); n != 0 {
		t.Errorf("corpus listed %d times before validation, want 0", n)
	}
	if n := ext.calls.Load(); n != 0 {
		t.Errorf("extractor ran %d times for empty query, want 0", n)
	}
}

func TestSearchCorpusErrorPropagates(t *testing.T) {
	boom := errors.New("corpus directory unavailable: /missing")
	engine, _ := newTestEngine(&fakeSource{err: boom}, &fakeExtractor{}, Options{})

	if _, err := engine.Search(context.Background(), "query"); !errors.Is(err, boom) {
		t.Fatalf("Search err = %v, want corpus error", err)
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	engine, _ := newTestEngine(&fakeSource{}, &fakeExtractor{}, Options{})

	results, err := engine.Search(context.Background(), "backend developer")
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results from empty corpus, want 0", len(results))
	}
}

func TestSearchRanksRelevantDocumentFirst(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf", "b.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{
		"a.pdf": devResume,
		"b.pdf": designerResume,
	}}
	engine, _ := newTestEngine(src, ext, Options{MinScore: -1})

	results, err := engine.Search(context.Background(), "backend python developer")
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(results) == 0 || results[0].Filename != "a.pdf" {
		t.Fatalf("results = %+v, want a.pdf first", results)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}
	if results[0].Preview == "" || !strings.HasPrefix(devResume, results[0].Preview) {
		t.Errorf("preview = %q, want prefix of document text", results[0].Preview)
	}
}

func TestSearchThresholdExcludesWeakMatches(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf", "b.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{
		"a.pdf": devResume,
		"b.pdf": designerResume,
	}}
	engine, _ := newTestEngine(src, ext, Options{MinScore: 10})

	results, err := engine.Search(context.Background(), "backend python developer")
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	for _, r := range results {
		if r.Filename == "b.pdf" {
			t.Errorf("b.pdf scored %v, expected exclusion below threshold", r.Score)
		}
	}
	if len(results) != 1 || results[0].Filename != "a.pdf" {
		t.Fatalf("results = %+v, want only a.pdf", results)
	}
}

func TestSearchSkipsOversizedAndCorruptDocuments(t *testing.T) {
	src := &fakeSource{names: []string{"big.pdf", "broken.pdf", "good.pdf"}}
	ext := &fakeExtractor{
		texts: map[string]string{"good.pdf": devResume},
		errs: map[string]error{
			"big.pdf":    fmt.Errorf("%w: 4 pages (max 3)", pdfextract.ErrTooManyPages),
			"broken.pdf": errors.New("open pdf failed: malformed xref"),
		},
	}
	engine, _ := newTestEngine(src, ext, Options{MinScore: -1})

	results, err := engine.Search(context.Background(), "python developer")
	if err != nil {
		t.Fatalf("Search err = %v, skips must not abort the batch", err)
	}
	if len(results) != 1 || results[0].Filename != "good.pdf" {
		t.Fatalf("results = %+v, want only good.pdf", results)
	}
}

func TestSearchSummarizerFailureFallsBack(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{"a.pdf": devResume}}
	summ := &fakeSummarizer{err: errors.New("quota exceeded")}
	engine := NewEngine(src, ext, fakeEmbedder{}, summ, Options{MinScore: -1}, nil, nil)

	results, err := engine.Search(context.Background(), "python developer")
	if err != nil {
		t.Fatalf("Search err = %v, summarizer failure must not fail the request", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Summary != summaryFallback {
		t.Errorf("summary = %q, want fallback", results[0].Summary)
	}
}

func TestSearchEmbedderFailureExcludesDocuments(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{"a.pdf": devResume}}
	engine := NewEngine(src, ext, failingEmbedder{}, &fakeSummarizer{}, Options{}, nil, nil)

	// Per-document embedding failures exclude documents; with every
	// document excluded the index is empty and the search is empty.
	results, err := engine.Search(context.Background(), "python")
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results with failing embedder, want 0", len(results))
	}
}

func TestSearchExtractionCached(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf", "b.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{
		"a.pdf": devResume,
		"b.pdf": designerResume,
	}}
	memo := cache.NewMemo(cache.NewLRU(16))
	engine := NewEngine(src, ext, fakeEmbedder{}, &fakeSummarizer{}, Options{MinScore: -1}, memo, nil)

	if _, err := engine.Search(context.Background(), "developer"); err != nil {
		t.Fatalf("first Search err = %v", err)
	}
	first := ext.calls.Load()
	if _, err := engine.Search(context.Background(), "designer"); err != nil {
		t.Fatalf("second Search err = %v", err)
	}
	if got := ext.calls.Load(); got != first {
		t.Errorf("extractor ran %d times after second search, want %d (cached)", got, first)
	}
}

func TestSearchSummaryCached(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{"a.pdf": devResume}}
	summ := &fakeSummarizer{}
	memo := cache.NewMemo(cache.NewLRU(16))
	engine := NewEngine(src, ext, fakeEmbedder{}, summ, Options{MinScore: -1}, nil, memo)

	for i := 0; i < 2; i++ {
		if _, err := engine.Search(context.Background(), "python developer"); err != nil {
			t.Fatalf("Search %d err = %v", i, err)
		}
	}
	if n := summ.calls.Load(); n != 1 {
		t.Errorf("summarizer ran %d times for repeated (text, query), want 1", n)
	}
}

func TestSearchTFIDFMode(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf", "b.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{
		"a.pdf": devResume,
		"b.pdf": designerResume,
	}}
	summ := &fakeSummarizer{}
	engine := NewEngine(src, ext, nil, summ, Options{Mode: ModeTFIDF, MinScore: 10}, nil, nil)

	results, err := engine.Search(context.Background(), "backend python developer")
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(results) == 0 || results[0].Filename != "a.pdf" {
		t.Fatalf("results = %+v, want a.pdf first", results)
	}
	for _, r := range results {
		if r.Filename == "b.pdf" {
			t.Errorf("b.pdf included in tfidf mode, want excluded below threshold")
		}
	}
	if results[0].Similarity != nil || results[0].KeywordScore != nil {
		t.Errorf("tfidf mode carries sub-scores %v/%v, want omitted", results[0].Similarity, results[0].KeywordScore)
	}
}

func TestSearchTFIDFThresholdBoundary(t *testing.T) {
	const text = "golang developer"
	newTFIDFEngine := func(minScore float64) *Engine {
		src := &fakeSource{names: []string{"a.pdf"}}
		ext := &fakeExtractor{texts: map[string]string{"a.pdf": text}}
		return NewEngine(src, ext, nil, &fakeSummarizer{}, Options{Mode: ModeTFIDF, MinScore: minScore}, nil, nil)
	}

	// A document identical to the query scores exactly 100; equality
	// with the threshold drops it.
	results, err := newTFIDFEngine(100).Search(context.Background(), text)
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("score at threshold included %+v, want excluded", results)
	}

	results, err = newTFIDFEngine(99.99).Search(context.Background(), text)
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(results) != 1 || results[0].Score != 100 {
		t.Fatalf("score above threshold results = %+v, want one hit at 100", results)
	}
}

func TestSearchHybridZeroSubScoresKeptInPayload(t *testing.T) {
	src := &fakeSource{names: []string{"a.pdf", "b.pdf"}}
	ext := &fakeExtractor{texts: map[string]string{
		"a.pdf": devResume,
		"b.pdf": designerResume,
	}}
	engine, _ := newTestEngine(src, ext, Options{MinScore: -1})

	results, err := engine.Search(context.Background(), "python developer")
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}

	// b.pdf is the worst-distance document: similarity normalizes to 0
	// and no query term appears in it, but both sub-scores must still
	// reach the payload explicitly.
	var worst *Result
	for i := range results {
		if results[i].Filename == "b.pdf" {
			worst = &results[i]
		}
	}
	if worst == nil {
		t.Fatalf("b.pdf missing from results %+v", results)
	}
	if worst.Similarity == nil || *worst.Similarity != 0 {
		t.Fatalf("worst-distance similarity = %v, want explicit 0", worst.Similarity)
	}
	if worst.KeywordScore == nil || *worst.KeywordScore != 0 {
		t.Fatalf("worst-distance keyword score = %v, want explicit 0", worst.KeywordScore)
	}

	payload, err := json.Marshal(worst)
	if err != nil {
		t.Fatalf("marshal result err = %v", err)
	}
	for _, field := range []string{`"similarity":0`, `"keyword_score":0`} {
		if !strings.Contains(string(payload), field) {
			t.Errorf("payload %s omits %s", payload, field)
		}
	}
}

func TestMeanPool(t *testing.T) {
	got := meanPool([][]float64{{1, 2}, {3, 4}})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("meanPool = %v, want [2 3]", got)
	}
	if meanPool(nil) != nil {
		t.Error("meanPool(nil) should be nil")
	}
	if meanPool([][]float64{{1, 2}, {1}}) != nil {
		t.Error("meanPool with ragged input should be nil")
	}
}
