package index

import (
	"errors"
	"fmt"
	"sort"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Entry pairs a document identity with its embedding vector.
type Entry struct {
	ID     string
	Vector []float64
}

// Hit is a search match with its raw squared Euclidean distance.
type Hit struct {
	ID       string
	Distance float64
}

// Flat is a brute-force vector index over a single fixed dimension.
// It is read-only after Build; searches may run repeatedly and
// independently. A Flat built from zero entries is an empty index
// whose searches return no hits.
type Flat struct {
	dim     int
	entries []Entry
}

// Build constructs a flat index over the given entries. All vectors
// must share one dimension.
func Build(entries []Entry) (*Flat, error) {
	if len(entries) == 0 {
		return &Flat{}, nil
	}
	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: entry %q has an empty vector", ErrDimensionMismatch, entries[0].ID)
	}
	for _, e := range entries[1:] {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("%w: entry %q has dimension %d, want %d",
				ErrDimensionMismatch, e.ID, len(e.Vector), dim)
		}
	}
	idx := &Flat{
		dim:     dim,
		entries: make([]Entry, len(entries)),
	}
	copy(idx.entries, entries)
	return idx, nil
}

// Len reports the number of indexed entries.
func (f *Flat) Len() int { return len(f.entries) }

// Dimension reports the vector dimension, zero for an empty index.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the k nearest entries to query by squared Euclidean
// distance, ascending. Fewer than k hits are returned when fewer
// entries exist; an empty index yields an empty slice.
func (f *Flat) Search(query []float64, k int) ([]Hit, error) {
	if len(f.entries) == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			ErrDimensionMismatch, len(query), f.dim)
	}
	hits := make([]Hit, len(f.entries))
	for i, e := range f.entries {
		hits[i] = Hit{ID: e.ID, Distance: squaredDistance(query, e.Vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
