// Package index implements a flat L2 vector index with an on-disk store.
// The layout mirrors what dashboard search needs: one index per workbook,
// stored beside a metadata file that maps vector positions back to
// dashboards.
package index

import (
	"fmt"
	"sort"
)

// DimensionError is returned when a vector does not match the dimension
// fixed by the first vector added to an index.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension %d does not match index dimension %d", e.Got, e.Want)
}

// FlatIndex holds vectors in memory and searches them exhaustively by
// squared L2 distance. The dimension is fixed by the first vector added.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Dim reports the index dimension, 0 before any vector is added.
func (ix *FlatIndex) Dim() int { return ix.dim }

// Count reports the number of stored vectors.
func (ix *FlatIndex) Count() int { return len(ix.vectors) }

// Add appends a vector. The first Add fixes the dimension; later vectors
// with a different length fail with *DimensionError.
func (ix *FlatIndex) Add(vec []float32) error {
	if len(vec) == 0 {
		return &DimensionError{Want: ix.dim, Got: 0}
	}
	if ix.dim == 0 {
		ix.dim = len(vec)
	} else if len(vec) != ix.dim {
		return &DimensionError{Want: ix.dim, Got: len(vec)}
	}
	cp := make([]float32, len(vec))
	copy(cp, vec)
	ix.vectors = append(ix.vectors, cp)
	return nil
}

// Hit is one search result: the position of a stored vector and its
// squared L2 distance from the query.
type Hit struct {
	Position int
	Distance float32
}

// Search returns up to topK hits ordered by ascending distance. Ties keep
// insertion order.
func (ix *FlatIndex) Search(query []float32, topK int) ([]Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if ix.dim == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, &DimensionError{Want: ix.dim, Got: len(query)}
	}
	hits := make([]Hit, 0, len(ix.vectors))
	for i, vec := range ix.vectors {
		var d float32
		for j := range vec {
			diff := vec[j] - query[j]
			d += diff * diff
		}
		hits = append(hits, Hit{Position: i, Distance: d})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}
