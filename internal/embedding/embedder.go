// Package embedding defines the narrow vectorization collaborator used by
// the index builder and the search engine.
package embedding

import "context"

// Embedder converts text into a fixed-length float vector. A given
// deployment must return vectors of constant dimension; the index builder
// fails the whole build on drift.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
