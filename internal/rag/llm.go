package rag

import "context"

// Embedder turns a single text into its embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator returns the completion text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex is the remote (or local) similarity index.
// Upsert overwrites entries with the same id.
type VectorIndex interface {
	Upsert(ctx context.Context, entries []IndexEntry) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Close() error
}
