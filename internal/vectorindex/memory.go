package vectorindex

import (
	"context"
	"fmt"
	"sync"

	"github.com/josinaldojr/gemini-rag/internal/rag"
)

// MemoryIndex is an in-memory index using brute-force cosine search.
// Suitable for tests and local runs without a vector service.
type MemoryIndex struct {
	mu         sync.RWMutex
	dimensions int
	entries    map[string]rag.IndexEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]rag.IndexEntry)}
}

// Upsert stores entries by id, replacing existing ones. The first vector
// fixes the dimension of the index.
func (m *MemoryIndex) Upsert(ctx context.Context, entries []rag.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("entry id is required")
		}
		if len(e.Vector) == 0 {
			return rag.ErrEmptyEmbedding
		}
		if m.dimensions == 0 {
			m.dimensions = len(e.Vector)
		}
		if len(e.Vector) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(e.Vector), m.dimensions)
		}
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		m.entries[e.ID] = rag.IndexEntry{ID: e.ID, Vector: vec, Metadata: copyMetadata(e.Metadata)}
	}
	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.Match, error) {
	if len(vector) == 0 {
		return nil, rag.ErrEmptyEmbedding
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if k <= 0 || len(m.entries) == 0 {
		return []rag.Match{}, nil
	}
	if len(vector) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vector), m.dimensions)
	}

	matches := make([]rag.Match, 0, len(m.entries))
	for id, e := range m.entries {
		matches = append(matches, rag.Match{
			ID:       id,
			Score:    CosineSimilarity(vector, e.Vector),
			Metadata: copyMetadata(e.Metadata),
		})
	}
	return topK(matches, k), nil
}

// Size returns the number of stored entries.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryIndex) Close() error {
	return nil
}

var _ rag.VectorIndex = (*MemoryIndex)(nil)
