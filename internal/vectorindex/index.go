// Package vectorindex provides the similarity index backends behind rag.VectorIndex.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/josinaldojr/gemini-rag/internal/config"
	"github.com/josinaldojr/gemini-rag/internal/db"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.uber.org/zap"
)

// Open connects to the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.IndexConfig, logger *zap.Logger) (rag.VectorIndex, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.IndexBackendPinecone:
		idx, err := NewPineconeIndex(ctx, PineconeConfig{
			APIKey:      cfg.PineconeAPIKey,
			IndexName:   cfg.Name,
			Host:        cfg.PineconeHost,
			Environment: cfg.PineconeEnvironment,
		}, logger.Named("pinecone"))
		if err != nil {
			return nil, err
		}
		return idx, nil

	case config.IndexBackendPgVector:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		idx := NewPgVectorIndex(pool, cfg.Name)
		idx.ownsPool = true
		if err := idx.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return idx, nil

	case config.IndexBackendBolt:
		idx, err := OpenBolt(cfg.BoltPath, cfg.Name)
		if err != nil {
			return nil, err
		}
		return idx, nil

	case config.IndexBackendMemory:
		return NewMemoryIndex(), nil

	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", cfg.Backend)
	}
}
