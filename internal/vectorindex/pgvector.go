package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/pgvector/pgvector-go"
)

// PgVectorIndex stores entries in Postgres using the pgvector extension.
// Several logical indexes share the rag_vectors table, keyed by index_name.
type PgVectorIndex struct {
	db        *pgxpool.Pool
	indexName string
	ownsPool  bool
}

func NewPgVectorIndex(db *pgxpool.Pool, indexName string) *PgVectorIndex {
	return &PgVectorIndex{db: db, indexName: indexName}
}

func (r *PgVectorIndex) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rag_vectors (
			index_name TEXT NOT NULL,
			id         TEXT NOT NULL,
			text       TEXT NOT NULL DEFAULT '',
			metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding  vector NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (index_name, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("create rag_vectors table: %w", err)
	}
	return nil
}

func (r *PgVectorIndex) Upsert(ctx context.Context, entries []rag.IndexEntry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return rag.ErrEmptyEmbedding
		}
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", e.ID, err)
		}
		batch.Queue(`
			INSERT INTO rag_vectors (index_name, id, text, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (index_name, id) DO UPDATE
			SET text = EXCLUDED.text,
			    metadata = EXCLUDED.metadata,
			    embedding = EXCLUDED.embedding,
			    updated_at = now()
		`,
			r.indexName,
			e.ID,
			e.Metadata[rag.MetadataText],
			meta,
			pgvector.NewVector(e.Vector),
		)
	}

	br := r.db.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

// Query orders by cosine distance; Score is 1 - distance.
func (r *PgVectorIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.Match, error) {
	if len(vector) == 0 {
		return nil, rag.ErrEmptyEmbedding
	}
	if k <= 0 {
		k = rag.DefaultTopK
	}

	vec := pgvector.NewVector(vector)

	rows, err := r.db.Query(ctx, `
		SELECT id, metadata, 1 - (embedding <=> $2) AS score
		FROM rag_vectors
		WHERE index_name = $1
		ORDER BY embedding <=> $2, id
		LIMIT $3
	`, r.indexName, vec, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []rag.Match{}
	for rows.Next() {
		var (
			m    rag.Match
			meta []byte
		)
		if err := rows.Scan(&m.ID, &meta, &m.Score); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &m.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", m.ID, err)
			}
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func (r *PgVectorIndex) Close() error {
	if r.ownsPool {
		r.db.Close()
	}
	return nil
}

var _ rag.VectorIndex = (*PgVectorIndex)(nil)
