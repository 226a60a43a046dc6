package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.etcd.io/bbolt"
)

// BoltIndex persists entries in a BoltDB file, one bucket per index name.
// Search is brute force over the bucket.
type BoltIndex struct {
	db     *bbolt.DB
	bucket []byte
}

type storedVector struct {
	Vector   []float32         `json:"v"`
	Metadata map[string]string `json:"m,omitempty"`
}

func OpenBolt(path, indexName string) (*BoltIndex, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt index %s: %w", path, err)
	}

	idx, err := NewBoltIndex(db, indexName)
	if err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func NewBoltIndex(db *bbolt.DB, indexName string) (*BoltIndex, error) {
	bucket := []byte("index:" + indexName)
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket for index %s: %w", indexName, err)
	}
	return &BoltIndex{db: db, bucket: bucket}, nil
}

func (s *BoltIndex) Upsert(ctx context.Context, entries []rag.IndexEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("bucket %s not found", s.bucket)
		}

		dim, err := bucketDimension(b)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.ID == "" {
				return fmt.Errorf("entry id is required")
			}
			if len(e.Vector) == 0 {
				return rag.ErrEmptyEmbedding
			}
			if dim == 0 {
				dim = len(e.Vector)
			}
			if len(e.Vector) != dim {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(e.Vector))
			}

			data, err := json.Marshal(storedVector{Vector: e.Vector, Metadata: e.Metadata})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(e.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.Match, error) {
	if len(vector) == 0 {
		return nil, rag.ErrEmptyEmbedding
	}
	if k <= 0 {
		return []rag.Match{}, nil
	}

	matches := []rag.Match{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(key, v []byte) error {
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("decode entry %s: %w", key, err)
			}
			if len(stored.Vector) != len(vector) {
				return fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vector), len(stored.Vector))
			}
			matches = append(matches, rag.Match{
				ID:       string(key),
				Score:    CosineSimilarity(vector, stored.Vector),
				Metadata: stored.Metadata,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return topK(matches, k), nil
}

// Count returns the number of entries in the index bucket.
func (s *BoltIndex) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(s.bucket); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

func (s *BoltIndex) Close() error {
	return s.db.Close()
}

// bucketDimension reads the dimension of the first stored vector (0 when empty).
func bucketDimension(b *bbolt.Bucket) (int, error) {
	_, v := b.Cursor().First()
	if v == nil {
		return 0, nil
	}
	var stored storedVector
	if err := json.Unmarshal(v, &stored); err != nil {
		return 0, fmt.Errorf("decode first entry: %w", err)
	}
	return len(stored.Vector), nil
}

var _ rag.VectorIndex = (*BoltIndex)(nil)
