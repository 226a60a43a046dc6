package vectorindex

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/josinaldojr/gemini-rag/internal/db"
	"github.com/josinaldojr/gemini-rag/internal/rag"
)

// newTestPgVector needs a Postgres with the vector extension available.
func newTestPgVector(t *testing.T) *PgVectorIndex {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		t.Fatal(err)
	}

	idx := NewPgVectorIndex(pool, fmt.Sprintf("test-%d", time.Now().UnixNano()))
	if err := idx.EnsureSchema(ctx); err != nil {
		pool.Close()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM rag_vectors WHERE index_name = $1`, idx.indexName)
		pool.Close()
	})
	return idx
}

func TestPgVectorIndex_QueryOrdersByCosine(t *testing.T) {
	idx := newTestPgVector(t)
	seed(t, idx)

	// schema creation is idempotent
	if err := idx.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Query(context.Background(), []float32{1, 0.1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 || matches[0].ID != "east" || matches[1].ID != "northeast" {
		t.Fatalf("unexpected matches %+v", matches)
	}

	want := CosineSimilarity([]float32{1, 0.1}, []float32{1, 0})
	if math.Abs(matches[0].Score-want) > 1e-4 {
		t.Errorf("expected score %.4f, got %.4f", want, matches[0].Score)
	}
	if matches[0].Score < matches[1].Score {
		t.Error("scores must be non-increasing")
	}
	if matches[0].Text() != "east text" {
		t.Errorf("expected metadata text, got %q", matches[0].Text())
	}
}

func TestPgVectorIndex_UpsertOverwrites(t *testing.T) {
	idx := newTestPgVector(t)
	seed(t, idx)
	ctx := context.Background()

	err := idx.Upsert(ctx, []rag.IndexEntry{
		{ID: "east", Vector: []float32{0, 1}, Metadata: map[string]string{rag.MetadataText: "moved"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var n int
	if err := idx.db.QueryRow(ctx, `SELECT count(*) FROM rag_vectors WHERE index_name = $1`, idx.indexName).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows after overwrite, got %d", n)
	}

	matches, err := idx.Query(ctx, []float32{0, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	// east and north now tie; ids break the tie.
	if len(matches) != 2 || matches[0].ID != "east" || matches[1].ID != "north" {
		t.Fatalf("unexpected matches %+v", matches)
	}
	if matches[0].Text() != "moved" {
		t.Errorf("expected overwritten text, got %q", matches[0].Text())
	}
}

func TestPgVectorIndex_RejectsEmptyVector(t *testing.T) {
	idx := newTestPgVector(t)
	if err := idx.Upsert(context.Background(), []rag.IndexEntry{{ID: "x"}}); err == nil {
		t.Error("expected error for empty vector")
	}
}
