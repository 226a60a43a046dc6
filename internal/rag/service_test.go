package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type stubEmbedder struct {
	vectors map[string][]float32
	errs    map[string]error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err, ok := s.errs[text]; ok {
		return nil, err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

type stubGenerator struct {
	prompts []string
	answer  string
	err     error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.answer, g.err
}

type stubIndex struct {
	mu       sync.Mutex
	upserted []IndexEntry
	matches  []Match
	failIDs  map[string]bool
	topK     int
}

func (s *stubIndex) Upsert(ctx context.Context, entries []IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if s.failIDs[e.ID] {
			return errors.New("index unavailable")
		}
	}
	s.upserted = append(s.upserted, entries...)
	return nil
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	s.topK = topK
	return s.matches, nil
}

func (s *stubIndex) Close() error { return nil }

func TestIndexDocuments_SkipsFailingDocument(t *testing.T) {
	emb := &stubEmbedder{errs: map[string]error{
		"bad": &UpstreamError{StatusCode: 500, Body: "boom"},
	}}
	idx := &stubIndex{}
	svc := NewService(idx, emb, &stubGenerator{})

	docs := []Document{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "bad"},
		{ID: "c", Text: "third"},
	}

	report, err := svc.IndexDocuments(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Succeeded() != 2 {
		t.Errorf("expected 2 succeeded, got %d", report.Succeeded())
	}
	failed := report.FailedIDs()
	if len(failed) != 1 || failed[0] != "b" {
		t.Fatalf("expected [b] failed, got %v", failed)
	}
	if !IsUpstream(report.Failed()[0].Err) {
		t.Errorf("expected upstream error kind to be preserved, got %v", report.Failed()[0].Err)
	}

	if len(idx.upserted) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(idx.upserted))
	}
	if idx.upserted[0].ID != "a" || idx.upserted[1].ID != "c" {
		t.Errorf("unexpected upsert order: %s, %s", idx.upserted[0].ID, idx.upserted[1].ID)
	}
}

func TestIndexDocuments_StoresTextInMetadata(t *testing.T) {
	idx := &stubIndex{}
	svc := NewService(idx, &stubEmbedder{}, &stubGenerator{})

	docs := []Document{{ID: "a", Text: "hello", Metadata: map[string]string{"source": "x.md"}}}
	if _, err := svc.IndexDocuments(context.Background(), docs, nil); err != nil {
		t.Fatal(err)
	}

	got := idx.upserted[0].Metadata
	if got[MetadataText] != "hello" {
		t.Errorf("expected text metadata, got %q", got[MetadataText])
	}
	if got["source"] != "x.md" {
		t.Errorf("expected source metadata to be kept, got %q", got["source"])
	}
	if _, ok := docs[0].Metadata[MetadataText]; ok {
		t.Error("input document metadata must not be modified")
	}
}

func TestIndexDocuments_UpsertFailureIsIsolated(t *testing.T) {
	idx := &stubIndex{failIDs: map[string]bool{"a": true}}
	svc := NewService(idx, &stubEmbedder{}, &stubGenerator{})

	report, err := svc.IndexDocuments(context.Background(), []Document{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Succeeded() != 1 || report.FailedIDs()[0] != "a" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestIndexDocuments_EmptyEmbeddingAndMissingID(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"empty": {}}}
	svc := NewService(&stubIndex{}, emb, &stubGenerator{})

	report, err := svc.IndexDocuments(context.Background(), []Document{
		{ID: "a", Text: "empty"},
		{ID: "", Text: "no id"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Succeeded() != 0 {
		t.Fatalf("expected no successes, got %d", report.Succeeded())
	}
	if !errors.Is(report.Results[0].Err, ErrEmptyEmbedding) {
		t.Errorf("expected ErrEmptyEmbedding, got %v", report.Results[0].Err)
	}
}

func TestIndexDocuments_ConcurrentKeepsOrderAndProgress(t *testing.T) {
	idx := &stubIndex{}
	svc := NewService(idx, &stubEmbedder{}, &stubGenerator{}, WithConcurrency(4))

	var docs []Document
	for _, id := range []string{"d1", "d2", "d3", "d4", "d5", "d6"} {
		docs = append(docs, Document{ID: id, Text: "text " + id})
	}

	var calls []int
	report, err := svc.IndexDocuments(context.Background(), docs, func(done, total int) {
		if total != len(docs) {
			t.Errorf("expected total %d, got %d", len(docs), total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatal(err)
	}

	for i, res := range report.Results {
		if res.ID != docs[i].ID {
			t.Errorf("result %d: expected %s, got %s", i, docs[i].ID, res.ID)
		}
	}
	if len(calls) != len(docs) || calls[len(calls)-1] != len(docs) {
		t.Errorf("unexpected progress calls: %v", calls)
	}
	if len(idx.upserted) != len(docs) {
		t.Errorf("expected %d upserts, got %d", len(docs), len(idx.upserted))
	}
}

func TestIndexDocuments_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := &stubIndex{}
	svc := NewService(idx, &stubEmbedder{}, &stubGenerator{})

	report, err := svc.IndexDocuments(ctx, []Document{{ID: "a", Text: "x"}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Err == nil {
		t.Errorf("expected the document to be reported as failed, got %+v", report.Results)
	}
	if len(idx.upserted) != 0 {
		t.Error("nothing should be upserted after cancellation")
	}
}

func TestQuery_DefaultTopK(t *testing.T) {
	idx := &stubIndex{}
	svc := NewService(idx, &stubEmbedder{}, &stubGenerator{})

	if _, err := svc.Query(context.Background(), "anything", 0); err != nil {
		t.Fatal(err)
	}
	if idx.topK != DefaultTopK {
		t.Errorf("expected topK=%d, got %d", DefaultTopK, idx.topK)
	}
}

func TestQuery_PropagatesEmbeddingError(t *testing.T) {
	want := &MalformedResponseError{Field: "embedding"}
	emb := &stubEmbedder{errs: map[string]error{"q": want}}
	svc := NewService(&stubIndex{}, emb, &stubGenerator{})

	_, err := svc.Query(context.Background(), "q", 2)
	var got *MalformedResponseError
	if !errors.As(err, &got) || got != want {
		t.Errorf("expected the embedding error unchanged, got %v", err)
	}
}

func TestAnswer_ContextIsNewlineJoinedInOrder(t *testing.T) {
	idx := &stubIndex{matches: []Match{
		{ID: "doc3", Score: 0.9, Metadata: map[string]string{MetadataText: "third"}},
		{ID: "doc1", Score: 0.5, Metadata: map[string]string{MetadataText: "first"}},
	}}
	gen := &stubGenerator{answer: "  The answer.\n"}
	svc := NewService(idx, &stubEmbedder{}, gen)

	ans, err := svc.Answer(context.Background(), "What?")
	if err != nil {
		t.Fatal(err)
	}

	if ans.Context != "third\nfirst" {
		t.Errorf("unexpected context %q", ans.Context)
	}
	if ans.Answer != "The answer." {
		t.Errorf("expected trimmed answer, got %q", ans.Answer)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generation call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Context: third\nfirst\n") {
		t.Errorf("prompt does not embed context: %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "Question: What?\n") {
		t.Errorf("prompt does not embed question: %q", gen.prompts[0])
	}
}

func TestAnswer_ZeroMatchesStillGenerates(t *testing.T) {
	gen := &stubGenerator{answer: "I don't know."}
	svc := NewService(&stubIndex{}, &stubEmbedder{}, gen)

	ans, err := svc.Answer(context.Background(), "Anything?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.Context != "" {
		t.Errorf("expected empty context, got %q", ans.Context)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("expected a generation call, got %d", len(gen.prompts))
	}
	if ans.Matches == nil {
		t.Error("matches should be an empty slice, not nil")
	}
}

func TestAnswer_UsesConfiguredTopK(t *testing.T) {
	idx := &stubIndex{}
	svc := NewService(idx, &stubEmbedder{}, &stubGenerator{}, WithTopK(5))

	if _, err := svc.Answer(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	if idx.topK != 5 {
		t.Errorf("expected topK=5, got %d", idx.topK)
	}
}

func TestAnswer_Errors(t *testing.T) {
	svc := NewService(&stubIndex{}, &stubEmbedder{}, &stubGenerator{})
	if _, err := svc.Answer(context.Background(), "   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}

	gen := &stubGenerator{err: &UpstreamError{StatusCode: 503, Body: "unavailable"}}
	svc = NewService(&stubIndex{}, &stubEmbedder{}, gen)
	if _, err := svc.Answer(context.Background(), "q"); !IsUpstream(err) {
		t.Errorf("expected UpstreamError, got %v", err)
	}
}
