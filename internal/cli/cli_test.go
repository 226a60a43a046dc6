package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/josinaldojr/gemini-rag/internal/ingest"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/josinaldojr/gemini-rag/internal/vectorindex"
)

type constEmbedder struct{}

func (constEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, float32(len(text) % 7)}, nil
}

type scriptedGenerator struct {
	calls int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if strings.Contains(prompt, "customer service") {
		return "", &rag.UpstreamError{StatusCode: 503, Body: "unavailable"}
	}
	return " Ethiopian Yirgacheffe. ", nil
}

func TestAskAll_ContinuesAfterFailure(t *testing.T) {
	gen := &scriptedGenerator{}
	svc := rag.NewService(vectorindex.NewMemoryIndex(), constEmbedder{}, gen)
	if _, err := svc.IndexDocuments(context.Background(), ingest.SampleDocuments(), nil); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	askAll(context.Background(), &out, svc, ingest.DemoQuestions)

	got := out.String()
	if !strings.Contains(got, "Question: What is our flagship coffee product?\nAnswer: Ethiopian Yirgacheffe.\n") {
		t.Errorf("missing first answer in %q", got)
	}
	if !strings.Contains(got, "Error: upstream error: status 503") {
		t.Errorf("missing error line in %q", got)
	}
	if gen.calls != 2 {
		t.Errorf("expected both questions to be asked, got %d", gen.calls)
	}
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, rag.BatchReport{Results: []rag.ItemResult{
		{ID: "doc1"},
		{ID: "doc2", Err: errors.New("boom")},
	}})

	got := out.String()
	for _, want := range []string{"Documents indexed: 1", "Documents failed:  1", "Error processing entry doc2: boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestNewProgress(t *testing.T) {
	var out bytes.Buffer
	progress := newProgress(&out, 2, "Indexing")
	progress(1, 2)
	progress(2, 2)
	if !strings.Contains(out.String(), "Indexing") {
		t.Errorf("expected description in progress output, got %q", out.String())
	}
}
