package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	index       VectorIndex
	embeddings  Embedder
	llm         Generator
	logger      *zap.Logger
	topK        int
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTopK sets how many matches Answer retrieves. Values <= 0 keep DefaultTopK.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithConcurrency sets how many documents IndexDocuments processes at once.
// 1 (the default) keeps the loop strictly sequential.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(index VectorIndex, embeddings Embedder, llm Generator, opts ...Option) *Service {
	s := &Service{
		index:       index,
		embeddings:  embeddings,
		llm:         llm,
		logger:      zap.NewNop(),
		topK:        DefaultTopK,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexDocuments embeds and upserts every document. A failing document is
// logged and recorded in the report; the remaining documents still run.
// The returned error is only non-nil when ctx ends before the batch is done.
func (s *Service) IndexDocuments(ctx context.Context, docs []Document, progress func(done, total int)) (BatchReport, error) {
	report := BatchReport{Results: make([]ItemResult, len(docs))}

	var (
		mu   sync.Mutex
		done int
	)
	finish := func(i int, id string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Results[i] = ItemResult{ID: id, Err: err}
		done++
		if progress != nil {
			progress(done, len(docs))
		}
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			finish(i, doc.ID, err)
			continue
		}
		g.Go(func() error {
			err := s.indexOne(ctx, doc)
			if err != nil {
				s.logger.Warn("error processing document",
					zap.String("id", doc.ID),
					zap.Error(err),
				)
			}
			finish(i, doc.ID, err)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("indexing finished",
		zap.Int("total", len(docs)),
		zap.Int("succeeded", report.Succeeded()),
		zap.Strings("failed", report.FailedIDs()),
	)

	return report, ctx.Err()
}

func (s *Service) indexOne(ctx context.Context, doc Document) error {
	if strings.TrimSpace(doc.ID) == "" {
		return errors.New("document id is required")
	}

	vec, err := s.embeddings.Embed(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("embed %s: %w", doc.ID, err)
	}
	if len(vec) == 0 {
		return fmt.Errorf("embed %s: %w", doc.ID, ErrEmptyEmbedding)
	}

	metadata := make(map[string]string, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		metadata[k] = v
	}
	metadata[MetadataText] = doc.Text

	entry := IndexEntry{ID: doc.ID, Vector: vec, Metadata: metadata}
	if err := s.index.Upsert(ctx, []IndexEntry{entry}); err != nil {
		return fmt.Errorf("upsert %s: %w", doc.ID, err)
	}
	return nil
}

// Query embeds the query and returns the topK most similar documents.
// Embedding errors are returned as is.
func (s *Service) Query(ctx context.Context, query string, topK int) (QueryResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := s.embeddings.Embed(ctx, query)
	if err != nil {
		return QueryResult{}, err
	}
	if len(vec) == 0 {
		return QueryResult{}, ErrEmptyEmbedding
	}

	matches, err := s.index.Query(ctx, vec, topK)
	if err != nil {
		return QueryResult{}, fmt.Errorf("query index: %w", err)
	}

	return QueryResult{Matches: matches}, nil
}

// Answer retrieves context for the question and asks the generator for an answer.
// Zero matches still produce a generation call with an empty context.
func (s *Service) Answer(ctx context.Context, question string) (*Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, ErrEmptyQuestion
	}

	result, err := s.Query(ctx, q, s.topK)
	if err != nil {
		return nil, err
	}

	contextText := BuildContext(result.Matches)
	prompt := BuildPrompt(contextText, q)

	s.logger.Debug("generating answer",
		zap.String("question", q),
		zap.Int("matches", len(result.Matches)),
	)

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	matches := result.Matches
	if matches == nil {
		matches = []Match{}
	}

	return &Answer{
		Question: q,
		Answer:   strings.TrimSpace(text),
		Context:  contextText,
		Matches:  matches,
	}, nil
}
