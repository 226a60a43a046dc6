package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultEmbeddingModel = "models/text-embedding-004"
	defaultChatModel      = "gemini-2.5-flash"
)

type GeminiClient struct {
	client         *genai.Client
	embeddingModel string
	chatModel      string
	embedDim       int
	logger         *zap.Logger
}

// GeminiConfig holds what the SDK client needs. EmbedDim 0 lets the model
// pick its native dimensionality.
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	EmbedDim       int
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &GeminiClient{
		client:         c,
		embeddingModel: cfg.EmbeddingModel,
		chatModel:      cfg.ChatModel,
		embedDim:       cfg.EmbedDim,
		logger:         logger,
	}
	if g.embeddingModel == "" {
		g.embeddingModel = defaultEmbeddingModel
	}
	if g.chatModel == "" {
		g.chatModel = defaultChatModel
	}
	return g, nil
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, rag.ErrEmptyText
	}

	var cfg *genai.EmbedContentConfig
	if g.embedDim > 0 {
		cfg = &genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(g.embedDim)),
		}
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(clean), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", mapAPIError(err))
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, &rag.MalformedResponseError{Field: "embeddings"}
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, &rag.MalformedResponseError{Field: "embeddings[0].values", Reason: "empty list"}
	}
	if g.embedDim > 0 && len(values) != g.embedDim {
		return nil, &rag.MalformedResponseError{
			Field:  "embeddings[0].values",
			Reason: fmt.Sprintf("unexpected embedding size %d (expected %d)", len(values), g.embedDim),
		}
	}

	g.logger.Debug("gemini embedding",
		zap.String("model", g.embeddingModel),
		zap.Int("dim", len(values)),
	)

	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.chatModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generateContent error: %w", mapAPIError(err))
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &rag.MalformedResponseError{Field: "candidates"}
	}

	return strings.TrimSpace(resp.Text()), nil
}

// -------- helpers --------

// mapAPIError turns SDK status errors into rag.UpstreamError so callers see
// the same error kinds regardless of the backend.
func mapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &rag.UpstreamError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	return err
}

func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			if !space {
				b.WriteRune(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

var _ rag.Embedder = (*GeminiClient)(nil)
var _ rag.Generator = (*GeminiClient)(nil)
