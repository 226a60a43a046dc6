package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/josinaldojr/gemini-rag/internal/config"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.uber.org/zap"
)

// Client is what the pipeline needs from a model provider.
type Client interface {
	rag.Embedder
	rag.Generator
}

// Open builds the model client selected by cfg.Backend.
func Open(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.LLMBackendEndpoint:
		return NewEndpointClient(
			cfg.EmbedEndpoint,
			cfg.GenerateEndpoint,
			cfg.APIKey,
			WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			WithLogger(logger.Named("endpoint")),
		), nil
	case config.LLMBackendGenAI:
		g, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			EmbeddingModel: cfg.EmbeddingModel,
			ChatModel:      cfg.ChatModel,
			EmbedDim:       cfg.EmbeddingDim,
		}, logger.Named("gemini"))
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", cfg.Backend)
	}
}
