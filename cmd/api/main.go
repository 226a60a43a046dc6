package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/josinaldojr/gemini-rag/internal/config"
	apphttp "github.com/josinaldojr/gemini-rag/internal/http"
	"github.com/josinaldojr/gemini-rag/internal/llm"
	"github.com/josinaldojr/gemini-rag/internal/logging"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/josinaldojr/gemini-rag/internal/vectorindex"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Debug, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	index, err := vectorindex.Open(ctx, cfg.Index, logger)
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	defer index.Close()

	client, err := llm.Open(ctx, cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("failed to init model client: %w", err)
	}

	ragService := rag.NewService(index, client, client,
		rag.WithLogger(logger.Named("rag")),
		rag.WithTopK(cfg.Pipeline.TopK),
		rag.WithConcurrency(cfg.Pipeline.UpsertConcurrency),
	)

	h := apphttp.NewHandler(ragService, logger.Named("http"))
	router := apphttp.NewRouter(h)

	handler := corsMiddleware(router)

	addr := ":" + cfg.Port
	logger.Info("API listening",
		zap.String("addr", addr),
		zap.String("llm_backend", cfg.LLM.Backend),
		zap.String("vector_backend", cfg.Index.Backend),
		zap.String("index", cfg.Index.Name),
	)
	return http.ListenAndServe(addr, handler)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == "http://localhost:3000" || origin == "http://127.0.0.1:3000" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
