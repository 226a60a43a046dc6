package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/josinaldojr/gemini-rag/internal/config"
	"github.com/josinaldojr/gemini-rag/internal/llm"
	"github.com/josinaldojr/gemini-rag/internal/logging"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/josinaldojr/gemini-rag/internal/vectorindex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile     string
	backendFlag string
	cfg         *config.Config
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Index documents and answer questions with retrieval-augmented generation",
	Long: `ragctl embeds documents into a vector index, retrieves the nearest ones
for a question and asks a language model to answer from that context.

Example usage:
  ragctl seed                                   # Index the sample coffee documents
  ragctl index --path ./docs                    # Index local md/txt/html/pdf files
  ragctl query -q "flagship product" -k 3       # Show nearest documents
  ragctl ask -q "What is our flagship coffee?"  # Answer with context
  ragctl demo                                   # Seed and ask the two demo questions`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			cfg.Index.Backend = backendFlag
		}

		logger, err = logging.New(cfg.Debug, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: environment and .env)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "vector backend override (pinecone, pgvector, bolt, memory)")
}

// pipeline is what every command needs: the service and the index to close.
type pipeline struct {
	service *rag.Service
	index   rag.VectorIndex
}

func (p *pipeline) Close() error {
	return p.index.Close()
}

func openPipeline(ctx context.Context) (*pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	index, err := vectorindex.Open(ctx, cfg.Index, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	client, err := llm.Open(ctx, cfg.LLM, logger)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to init model client: %w", err)
	}

	service := rag.NewService(index, client, client,
		rag.WithLogger(logger.Named("rag")),
		rag.WithTopK(cfg.Pipeline.TopK),
		rag.WithConcurrency(cfg.Pipeline.UpsertConcurrency),
	)
	return &pipeline{service: service, index: index}, nil
}
