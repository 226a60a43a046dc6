package cli

import (
	"github.com/josinaldojr/gemini-rag/internal/ingest"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Index the built-in sample documents",
	Long: `Embed and upsert the five sample coffee-company documents (doc1..doc5).
Re-running overwrites them by id.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	docs := ingest.SampleDocuments()
	out := cmd.OutOrStdout()
	report, err := p.service.IndexDocuments(ctx, docs, newProgress(out, len(docs), "Indexing"))
	printReport(out, report)
	return err
}
