package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/josinaldojr/gemini-rag/internal/ingest"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/spf13/cobra"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question from the indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runAsk,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Index the sample documents and ask the demo questions",
	Long: `Seed the index with doc1..doc5, then ask:
  - What is our flagship coffee product?
  - What is our customer service like?
Each answer (or error) is printed; one failing question does not stop the next.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(demoCmd)
	askCmd.Flags().StringVarP(&askQuestion, "query", "q", "", "question (required)")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	ans, err := p.service.Answer(ctx, askQuestion)
	if err != nil {
		return err
	}
	printAnswer(cmd.OutOrStdout(), ans)
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	docs := ingest.SampleDocuments()
	report, err := p.service.IndexDocuments(ctx, docs, newProgress(out, len(docs), "Indexing"))
	printReport(out, report)
	if err != nil {
		return err
	}

	askAll(ctx, out, p.service, ingest.DemoQuestions)
	return nil
}

// askAll asks every question and prints the answer or the error.
func askAll(ctx context.Context, out io.Writer, service *rag.Service, questions []string) {
	for _, q := range questions {
		ans, err := service.Answer(ctx, q)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printAnswer(out, ans)
	}
}

func printAnswer(out io.Writer, ans *rag.Answer) {
	fmt.Fprintf(out, "Question: %s\n", ans.Question)
	fmt.Fprintf(out, "Answer: %s\n", ans.Answer)
}
