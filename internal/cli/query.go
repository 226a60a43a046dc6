package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show the documents nearest to a query",
	Long: `Embed the query and print the top-k matches from the vector index.

Examples:
  ragctl query -q "flagship product"
  ragctl query -q "customer service" --top-k 3 --json`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default 2)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.service.Query(ctx, queryText, queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(result.Matches) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(result.Matches), queryText)
	for i, m := range result.Matches {
		fmt.Fprintf(out, "--- [%d] %s (score: %.4f) ---\n", i+1, m.ID, m.Score)
		fmt.Fprintln(out, m.Text())
		fmt.Fprintln(out)
	}
	return nil
}
