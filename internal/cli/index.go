package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/josinaldojr/gemini-rag/internal/ingest"
	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/spf13/cobra"
)

var (
	indexPath     string
	indexURL      string
	indexMaxPages int
	indexIncludes []string
	indexExcludes []string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index local files or a crawled site",
	Long: `Read md/txt/html/pdf files (--path) or crawl pages on one host (--url),
split them into chunks and upsert every chunk into the vector index.

Examples:
  ragctl index --path ./docs
  ragctl index --path ./docs --include "**/*.md"
  ragctl index --url https://example.com/docs --max-pages 20`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexPath, "path", "", "directory with local files")
	indexCmd.Flags().StringVar(&indexURL, "url", "", "base URL to crawl")
	indexCmd.Flags().IntVar(&indexMaxPages, "max-pages", 50, "page limit for --url")
	indexCmd.Flags().StringSliceVar(&indexIncludes, "include", nil, "glob patterns to include (default md, txt, html, pdf)")
	indexCmd.Flags().StringSliceVar(&indexExcludes, "exclude", nil, "glob patterns to exclude")
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexPath == "" && indexURL == "" {
		return fmt.Errorf("use at least one of --path or --url")
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var docs []rag.Document

	if indexPath != "" {
		abs, err := filepath.Abs(indexPath)
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("path does not exist: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", abs)
		}

		fmt.Fprintf(out, "Scanning %s...\n", abs)
		fileDocs, err := ingest.FromFiles(abs, indexIncludes, indexExcludes)
		if err != nil {
			return fmt.Errorf("reading files failed: %w", err)
		}
		docs = append(docs, fileDocs...)
	}

	if indexURL != "" {
		fmt.Fprintf(out, "Crawling %s (max %d pages)...\n", indexURL, indexMaxPages)
		crawler := ingest.NewCrawler(&http.Client{Timeout: 30 * time.Second}, logger.Named("crawler"))
		pageDocs, err := crawler.FromURL(ctx, indexURL, indexMaxPages)
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}
		docs = append(docs, pageDocs...)
	}

	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents found.")
		return nil
	}

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.service.IndexDocuments(ctx, docs, newProgress(out, len(docs), "Indexing"))
	printReport(out, report)
	return err
}
