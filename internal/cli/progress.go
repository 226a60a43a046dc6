package cli

import (
	"fmt"
	"io"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/schollz/progressbar/v3"
)

// newProgress returns a callback for rag.Service.IndexDocuments that drives a progress bar.
func newProgress(w io.Writer, total int, description string) func(done, total int) {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return func(done, _ int) {
		_ = bar.Set(done)
	}
}

func printReport(w io.Writer, report rag.BatchReport) {
	fmt.Fprintf(w, "\nIndexing complete:\n")
	fmt.Fprintf(w, "  Documents indexed: %d\n", report.Succeeded())
	failed := report.Failed()
	fmt.Fprintf(w, "  Documents failed:  %d\n", len(failed))
	for _, f := range failed {
		fmt.Fprintf(w, "  - Error processing entry %s: %v\n", f.ID, f.Err)
	}
}
