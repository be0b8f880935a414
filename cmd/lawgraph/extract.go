// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lawgraph/internal/canon"
	"github.com/pdiddy/lawgraph/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Find citations in text and print their canonical keys",
	Long: `Extract scans text (arguments, --file, or stdin) for legal citations and
prints each match with its span, the grammar rule that produced it, and
its canonical key. Citations that need context are marked with "?".`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("file", "", "read text from this file")
	extractCmd.Flags().Int("title", 0, "USC title completing bare § references")
	extractCmd.Flags().Int("congress", 0, "congress completing bills without a suffix")
	extractCmd.Flags().Bool("unique", false, "print each canonical citation once")
	extractCmd.Flags().Bool("json", false, "output matches as JSON")

	rootCmd.AddCommand(extractCmd)
}

type extractRow struct {
	Pattern      string  `json:"pattern"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	Text         string  `json:"text"`
	Key          string  `json:"key"`
	Confidence   float64 `json:"confidence"`
	NeedsContext bool    `json:"needs_context"`
	Context      string  `json:"context"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}
	ctx := contextFromFlags(cmd)

	results := canon.All(text, ctx)
	if unique, _ := cmd.Flags().GetBool("unique"); unique {
		results = canon.Unique(results)
	}

	rows := make([]extractRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, extractRow{
			Pattern:      r.Raw.Pattern,
			Start:        r.Raw.Span.Start,
			End:          r.Raw.Span.End,
			Text:         r.Raw.Text,
			Key:          r.Key(),
			Confidence:   r.Confidence,
			NeedsContext: r.NeedsContext,
			Context:      extract.Window(text, r.Raw.Span),
		})
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(os.Stdout, rows)
	}

	if len(rows) == 0 {
		fmt.Println("No citations found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-11s  %-20s  %-30s  %s\n", "Span", "Pattern", "Text", "Key")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range rows {
		key := r.Key
		if r.NeedsContext {
			key = "? (needs context)"
		}
		fmt.Fprintf(os.Stdout, "%-11s  %-20s  %-30s  %s\n",
			fmt.Sprintf("%d-%d", r.Start, r.End), r.Pattern, truncate(r.Text, 30), key)
	}
	fmt.Fprintf(os.Stdout, "\n%d citations\n", len(rows))
	return nil
}

func contextFromFlags(cmd *cobra.Command) canon.Context {
	title, _ := cmd.Flags().GetInt("title")
	congress, _ := cmd.Flags().GetInt("congress")
	return canon.Context{Title: title, Congress: congress}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
