// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lawgraph/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Look up every citation in a free-text query",
	Long: `Search extracts the citations in a free-text query, canonicalizes them
(with --title and --congress as context), resolves each one in the graph
store, and prints the node with its incoming and outgoing edges.
Citations that need context or are not stored are listed as not found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("title", 0, "USC title completing bare § references")
	searchCmd.Flags().Int("congress", 0, "congress completing bills without a suffix")
	searchCmd.Flags().StringSlice("kind", nil, "only attach edges of these kinds")
	searchCmd.Flags().Bool("json", false, "output hits as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kinds, err := edgeKindsFromFlags(cmd)
	if err != nil {
		return err
	}
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s := search.New(st, search.WithKinds(kinds...), search.WithLogger(logger))
	hits, err := s.Search(context.Background(), strings.Join(args, " "), contextFromFlags(cmd))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if hits == nil {
			hits = []search.Hit{}
		}
		return writeJSON(os.Stdout, hits)
	}
	return formatHits(hits)
}

func formatHits(hits []search.Hit) error {
	if len(hits) == 0 {
		fmt.Println("No citations found in query.")
		return nil
	}
	for i, h := range hits {
		if i > 0 {
			fmt.Println()
		}
		switch {
		case h.NeedsContext:
			fmt.Printf("%s: needs context (try --title or --congress)\n", h.Text)
		case h.Key == "":
			fmt.Printf("%s: %s is a locator, not a graph node\n", h.Text, h.Citation)
		case !h.Found:
			fmt.Printf("%s: %s not found\n", h.Text, h.Key)
		default:
			fmt.Printf("%s -> %s (%s) %s\n", h.Text, h.Key, h.Node.Kind, h.Node.DisplayName())
			for _, e := range h.Incoming {
				fmt.Printf("  <- %-10s %s (%.3f)\n", e.Kind, e.Source, e.Confidence)
			}
			for _, e := range h.Outgoing {
				fmt.Printf("  -> %-10s %s (%.3f)\n", e.Kind, e.Target, e.Confidence)
			}
		}
	}
	return nil
}
