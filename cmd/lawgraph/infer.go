// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lawgraph/internal/infer"
	"github.com/pdiddy/lawgraph/pkg/types"
)

var inferCmd = &cobra.Command{
	Use:   "infer --section KEY [history]",
	Short: "Infer ENACTS/AMENDS (and CITES) edges for one section",
	Long: `Infer reads a section's legislative history (arguments, --file, or stdin)
and prints the law-to-section edges it implies: the first Public Law
mentioned ENACTS the section, every later one AMENDS it. With --body,
citations in the statutory text become CITES edges. Nothing is stored.`,
	RunE: runInfer,
}

func init() {
	inferCmd.Flags().String("section", "", "canonical USC key of the section (required)")
	inferCmd.Flags().String("file", "", "read the history text from this file")
	inferCmd.Flags().String("body", "", "statutory text to scan for CITES edges")
	inferCmd.Flags().Bool("json", false, "output edges as JSON")
	_ = inferCmd.MarkFlagRequired("section")

	rootCmd.AddCommand(inferCmd)
}

func runInfer(cmd *cobra.Command, args []string) error {
	section, _ := cmd.Flags().GetString("section")
	history, err := inputText(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine := infer.New(
		infer.WithScorer(infer.ScorerFromConfig(cfg.Infer)),
		infer.WithSource("cli"),
		infer.WithLogger(logger),
	)
	edges, err := engine.Infer(section, history)
	if err != nil {
		return err
	}
	if body, _ := cmd.Flags().GetString("body"); body != "" {
		cites, err := engine.InferCitations(section, body)
		if err != nil {
			return err
		}
		edges = append(edges, cites...)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if edges == nil {
			edges = []types.GraphEdge{}
		}
		return writeJSON(os.Stdout, edges)
	}
	printEdges(edges)
	return nil
}

func printEdges(edges []types.GraphEdge) {
	if len(edges) == 0 {
		fmt.Println("No edges.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-10s  %-24s  %-24s  %-10s  %s\n", "Kind", "Source", "Target", "Confidence", "Evidence")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 86))
	for _, e := range edges {
		fmt.Fprintf(os.Stdout, "%-10s  %-24s  %-24s  %-10.3f  %d\n",
			e.Kind, truncate(e.Source, 24), truncate(e.Target, 24), e.Confidence, e.EvidenceCount)
	}
	fmt.Fprintf(os.Stdout, "\n%d edges\n", len(edges))
}
