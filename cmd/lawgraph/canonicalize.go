// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lawgraph/internal/canon"
)

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize [citation]",
	Short: "Print the canonical key of a single citation",
	Long: `Canonicalize reads the first citation in its argument and prints the
canonical key, the confidence, and whether context is still needed.
--title and --congress supply the missing parts of bare section and
bill references.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCanonicalize,
}

func init() {
	canonicalizeCmd.Flags().Int("title", 0, "USC title completing bare § references")
	canonicalizeCmd.Flags().Int("congress", 0, "congress completing bills without a suffix")
	canonicalizeCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(canonicalizeCmd)
}

func runCanonicalize(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	res, ok := canon.CanonicalizeString(input, contextFromFlags(cmd))
	if !ok {
		return fmt.Errorf("no citation found in %q", input)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(os.Stdout, map[string]any{
			"key":           res.Key(),
			"kind":          res.Citation.Kind,
			"display":       res.Citation.String(),
			"confidence":    res.Confidence,
			"needs_context": res.NeedsContext,
		})
	}

	fmt.Printf("key:           %s\n", res.Key())
	fmt.Printf("kind:          %s\n", res.Citation.Kind)
	fmt.Printf("confidence:    %.2f\n", res.Confidence)
	fmt.Printf("needs_context: %t\n", res.NeedsContext)
	return nil
}
