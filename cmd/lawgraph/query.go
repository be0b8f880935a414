// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lawgraph/internal/graph"
	"github.com/pdiddy/lawgraph/internal/store"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// --- resolve ---

var resolveCmd = &cobra.Command{
	Use:   "resolve KEY",
	Short: "Look up a node by its exact canonical key",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, ok, err := st.Resolve(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no node with key %q", args[0])
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(os.Stdout, store.ExportNode{GraphNode: n, DisplayName: n.DisplayName()})
	}
	printNode(n)
	return nil
}

func printNode(n types.GraphNode) {
	fmt.Printf("key:          %s\n", n.Key)
	fmt.Printf("kind:         %s\n", n.Kind)
	fmt.Printf("name:         %s\n", n.DisplayName())
	if n.EnactedDate != nil {
		fmt.Printf("enacted:      %s\n", n.EnactedDate.Format("2006-01-02"))
	}
	if n.EffectiveDate != nil {
		fmt.Printf("effective:    %s\n", n.EffectiveDate.Format("2006-01-02"))
	}
	fmt.Printf("source:       %s\n", n.Provenance.Source)
}

// --- edges ---

var edgesCmd = &cobra.Command{
	Use:   "edges KEY",
	Short: "List the edges of a node ordered by kind and target",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdges,
}

func runEdges(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("direction")
	dir, err := graph.ParseDirection(dirFlag)
	if err != nil {
		return err
	}
	kinds, err := edgeKindsFromFlags(cmd)
	if err != nil {
		return err
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	edges, err := st.EdgesOf(context.Background(), args[0], dir, kinds...)
	if err != nil {
		return err
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

func edgeKindsFromFlags(cmd *cobra.Command) ([]types.EdgeKind, error) {
	names, _ := cmd.Flags().GetStringSlice("kind")
	kinds := make([]types.EdgeKind, 0, len(names))
	for _, name := range names {
		k := types.EdgeKind(strings.ToUpper(strings.TrimSpace(name)))
		if !k.Valid() {
			return nil, fmt.Errorf("unknown edge kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// --- nodes ---

var nodesCmd = &cobra.Command{
	Use:   "nodes [prefix]",
	Short: "List stored nodes by key prefix and kind",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNodes,
}

func runNodes(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := store.QueryOptions{Kind: types.NodeKind(kind), Limit: limit}
	if len(args) > 0 {
		opts.Prefix = args[0]
	}
	if opts.Kind != "" && !opts.Kind.Valid() {
		return fmt.Errorf("unknown node kind %q", kind)
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	nodes, err := st.SearchNodes(context.Background(), opts)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		fmt.Println("No nodes found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-24s  %-11s  %s\n", "Key", "Kind", "Name")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, n := range nodes {
		fmt.Fprintf(os.Stdout, "%-24s  %-11s  %s\n", truncate(n.Key, 24), n.Kind, truncate(n.DisplayName(), 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d nodes\n", len(nodes))
	return nil
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count stored nodes and edges per kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Stats(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeJSON(os.Stdout, s)
		}
		fmt.Printf("nodes: %d\n", s.TotalNodes)
		for _, k := range types.NodeKinds {
			if n := s.Nodes[k]; n > 0 {
				fmt.Printf("  %-11s %d\n", k, n)
			}
		}
		fmt.Printf("edges: %d\n", s.TotalEdges)
		for _, k := range types.EdgeKinds {
			if n := s.Edges[k]; n > 0 {
				fmt.Printf("  %-11s %d\n", k, n)
			}
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().Bool("json", false, "output the node as JSON")

	edgesCmd.Flags().String("direction", "both", "outgoing, incoming, or both")
	edgesCmd.Flags().StringSlice("kind", nil, "filter by edge kind (repeatable): ENACTS, AMENDS, CITES, ...")
	edgesCmd.Flags().Bool("json", false, "output edges as JSON")

	nodesCmd.Flags().String("kind", "", "filter by node kind: USCSection, PublicLaw, Bill, CFRSection, ...")
	nodesCmd.Flags().Int("limit", 0, "maximum results (0 = 50, negative = all)")

	statsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(edgesCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(statsCmd)
}
