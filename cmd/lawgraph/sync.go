// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lawgraph/internal/neo4jsync"
)

var syncNeo4jCmd = &cobra.Command{
	Use:   "sync-neo4j",
	Short: "Mirror the graph store into Neo4j",
	Long: `Sync-neo4j creates key uniqueness constraints, then MERGEs every node
and edge of the SQLite store into Neo4j. Running it again updates the
mirror in place. Connection settings come from lawgraph.yaml, the
LAWGRAPH_NEO4J_* environment variables, or the flags below. The password
may also be kept in .secrets/neo4j-password.`,
	RunE: runSyncNeo4j,
}

func init() {
	syncNeo4jCmd.Flags().String("uri", "", "bolt URI (default bolt://localhost:7687)")
	syncNeo4jCmd.Flags().String("user", "", "user name (default neo4j)")
	syncNeo4jCmd.Flags().String("database", "", "database name (default: server default)")
	syncNeo4jCmd.Flags().Int("batch-size", neo4jsync.DefaultBatchSize, "statements per write transaction")

	_ = viper.BindPFlag("neo4j.uri", syncNeo4jCmd.Flags().Lookup("uri"))
	_ = viper.BindPFlag("neo4j.user", syncNeo4jCmd.Flags().Lookup("user"))
	_ = viper.BindPFlag("neo4j.database", syncNeo4jCmd.Flags().Lookup("database"))

	rootCmd.AddCommand(syncNeo4jCmd)
}

func runSyncNeo4j(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	loadedSecrets.ApplyNeo4j(&cfg.Neo4j)
	batch, _ := cmd.Flags().GetInt("batch-size")
	ctx := context.Background()
	sink, err := neo4jsync.Open(ctx, cfg.Neo4j,
		neo4jsync.WithBatchSize(batch),
		neo4jsync.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer sink.Close(ctx)

	if err := sink.InitSchema(ctx); err != nil {
		return err
	}
	res, err := sink.Sync(ctx, st)
	if err != nil {
		return err
	}
	fmt.Printf("synced %d nodes, %d edges to %s\n", res.Nodes, res.Edges, cfg.Neo4j.URI)
	return nil
}
