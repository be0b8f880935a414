// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lawgraph/internal/infer"
	"github.com/pdiddy/lawgraph/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Ingest section history files into the graph store",
	Long: `Ingest reads YAML history files, infers edges for every section, and
upserts the sections, laws, cited provisions and edges into the SQLite
store. Sections whose key, history and body are unchanged since the last
run are skipped unless --force is given. A section that fails (bad key,
kind conflict) is reported and the rest continue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Int("workers", 0, "sections processed in parallel (default 4)")
	ingestCmd.Flags().Bool("force", false, "re-ingest unchanged sections")
	ingestCmd.Flags().String("source", "", "provenance source for records without one")

	_ = viper.BindPFlag("ingest.force", ingestCmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("ingest.source", ingestCmd.Flags().Lookup("source"))

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Ingest.Workers = workers
	}
	if cfg.Ingest.Source == "" {
		cfg.Ingest.Source = "history"
	}

	p := ingest.New(st,
		ingest.WithConfig(cfg.Ingest),
		ingest.WithScorer(infer.ScorerFromConfig(cfg.Infer)),
		ingest.WithLogger(logger),
	)
	fmt.Fprintf(os.Stdout, "run %s -> %s\n", p.RunID(), st.Path())

	ctx := context.Background()
	var failed int
	for _, path := range args {
		f, err := ingest.LoadFile(path)
		if err != nil {
			return err
		}
		summary, err := p.RunFile(ctx, f, os.Stdout)
		if err != nil {
			return err
		}
		failed += summary.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d record(s) failed ingestion", failed)
	}
	return nil
}
