// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph store to YAML or JSON",
	Long: `Export writes every node and edge of the graph store to export.yaml or
export.json in --dir. With --stdout the snapshot is printed instead.
Nodes without a known name carry the "(unknown)" display name.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("dir", ".", "directory for the export file")
	exportCmd.Flags().Bool("stdout", false, "write the snapshot to stdout")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("dir")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var path string
	switch format {
	case "yaml", "":
		if toStdout {
			return st.WriteYAML(ctx, os.Stdout)
		}
		path, err = st.ExportYAML(ctx, dir)
	case "json":
		if toStdout {
			return st.WriteJSON(ctx, os.Stdout)
		}
		path, err = st.ExportJSON(ctx, dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}
