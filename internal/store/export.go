// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// Snapshot is the full graph as written by the exporters.
type Snapshot struct {
	Nodes []ExportNode      `json:"nodes" yaml:"nodes"`
	Edges []types.GraphEdge `json:"edges" yaml:"edges"`
}

// ExportNode is a node with its display name resolved, so a missing name
// shows up as the unknown marker rather than an empty string.
type ExportNode struct {
	types.GraphNode `yaml:",inline"`
	DisplayName     string `json:"display_name" yaml:"display_name"`
}

// Snapshot reads every node and edge.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	nodes, err := s.AllNodes(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying nodes for export: %w", err)
	}
	edges, err := s.AllEdges(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying edges for export: %w", err)
	}

	snap := Snapshot{Nodes: make([]ExportNode, len(nodes)), Edges: edges}
	for i, n := range nodes {
		snap.Nodes[i] = ExportNode{GraphNode: n, DisplayName: n.DisplayName()}
	}
	if snap.Edges == nil {
		snap.Edges = []types.GraphEdge{}
	}
	return snap, nil
}

// WriteYAML writes the snapshot as YAML to w.
func (s *Store) WriteYAML(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the snapshot as indented JSON to w.
func (s *Store) WriteJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// ExportYAML writes the snapshot to dir/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, dir string) (string, error) {
	return s.exportFile(ctx, filepath.Join(dir, "export.yaml"), s.WriteYAML)
}

// ExportJSON writes the snapshot to dir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, dir string) (string, error) {
	return s.exportFile(ctx, filepath.Join(dir, "export.json"), s.WriteJSON)
}

func (s *Store) exportFile(ctx context.Context, path string, write func(context.Context, io.Writer) error) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(ctx, f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
