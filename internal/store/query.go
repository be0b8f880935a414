// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/lawgraph/internal/graph"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// defaultLimit caps SearchNodes when QueryOptions.Limit is zero.
const defaultLimit = 50

// QueryOptions holds parameters for node listing queries.
type QueryOptions struct {
	// Prefix matches node keys starting with this text (e.g. "42 USC 13").
	Prefix string

	// Kind filters by node kind.
	Kind types.NodeKind

	// Limit caps the result count. Zero uses the default of 50; a negative
	// value means no limit.
	Limit int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Prefix == "" && q.Kind == ""
}

// SearchNodes lists nodes matching opts, ordered by key.
func (s *Store) SearchNodes(ctx context.Context, opts QueryOptions) ([]types.GraphNode, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + nodeColumns + ` FROM nodes WHERE 1=1`)

	if opts.Prefix != "" {
		qb.WriteString(` AND substr(key, 1, ?) = ?`)
		args = append(args, len(opts.Prefix), opts.Prefix)
	}
	if opts.Kind != "" {
		qb.WriteString(` AND kind = ?`)
		args = append(args, string(opts.Kind))
	}
	qb.WriteString(` ORDER BY key`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []types.GraphNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// AllNodes returns every node, ordered by key.
func (s *Store) AllNodes(ctx context.Context) ([]types.GraphNode, error) {
	return s.SearchNodes(ctx, QueryOptions{Limit: -1})
}

// AllEdges returns every edge, ordered by graph.SortEdges.
func (s *Store) AllEdges(ctx context.Context) ([]types.GraphEdge, error) {
	edges, err := queryEdges(ctx, s.db, `SELECT `+edgeColumns+` FROM edges`)
	if err != nil {
		return nil, err
	}
	graph.SortEdges(edges)
	return edges, nil
}

// Stats summarizes the graph contents.
type Stats struct {
	Nodes      map[types.NodeKind]int `json:"nodes" yaml:"nodes"`
	Edges      map[types.EdgeKind]int `json:"edges" yaml:"edges"`
	TotalNodes int                    `json:"total_nodes" yaml:"total_nodes"`
	TotalEdges int                    `json:"total_edges" yaml:"total_edges"`
}

// Stats counts nodes and edges per kind.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		Nodes: make(map[types.NodeKind]int),
		Edges: make(map[types.EdgeKind]int),
	}

	nodeCounts, err := s.countBy(ctx, `SELECT kind, count(*) FROM nodes GROUP BY kind`)
	if err != nil {
		return Stats{}, err
	}
	for k, n := range nodeCounts {
		st.Nodes[types.NodeKind(k)] = n
		st.TotalNodes += n
	}

	edgeCounts, err := s.countBy(ctx, `SELECT kind, count(*) FROM edges GROUP BY kind`)
	if err != nil {
		return Stats{}, err
	}
	for k, n := range edgeCounts {
		st.Edges[types.EdgeKind(k)] = n
		st.TotalEdges += n
	}
	return st, nil
}

func (s *Store) countBy(ctx context.Context, query string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// IngestStatus returns the content hash recorded for sourceID by the last
// successful ingestion. ok is false when the source was never ingested.
func (s *Store) IngestStatus(ctx context.Context, sourceID string) (hash string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM ingest_status WHERE source_id = ?`, sourceID,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading ingest status: %w", err)
	}
	return hash, true, nil
}

// MarkIngested records that sourceID was ingested with content hash hash.
func (s *Store) MarkIngested(ctx context.Context, sourceID, hash string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_status (source_id, content_hash, ingested_at) VALUES (?, ?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET
			content_hash=excluded.content_hash, ingested_at=excluded.ingested_at`,
		sourceID, hash, formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}
	return nil
}
