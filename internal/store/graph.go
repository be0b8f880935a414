// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/lawgraph/internal/graph"
	"github.com/pdiddy/lawgraph/pkg/types"
)

var _ graph.Repository = (*Store)(nil)

const nodeColumns = `key, kind, name, effective_date, enacted_date, source, retrieved_at`

const edgeColumns = `source_key, target_key, kind, confidence, evidence_count,
	first_seen, last_seen, span_start, span_end, source, retrieved_at`

// UpsertNode merges n into the stored node with the same key. A kind
// mismatch returns *graph.UpsertConflictError and writes nothing.
func (s *Store) UpsertNode(ctx context.Context, n types.GraphNode) (types.GraphNode, error) {
	var merged types.GraphNode
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := getNode(ctx, tx, n.Key)
		if err != nil {
			return err
		}
		merged, err = graph.MergeNode(existing, n)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO nodes (`+nodeColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET
				name=excluded.name, effective_date=excluded.effective_date,
				enacted_date=excluded.enacted_date, source=excluded.source,
				retrieved_at=excluded.retrieved_at`,
			merged.Key, string(merged.Kind), nullString(merged.Name),
			nullTime(merged.EffectiveDate), nullTime(merged.EnactedDate),
			merged.Provenance.Source, formatTime(merged.Provenance.RetrievedAt),
		)
		if err != nil {
			return fmt.Errorf("upserting node %s: %w", merged.Key, err)
		}
		return nil
	})
	if err != nil {
		return types.GraphNode{}, err
	}
	return merged, nil
}

// UpsertEdge merges e into the stored edge with the same (source, target,
// kind). Endpoints need not exist yet, so edges may arrive before nodes.
func (s *Store) UpsertEdge(ctx context.Context, e types.GraphEdge) (types.GraphEdge, error) {
	var merged types.GraphEdge
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := getEdge(ctx, tx, e.ID())
		if err != nil {
			return err
		}
		merged, err = graph.MergeEdge(existing, e)
		if err != nil {
			return err
		}
		var spanStart, spanEnd sql.NullInt64
		if merged.Span != nil {
			spanStart = sql.NullInt64{Int64: int64(merged.Span.Start), Valid: true}
			spanEnd = sql.NullInt64{Int64: int64(merged.Span.End), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO edges (`+edgeColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(source_key, target_key, kind) DO UPDATE SET
				confidence=excluded.confidence, evidence_count=excluded.evidence_count,
				first_seen=excluded.first_seen, last_seen=excluded.last_seen,
				span_start=excluded.span_start, span_end=excluded.span_end,
				source=excluded.source, retrieved_at=excluded.retrieved_at`,
			merged.Source, merged.Target, string(merged.Kind), merged.Confidence, merged.EvidenceCount,
			formatTime(merged.FirstSeen), formatTime(merged.LastSeen), spanStart, spanEnd,
			merged.Provenance.Source, formatTime(merged.Provenance.RetrievedAt),
		)
		if err != nil {
			return fmt.Errorf("upserting edge %s -%s-> %s: %w", merged.Source, merged.Kind, merged.Target, err)
		}
		return nil
	})
	if err != nil {
		return types.GraphEdge{}, err
	}
	return merged, nil
}

// Resolve returns the node stored under exactly key.
func (s *Store) Resolve(ctx context.Context, key string) (types.GraphNode, bool, error) {
	n, err := getNode(ctx, s.db, key)
	if err != nil {
		return types.GraphNode{}, false, err
	}
	if n == nil {
		return types.GraphNode{}, false, nil
	}
	return *n, true, nil
}

// EdgesOf returns the edges of key in direction dir, restricted to kinds
// when any are given, ordered by graph.SortEdges.
func (s *Store) EdgesOf(ctx context.Context, key string, dir graph.Direction, kinds ...types.EdgeKind) ([]types.GraphEdge, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + edgeColumns + ` FROM edges WHERE `)
	switch dir {
	case graph.Outgoing:
		qb.WriteString(`source_key = ?`)
		args = append(args, key)
	case graph.Incoming:
		qb.WriteString(`target_key = ?`)
		args = append(args, key)
	default:
		qb.WriteString(`(source_key = ? OR target_key = ?)`)
		args = append(args, key, key)
	}
	if len(kinds) > 0 {
		qb.WriteString(` AND kind IN (?` + strings.Repeat(`, ?`, len(kinds)-1) + `)`)
		for _, k := range kinds {
			args = append(args, string(k))
		}
	}

	edges, err := queryEdges(ctx, s.db, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	graph.SortEdges(edges)
	return edges, nil
}

func getNode(ctx context.Context, q queryer, key string) (*types.GraphNode, error) {
	row := q.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE key = ?`, key)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up node %s: %w", key, err)
	}
	return &n, nil
}

func getEdge(ctx context.Context, q queryer, id types.EdgeID) (*types.GraphEdge, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+edgeColumns+` FROM edges WHERE source_key = ? AND target_key = ? AND kind = ?`,
		id.Source, id.Target, string(id.Kind))
	e, err := scanEdge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up edge: %w", err)
	}
	return &e, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNode(r scanner) (types.GraphNode, error) {
	var (
		n                types.GraphNode
		kind             string
		name             sql.NullString
		effective, enact sql.NullString
		retrieved        string
	)
	if err := r.Scan(&n.Key, &kind, &name, &effective, &enact, &n.Provenance.Source, &retrieved); err != nil {
		return types.GraphNode{}, err
	}
	n.Kind = types.NodeKind(kind)
	if name.Valid {
		n.Name = types.StringPtr(name.String)
	}

	var err error
	if n.EffectiveDate, err = scanNullTime(effective); err != nil {
		return types.GraphNode{}, fmt.Errorf("parsing effective_date: %w", err)
	}
	if n.EnactedDate, err = scanNullTime(enact); err != nil {
		return types.GraphNode{}, fmt.Errorf("parsing enacted_date: %w", err)
	}
	if n.Provenance.RetrievedAt, err = parseTime(retrieved); err != nil {
		return types.GraphNode{}, fmt.Errorf("parsing retrieved_at: %w", err)
	}
	return n, nil
}

func scanEdge(r scanner) (types.GraphEdge, error) {
	var (
		e                  types.GraphEdge
		kind               string
		first, last        string
		spanStart, spanEnd sql.NullInt64
		retrieved          string
	)
	if err := r.Scan(&e.Source, &e.Target, &kind, &e.Confidence, &e.EvidenceCount,
		&first, &last, &spanStart, &spanEnd, &e.Provenance.Source, &retrieved); err != nil {
		return types.GraphEdge{}, err
	}
	e.Kind = types.EdgeKind(kind)
	if spanStart.Valid && spanEnd.Valid {
		e.Span = &types.Span{Start: int(spanStart.Int64), End: int(spanEnd.Int64)}
	}

	var err error
	if e.FirstSeen, err = parseTime(first); err != nil {
		return types.GraphEdge{}, fmt.Errorf("parsing first_seen: %w", err)
	}
	if e.LastSeen, err = parseTime(last); err != nil {
		return types.GraphEdge{}, fmt.Errorf("parsing last_seen: %w", err)
	}
	if e.Provenance.RetrievedAt, err = parseTime(retrieved); err != nil {
		return types.GraphEdge{}, fmt.Errorf("parsing retrieved_at: %w", err)
	}
	return e, nil
}

// queryEdges runs query and reads every row before returning, so the single
// connection is free again when the caller continues.
func queryEdges(ctx context.Context, q queryer, query string, args ...any) ([]types.GraphEdge, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	var edges []types.GraphEdge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
