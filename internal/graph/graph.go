// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph defines the citation graph contract: idempotent node and
// edge upserts merged by canonical identity, exact-key resolution and
// ordered edge traversal. Memory is the in-process implementation; the
// store package provides a SQLite one with the same merge semantics.
package graph

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// Repository is the graph contract used by ingestion and query layers.
// Implementations must serialize upserts to the same key and apply
// MergeNode and MergeEdge so that merge semantics do not depend on the
// backend.
type Repository interface {
	UpsertNode(ctx context.Context, n types.GraphNode) (types.GraphNode, error)
	UpsertEdge(ctx context.Context, e types.GraphEdge) (types.GraphEdge, error)
	Resolve(ctx context.Context, key string) (types.GraphNode, bool, error)
	EdgesOf(ctx context.Context, key string, dir Direction, kinds ...types.EdgeKind) ([]types.GraphEdge, error)
}

// Direction selects which edges of a node EdgesOf returns.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "out"
	case Incoming:
		return "in"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection reads "out", "in" or "both" (also "outgoing", "incoming").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "out", "outgoing":
		return Outgoing, nil
	case "in", "incoming":
		return Incoming, nil
	case "both", "":
		return Both, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want out, in or both)", s)
}

// Matches reports whether e is an edge of key in direction d whose kind is
// one of kinds (any kind when kinds is empty).
func Matches(e types.GraphEdge, key string, d Direction, kinds []types.EdgeKind) bool {
	if len(kinds) > 0 && !slices.Contains(kinds, e.Kind) {
		return false
	}
	switch d {
	case Outgoing:
		return e.Source == key
	case Incoming:
		return e.Target == key
	default:
		return e.Source == key || e.Target == key
	}
}

// SortEdges orders edges by kind rank, then target key, then source key.
func SortEdges(edges []types.GraphEdge) {
	slices.SortFunc(edges, func(a, b types.GraphEdge) int {
		return cmp.Or(
			cmp.Compare(a.Kind.Rank(), b.Kind.Rank()),
			strings.Compare(a.Target, b.Target),
			strings.Compare(a.Source, b.Source),
		)
	})
}

func sortNodes(nodes []types.GraphNode) {
	slices.SortFunc(nodes, func(a, b types.GraphNode) int {
		return strings.Compare(a.Key, b.Key)
	})
}

// NodeFromCitation builds the node a canonical citation denotes. USC nodes
// are keyed at section level. Statutes at Large and Federal Register pages
// have no node kind and are rejected with ErrInvalidNode, as are incomplete
// citations.
func NodeFromCitation(c types.CanonicalCitation, prov types.Provenance) (types.GraphNode, error) {
	kind, ok := types.NodeKindFor(c.Kind)
	if !ok {
		return types.GraphNode{}, fmt.Errorf("%w: %s citations have no node kind", ErrInvalidNode, c.Kind)
	}
	key := c.WithoutSubsections().Key()
	if key == "" {
		return types.GraphNode{}, fmt.Errorf("%w: incomplete citation %s", ErrInvalidNode, c)
	}
	return types.GraphNode{Key: key, Kind: kind, Provenance: prov}, nil
}
