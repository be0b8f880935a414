// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/pdiddy/lawgraph/pkg/types"
)

const shardCount = 32

type nodeShard struct {
	mu    sync.RWMutex
	nodes map[string]types.GraphNode
}

type edgeShard struct {
	mu    sync.RWMutex
	edges map[types.EdgeID]types.GraphEdge
}

// Memory is an in-process Repository. Nodes and edges are spread over
// lock-striped shards keyed by a hash of their identity, so upserts to the
// same key serialize while upserts to different keys mostly do not contend.
// The zero value is not usable; call NewMemory.
type Memory struct {
	nodes [shardCount]nodeShard
	edges [shardCount]edgeShard
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory graph.
func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.nodes {
		m.nodes[i].nodes = make(map[string]types.GraphNode)
		m.edges[i].edges = make(map[types.EdgeID]types.GraphEdge)
	}
	return m
}

func shardOf(parts ...string) int {
	h := fnv.New32a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return int(h.Sum32() % shardCount)
}

// UpsertNode merges n into the node stored under n.Key.
func (m *Memory) UpsertNode(_ context.Context, n types.GraphNode) (types.GraphNode, error) {
	s := &m.nodes[shardOf(n.Key)]
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *types.GraphNode
	if cur, ok := s.nodes[n.Key]; ok {
		existing = &cur
	}
	merged, err := MergeNode(existing, n)
	if err != nil {
		return types.GraphNode{}, err
	}
	s.nodes[n.Key] = merged
	return cloneNode(merged), nil
}

// UpsertEdge merges e into the edge stored under (source, target, kind).
func (m *Memory) UpsertEdge(_ context.Context, e types.GraphEdge) (types.GraphEdge, error) {
	id := e.ID()
	s := &m.edges[shardOf(id.Source, id.Target, string(id.Kind))]
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *types.GraphEdge
	if cur, ok := s.edges[id]; ok {
		existing = &cur
	}
	merged, err := MergeEdge(existing, e)
	if err != nil {
		return types.GraphEdge{}, err
	}
	s.edges[id] = merged
	return cloneEdge(merged), nil
}

// Resolve returns the node stored under exactly key.
func (m *Memory) Resolve(_ context.Context, key string) (types.GraphNode, bool, error) {
	s := &m.nodes[shardOf(key)]
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[key]
	if !ok {
		return types.GraphNode{}, false, nil
	}
	return cloneNode(n), true, nil
}

// EdgesOf returns the edges of key in direction dir, restricted to kinds
// when any are given, ordered by SortEdges.
func (m *Memory) EdgesOf(_ context.Context, key string, dir Direction, kinds ...types.EdgeKind) ([]types.GraphEdge, error) {
	var out []types.GraphEdge
	for i := range m.edges {
		s := &m.edges[i]
		s.mu.RLock()
		for _, e := range s.edges {
			if Matches(e, key, dir, kinds) {
				out = append(out, cloneEdge(e))
			}
		}
		s.mu.RUnlock()
	}
	SortEdges(out)
	return out, nil
}

// Nodes returns every node, ordered by key.
func (m *Memory) Nodes() []types.GraphNode {
	var out []types.GraphNode
	for i := range m.nodes {
		s := &m.nodes[i]
		s.mu.RLock()
		for _, n := range s.nodes {
			out = append(out, cloneNode(n))
		}
		s.mu.RUnlock()
	}
	sortNodes(out)
	return out
}

// Edges returns every edge, ordered by SortEdges.
func (m *Memory) Edges() []types.GraphEdge {
	var out []types.GraphEdge
	for i := range m.edges {
		s := &m.edges[i]
		s.mu.RLock()
		for _, e := range s.edges {
			out = append(out, cloneEdge(e))
		}
		s.mu.RUnlock()
	}
	SortEdges(out)
	return out
}
