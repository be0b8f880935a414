// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search answers free-text citation queries against a graph
// repository: every citation found in the query is canonicalized, resolved
// to its node, and returned with the edges around it.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/lawgraph/internal/canon"
	"github.com/pdiddy/lawgraph/internal/graph"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// ErrEmptyQuery is returned for a query with no text.
var ErrEmptyQuery = errors.New("query is empty: provide text containing a citation")

// Hit is one citation found in the query.
type Hit struct {
	// Citation is the canonical form; its key may be empty when the
	// citation needs context.
	Citation types.CanonicalCitation `json:"citation" yaml:"citation"`

	// Key is the node key looked up (USC subsections dropped). Empty when
	// the citation cannot denote a node.
	Key string `json:"key" yaml:"key"`

	// Text is the citation as written in the query.
	Text string `json:"text" yaml:"text"`

	Confidence   float64 `json:"confidence" yaml:"confidence"`
	NeedsContext bool    `json:"needs_context" yaml:"needs_context"`

	// Found reports whether Key resolved to a stored node.
	Found bool             `json:"found" yaml:"found"`
	Node  *types.GraphNode `json:"node,omitempty" yaml:"node,omitempty"`

	Outgoing []types.GraphEdge `json:"outgoing,omitempty" yaml:"outgoing,omitempty"`
	Incoming []types.GraphEdge `json:"incoming,omitempty" yaml:"incoming,omitempty"`
}

// Searcher resolves query citations in a repository.
type Searcher struct {
	repo    graph.Repository
	kinds   []types.EdgeKind
	workers int
	logger  *zap.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithKinds restricts the attached edges to the given kinds.
func WithKinds(kinds ...types.EdgeKind) Option {
	return func(s *Searcher) { s.kinds = kinds }
}

// WithWorkers bounds the number of concurrent lookups (default 4).
func WithWorkers(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// New returns a Searcher over repo.
func New(repo graph.Repository, opts ...Option) *Searcher {
	s := &Searcher{repo: repo, workers: 4, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns one hit per distinct citation in query, in query order.
// Citations that need context, or that denote no node kind (Statutes at
// Large, Federal Register), come back with Found false and no lookup.
func (s *Searcher) Search(ctx context.Context, query string, cctx canon.Context) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	results := canon.Unique(canon.All(query, cctx))
	hits := make([]Hit, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, r := range results {
		hits[i] = newHit(r)
		if hits[i].Key == "" {
			continue
		}
		g.Go(func() error {
			return s.lookup(gctx, &hits[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("search finished",
		zap.Int("citations", len(hits)),
		zap.Int("found", countFound(hits)),
	)
	return hits, nil
}

func newHit(r canon.Result) Hit {
	h := Hit{
		Citation:     r.Citation,
		Text:         r.Raw.Text,
		Confidence:   r.Confidence,
		NeedsContext: r.NeedsContext,
	}
	if r.NeedsContext {
		return h
	}
	if _, ok := types.NodeKindFor(r.Citation.Kind); ok {
		h.Key = r.Citation.WithoutSubsections().Key()
	}
	return h
}

func (s *Searcher) lookup(ctx context.Context, h *Hit) error {
	n, ok, err := s.repo.Resolve(ctx, h.Key)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", h.Key, err)
	}
	if !ok {
		return nil
	}
	h.Found = true
	h.Node = &n

	if h.Outgoing, err = s.repo.EdgesOf(ctx, h.Key, graph.Outgoing, s.kinds...); err != nil {
		return fmt.Errorf("outgoing edges of %s: %w", h.Key, err)
	}
	if h.Incoming, err = s.repo.EdgesOf(ctx, h.Key, graph.Incoming, s.kinds...); err != nil {
		return fmt.Errorf("incoming edges of %s: %w", h.Key, err)
	}
	return nil
}

func countFound(hits []Hit) int {
	n := 0
	for _, h := range hits {
		if h.Found {
			n++
		}
	}
	return n
}
