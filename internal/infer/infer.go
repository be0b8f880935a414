// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package infer derives typed, confidence-scored relationships between a
// USC section and the laws cited in its legislative history. It performs
// no I/O; callers upsert the returned edges into a graph repository.
package infer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lawgraph/internal/canon"
	"github.com/pdiddy/lawgraph/internal/extract"
	"github.com/pdiddy/lawgraph/pkg/types"
)

var (
	// ErrInvalidSection is returned when the section key is not a complete
	// canonical USC key.
	ErrInvalidSection = errors.New("invalid section key")

	// ErrNoInferenceRule is returned for relation kinds that are reserved
	// in the graph model but have no inference rule yet.
	ErrNoInferenceRule = errors.New("no inference rule for relation kind")
)

// Engine infers edges from history and body text. It is safe for
// concurrent use; all state is fixed at construction.
type Engine struct {
	strategy Strategy
	scorer   Scorer
	now      func() time.Time
	source   string
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy replaces the FirstEnacts ordering heuristic.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// WithScorer replaces the default confidence scorer.
func WithScorer(s Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithClock sets the time source used for FirstSeen and LastSeen.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSource sets the provenance source recorded on every edge.
func WithSource(source string) Option {
	return func(e *Engine) { e.source = source }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine using FirstEnacts and DefaultScorer unless
// overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategy: FirstEnacts,
		scorer:   DefaultScorer(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Infer classifies every distinct Public Law cited in history as ENACTS
// or AMENDS relative to sectionKey. Edges point from the law to the
// section and come back in first-mention order. Each edge carries one
// unit of evidence; merging across runs is the repository's job.
func (e *Engine) Infer(sectionKey, history string) ([]types.GraphEdge, error) {
	section, err := parseSection(sectionKey)
	if err != nil {
		return nil, err
	}

	laws := collectLaws(history, canon.Context{Title: section.Title}, e.scorer)
	if len(laws) == 0 {
		return nil, nil
	}

	kinds := e.strategy.Classify(laws)
	if len(kinds) != len(laws) {
		return nil, fmt.Errorf("strategy returned %d kinds for %d laws", len(kinds), len(laws))
	}

	ts := e.now()
	edges := make([]types.GraphEdge, 0, len(laws))
	for i, law := range laws {
		span := law.Citation.Raw.Span
		edges = append(edges, types.GraphEdge{
			Source:        law.Citation.Key(),
			Target:        sectionKey,
			Kind:          kinds[i],
			Confidence:    e.scorer.Score(kinds[i], law, len(laws)),
			EvidenceCount: 1,
			FirstSeen:     ts,
			LastSeen:      ts,
			Span:          &span,
			Provenance:    types.Provenance{Source: e.source, RetrievedAt: ts},
		})
	}

	e.logger.Debug("inferred history edges",
		zap.String("section", sectionKey),
		zap.Int("laws", len(laws)),
		zap.Int("edges", len(edges)),
	)
	return edges, nil
}

// Laws returns the distinct Public Laws cited in history, in order of
// first mention, with the approval date and Statutes at Large locator read
// from each law's source credit segment.
func (e *Engine) Laws(sectionKey, history string) ([]LawMention, error) {
	section, err := parseSection(sectionKey)
	if err != nil {
		return nil, err
	}
	return collectLaws(history, canon.Context{Title: section.Title}, e.scorer), nil
}

// collectLaws canonicalizes the Public Law citations of text and collapses
// repeats, keeping the order of first mention.
func collectLaws(text string, ctx canon.Context, scorer Scorer) []LawMention {
	matches := slices.Collect(extract.ExtractKind(text, types.CitationPublicLaw))

	var laws []LawMention
	index := make(map[string]int)
	for i, m := range matches {
		res := canon.Canonicalize(m, ctx)
		key := res.Key()
		if key == "" {
			continue
		}
		next := len(text)
		if i+1 < len(matches) {
			next = matches[i+1].Span.Start
		}
		seg := creditSegment(text, m.Span, next)
		enacted, stat := parseCreditDate(seg), parseCreditStat(seg)

		q := scorer.QualifierFactor(extract.Clause(text, m.Span))
		if j, ok := index[key]; ok {
			law := &laws[j]
			law.Mentions++
			law.Qualifier = min(law.Qualifier, q)
			if law.Enacted == nil {
				law.Enacted = enacted
			}
			if law.Stat == "" {
				law.Stat = stat
			}
			continue
		}
		index[key] = len(laws)
		laws = append(laws, LawMention{
			Citation:  res,
			Position:  len(laws),
			Mentions:  1,
			Qualifier: q,
			Enacted:   enacted,
			Stat:      stat,
		})
	}
	return laws
}

// InferCitations emits a CITES edge from sectionKey to every distinct USC
// or CFR provision cited in body. Bare "§ N" references resolve against
// the section's own title. Self-citations are skipped.
func (e *Engine) InferCitations(sectionKey, body string) ([]types.GraphEdge, error) {
	section, err := parseSection(sectionKey)
	if err != nil {
		return nil, err
	}
	self := section.WithoutSubsections().Key()

	ts := e.now()
	var edges []types.GraphEdge
	seen := make(map[string]bool)
	ctx := canon.Context{Title: section.Title}
	for m := range extract.ExtractKind(body, types.CitationUSC, types.CitationCFR) {
		res := canon.Canonicalize(m, ctx)
		target := res.Citation.WithoutSubsections().Key()
		if target == "" || target == self || seen[target] {
			continue
		}
		seen[target] = true
		span := m.Span
		edges = append(edges, types.GraphEdge{
			Source:        self,
			Target:        target,
			Kind:          types.EdgeCites,
			Confidence:    clamp(e.scorer.Base(types.EdgeCites) * res.Confidence),
			EvidenceCount: 1,
			FirstSeen:     ts,
			LastSeen:      ts,
			Span:          &span,
			Provenance:    types.Provenance{Source: e.source, RetrievedAt: ts},
		})
	}

	e.logger.Debug("inferred citation edges",
		zap.String("section", sectionKey),
		zap.Int("edges", len(edges)),
	)
	return edges, nil
}

// InferImplements is reserved for regulation-to-statute links.
func (e *Engine) InferImplements(string, string) ([]types.GraphEdge, error) {
	return nil, fmt.Errorf("%s: %w", types.EdgeImplements, ErrNoInferenceRule)
}

// InferInterprets is reserved for case-to-statute links.
func (e *Engine) InferInterprets(string, string) ([]types.GraphEdge, error) {
	return nil, fmt.Errorf("%s: %w", types.EdgeInterprets, ErrNoInferenceRule)
}

func parseSection(key string) (types.CanonicalCitation, error) {
	c, err := canon.Parse(key)
	if err != nil {
		return types.CanonicalCitation{}, fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}
	if c.Kind != types.CitationUSC {
		return types.CanonicalCitation{}, fmt.Errorf("%w: %q is a %s citation", ErrInvalidSection, key, c.Kind)
	}
	return c, nil
}
