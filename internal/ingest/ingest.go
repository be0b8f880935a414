// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest drives batch ingestion of section history records into a
// graph repository: infer edges for each section, upsert every endpoint
// node and edge, and record what was ingested so unchanged records are
// skipped on the next run.
package ingest

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/lawgraph/internal/canon"
	"github.com/pdiddy/lawgraph/internal/graph"
	"github.com/pdiddy/lawgraph/internal/infer"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// StatusTracker is implemented by repositories that remember which records
// were ingested. Without one, every record is processed on every run.
type StatusTracker interface {
	IngestStatus(ctx context.Context, sourceID string) (hash string, ok bool, err error)
	MarkIngested(ctx context.Context, sourceID, hash string, at time.Time) error
}

// Summary holds counts from an ingestion run.
type Summary struct {
	Ingested int `json:"ingested" yaml:"ingested"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Failed   int `json:"failed" yaml:"failed"`

	// Nodes and Edges count upserts, not distinct records.
	Nodes int `json:"nodes" yaml:"nodes"`
	Edges int `json:"edges" yaml:"edges"`
}

// Total returns the number of records processed.
func (s Summary) Total() int {
	return s.Ingested + s.Skipped + s.Failed
}

// HasFailures reports whether any record failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Pipeline ingests section records into a repository.
type Pipeline struct {
	repo   graph.Repository
	cfg    types.IngestConfig
	scorer infer.Scorer
	now    func() time.Time
	runID  string
	logger *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig sets worker count, default source and force mode.
func WithConfig(cfg types.IngestConfig) Option {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithScorer sets the confidence scorer handed to the inference engine.
func WithScorer(s infer.Scorer) Option {
	return func(p *Pipeline) { p.scorer = s }
}

// WithClock sets the time source for edge timestamps and ingest status.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithRunID fixes the run identifier; by default each Pipeline gets a new
// UUIDv7.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a Pipeline writing to repo.
func New(repo graph.Repository, opts ...Option) *Pipeline {
	p := &Pipeline{
		repo:   repo,
		cfg:    types.DefaultConfig().Ingest,
		scorer: infer.DefaultScorer(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runID == "" {
		if id, err := uuid.NewV7(); err == nil {
			p.runID = id.String()
		} else {
			p.runID = uuid.NewString()
		}
	}
	if p.cfg.Workers < 1 {
		p.cfg.Workers = 1
	}
	return p
}

// RunID returns the identifier recorded in edge provenance for this run.
func (p *Pipeline) RunID() string { return p.runID }

// RunFile upserts the file's law records, then ingests its sections.
func (p *Pipeline) RunFile(ctx context.Context, f File, w io.Writer) (Summary, error) {
	var summary Summary
	for _, law := range f.Laws {
		if err := p.upsertLaw(ctx, law, f.Source); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", law.Key, err)
			summary.Failed++
			continue
		}
		summary.Nodes++
	}

	s, err := p.Run(ctx, f.Sections, w)
	s.Failed += summary.Failed
	s.Nodes += summary.Nodes
	return s, err
}

// Run ingests records with up to cfg.Workers sections in flight. A record
// that fails (malformed key, upsert conflict, storage error) is reported on
// w and counted; the run continues. Run returns an error only when ctx is
// cancelled.
func (p *Pipeline) Run(ctx context.Context, records []SectionRecord, w io.Writer) (Summary, error) {
	var (
		mu      sync.Mutex
		summary Summary
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	p.logger.Info("ingest started",
		zap.String("run_id", p.runID),
		zap.Int("records", len(records)),
		zap.Int("workers", p.cfg.Workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for _, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.ingestSection(gctx, rec)

			mu.Lock()
			summary.Nodes += res.nodes
			summary.Edges += res.edges
			switch {
			case err != nil:
				summary.Failed++
			case res.skipped:
				summary.Skipped++
			default:
				summary.Ingested++
			}
			mu.Unlock()

			switch {
			case err != nil:
				report("failed  %s: %v\n", rec.Key, err)
				p.logger.Warn("section failed", zap.String("run_id", p.runID), zap.String("section", rec.Key), zap.Error(err))
			case res.skipped:
				report("skipped %s\n", rec.Key)
			default:
				report("ingested %s (%d edges)\n", rec.Key, res.edges)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	fmt.Fprintf(w, "\ningested: %d, skipped: %d, failed: %d (nodes: %d, edges: %d)\n",
		summary.Ingested, summary.Skipped, summary.Failed, summary.Nodes, summary.Edges)

	p.logger.Info("ingest finished",
		zap.String("run_id", p.runID),
		zap.Int("ingested", summary.Ingested),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, err
}

type sectionResult struct {
	skipped bool
	nodes   int
	edges   int
}

func (p *Pipeline) ingestSection(ctx context.Context, rec SectionRecord) (sectionResult, error) {
	var res sectionResult

	section, err := canon.Parse(rec.Key)
	if err != nil {
		return res, err
	}
	if section.Kind != types.CitationUSC {
		return res, fmt.Errorf("%w: %q is a %s citation", infer.ErrInvalidSection, rec.Key, section.Kind)
	}

	key := section.WithoutSubsections().Key()

	tracker, tracked := p.repo.(StatusTracker)
	hash := rec.ContentHash()
	if tracked && !p.cfg.Force {
		stored, ok, err := tracker.IngestStatus(ctx, key)
		if err != nil {
			return res, err
		}
		if ok && stored == hash {
			res.skipped = true
			return res, nil
		}
	}

	source := rec.Source
	if source == "" {
		source = p.cfg.Source
	}
	retrieved := rec.RetrievedAt
	if retrieved.IsZero() {
		retrieved = p.now()
	}
	prov := types.Provenance{Source: source, RetrievedAt: retrieved}

	engine := infer.New(
		infer.WithScorer(p.scorer),
		infer.WithClock(p.now),
		infer.WithSource(source+"#"+p.runID),
		infer.WithLogger(p.logger),
	)
	history, err := engine.Infer(key, rec.History)
	if err != nil {
		return res, err
	}
	cites, err := engine.InferCitations(key, rec.Body)
	if err != nil {
		return res, err
	}
	laws, err := engine.Laws(key, rec.History)
	if err != nil {
		return res, err
	}
	enacted := make(map[string]*time.Time, len(laws))
	for _, law := range laws {
		enacted[law.Citation.Key()] = law.Enacted
	}

	node, err := graph.NodeFromCitation(section, prov)
	if err != nil {
		return res, err
	}
	if rec.Name != "" {
		node.Name = types.StringPtr(rec.Name)
	}
	node.EnactedDate = rec.EnactedDate
	if _, err := p.repo.UpsertNode(ctx, node); err != nil {
		return res, err
	}
	res.nodes++

	for _, e := range append(history, cites...) {
		other := e.Source
		if other == node.Key {
			other = e.Target
		}
		if err := p.upsertEndpoint(ctx, other, enacted[other], prov); err != nil {
			return res, err
		}
		res.nodes++

		if _, err := p.repo.UpsertEdge(ctx, e); err != nil {
			return res, err
		}
		res.edges++
	}

	if tracked {
		if err := tracker.MarkIngested(ctx, key, hash, p.now()); err != nil {
			return res, err
		}
	}
	return res, nil
}

// upsertEndpoint creates the node for key when it is missing. An existing
// node keeps its provenance and only gains attributes it does not know yet,
// such as an enactment date read from a source credit.
func (p *Pipeline) upsertEndpoint(ctx context.Context, key string, enacted *time.Time, prov types.Provenance) error {
	c, err := canon.Parse(key)
	if err != nil {
		return err
	}
	_, exists, err := p.repo.Resolve(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		prov = types.Provenance{}
	}
	n, err := graph.NodeFromCitation(c, prov)
	if err != nil {
		return err
	}
	if n.Kind == types.NodePublicLaw {
		n.EnactedDate = enacted
	}
	_, err = p.repo.UpsertNode(ctx, n)
	return err
}

func (p *Pipeline) upsertLaw(ctx context.Context, law LawRecord, source string) error {
	c, err := canon.Parse(law.Key)
	if err != nil {
		return err
	}
	if source == "" {
		source = p.cfg.Source
	}
	n, err := graph.NodeFromCitation(c, types.Provenance{Source: source, RetrievedAt: p.now()})
	if err != nil {
		return err
	}
	if law.Name != "" {
		n.Name = types.StringPtr(law.Name)
	}
	n.EnactedDate = law.EnactedDate
	_, err = p.repo.UpsertNode(ctx, n)
	return err
}
