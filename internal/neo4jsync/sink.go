// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package neo4jsync mirrors the citation graph into Neo4j. The SQLite store
// stays the source of truth; the mirror is rebuilt by replaying MERGE
// statements and can be synced any number of times.
package neo4jsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// DefaultBatchSize is the number of statements sent per write transaction.
const DefaultBatchSize = 500

// Source supplies the graph to mirror. *store.Store satisfies it.
type Source interface {
	AllNodes(ctx context.Context) ([]types.GraphNode, error)
	AllEdges(ctx context.Context) ([]types.GraphEdge, error)
}

// SyncResult counts what Sync pushed.
type SyncResult struct {
	Nodes int `json:"nodes" yaml:"nodes"`
	Edges int `json:"edges" yaml:"edges"`
}

// execFunc runs statements in a single write transaction.
type execFunc func(ctx context.Context, stmts []Statement) error

// Sink writes graph nodes and edges to Neo4j.
type Sink struct {
	driver    neo4j.DriverWithContext
	exec      execFunc
	batchSize int
	retries   int
	logger    *zap.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithBatchSize sets the number of statements per transaction.
func WithBatchSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithConnectRetries sets how many times Open retries an unreachable
// server (default 3; zero disables retries).
func WithConnectRetries(n int) Option {
	return func(s *Sink) { s.retries = n }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sink) { s.logger = l }
}

// Open connects to the server described by cfg and verifies connectivity.
func Open(ctx context.Context, cfg types.Neo4jConfig, opts ...Option) (*Sink, error) {
	s := newSink(nil, opts...)

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := withRetry(ctx, s.retries, s.logger, driver.VerifyConnectivity); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connecting to neo4j at %s: %w", cfg.URI, err)
	}
	s.driver = driver
	s.exec = func(ctx context.Context, stmts []Statement) error {
		return writeTx(ctx, driver, cfg.Database, stmts)
	}
	s.logger.Info("connected to neo4j", zap.String("uri", cfg.URI))
	return s, nil
}

func newSink(exec execFunc, opts ...Option) *Sink {
	s := &Sink{exec: exec, batchSize: DefaultBatchSize, retries: defaultConnectRetries, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func writeTx(ctx context.Context, driver neo4j.DriverWithContext, database string, stmts []Statement) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, st := range stmts {
			res, err := tx.Run(ctx, st.Query, st.Params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Close releases the driver.
func (s *Sink) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

// InitSchema creates the key uniqueness constraints. It is safe to call on
// every run.
func (s *Sink) InitSchema(ctx context.Context) error {
	for _, st := range SchemaStatements() {
		if err := s.exec(ctx, []Statement{st}); err != nil {
			return fmt.Errorf("creating constraint: %w", err)
		}
	}
	return nil
}

// PushNode mirrors one node.
func (s *Sink) PushNode(ctx context.Context, n types.GraphNode) error {
	st, err := NodeStatement(n)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, []Statement{st}); err != nil {
		return fmt.Errorf("pushing node %s: %w", n.Key, err)
	}
	return nil
}

// PushEdge mirrors one edge. Both endpoints must have been pushed.
func (s *Sink) PushEdge(ctx context.Context, e types.GraphEdge) error {
	st, err := EdgeStatement(e)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, []Statement{st}); err != nil {
		return fmt.Errorf("pushing edge %s -[%s]-> %s: %w", e.Source, e.Kind, e.Target, err)
	}
	return nil
}

// Sync mirrors every node of src, then every edge, in batches.
func (s *Sink) Sync(ctx context.Context, src Source) (SyncResult, error) {
	var res SyncResult

	nodes, err := src.AllNodes(ctx)
	if err != nil {
		return res, fmt.Errorf("reading nodes: %w", err)
	}
	stmts := make([]Statement, 0, len(nodes))
	for _, n := range nodes {
		st, err := NodeStatement(n)
		if err != nil {
			return res, fmt.Errorf("node %s: %w", n.Key, err)
		}
		stmts = append(stmts, st)
	}
	if err := s.execBatches(ctx, stmts); err != nil {
		return res, fmt.Errorf("pushing nodes: %w", err)
	}
	res.Nodes = len(stmts)

	edges, err := src.AllEdges(ctx)
	if err != nil {
		return res, fmt.Errorf("reading edges: %w", err)
	}
	stmts = make([]Statement, 0, len(edges))
	for _, e := range edges {
		st, err := EdgeStatement(e)
		if err != nil {
			return res, fmt.Errorf("edge %s -> %s: %w", e.Source, e.Target, err)
		}
		stmts = append(stmts, st)
	}
	if err := s.execBatches(ctx, stmts); err != nil {
		return res, fmt.Errorf("pushing edges: %w", err)
	}
	res.Edges = len(stmts)

	s.logger.Info("neo4j sync finished",
		zap.Int("nodes", res.Nodes),
		zap.Int("edges", res.Edges),
	)
	return res, nil
}

func (s *Sink) execBatches(ctx context.Context, stmts []Statement) error {
	for start := 0; start < len(stmts); start += s.batchSize {
		end := min(start+s.batchSize, len(stmts))
		if err := s.exec(ctx, stmts[start:end]); err != nil {
			return err
		}
		s.logger.Debug("neo4j batch written", zap.Int("from", start), zap.Int("to", end))
	}
	return nil
}
