// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neo4jsync

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// CommonLabel is carried by every mirrored node alongside its kind label,
// so edges can match endpoints by key without knowing their kinds.
const CommonLabel = "Citation"

// Statement is one parameterized Cypher query.
type Statement struct {
	Query  string
	Params map[string]any
}

// Label returns the node label for kind.
func Label(kind types.NodeKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("no label for node kind %q", kind)
	}
	return string(kind), nil
}

// RelType returns the relationship type for kind.
func RelType(kind types.EdgeKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("no relationship type for edge kind %q", kind)
	}
	return string(kind), nil
}

// NodeStatement mirrors n. Properties are overwritten with the stored
// values, so replaying the statement leaves the database unchanged.
func NodeStatement(n types.GraphNode) (Statement, error) {
	label, err := Label(n.Kind)
	if err != nil {
		return Statement{}, err
	}
	q := fmt.Sprintf(`MERGE (n:%s {key: $key})
SET n:%s,
    n.name = $name,
    n.effective_date = $effective_date,
    n.enacted_date = $enacted_date,
    n.source = $source,
    n.retrieved_at = $retrieved_at`, CommonLabel, label)

	return Statement{
		Query: q,
		Params: map[string]any{
			"key":            n.Key,
			"name":           optString(n.Name),
			"effective_date": optTime(n.EffectiveDate),
			"enacted_date":   optTime(n.EnactedDate),
			"source":         n.Provenance.Source,
			"retrieved_at":   n.Provenance.RetrievedAt.UTC(),
		},
	}, nil
}

// EdgeStatement mirrors e between two already mirrored nodes. Missing
// endpoints make the statement a no-op.
func EdgeStatement(e types.GraphEdge) (Statement, error) {
	rel, err := RelType(e.Kind)
	if err != nil {
		return Statement{}, err
	}
	q := fmt.Sprintf(`MATCH (s:%[1]s {key: $source_key})
MATCH (t:%[1]s {key: $target_key})
MERGE (s)-[r:%[2]s]->(t)
SET r.confidence = $confidence,
    r.evidence_count = $evidence_count,
    r.first_seen = $first_seen,
    r.last_seen = $last_seen,
    r.span_start = $span_start,
    r.span_end = $span_end,
    r.source = $source,
    r.retrieved_at = $retrieved_at`, CommonLabel, rel)

	var start, end any
	if e.Span != nil {
		start, end = int64(e.Span.Start), int64(e.Span.End)
	}
	return Statement{
		Query: q,
		Params: map[string]any{
			"source_key":     e.Source,
			"target_key":     e.Target,
			"confidence":     e.Confidence,
			"evidence_count": int64(e.EvidenceCount),
			"first_seen":     e.FirstSeen.UTC(),
			"last_seen":      e.LastSeen.UTC(),
			"span_start":     start,
			"span_end":       end,
			"source":         e.Provenance.Source,
			"retrieved_at":   e.Provenance.RetrievedAt.UTC(),
		},
	}, nil
}

// SchemaStatements returns the uniqueness constraints on node keys: one
// for the common label and one per node kind.
func SchemaStatements() []Statement {
	labels := []string{CommonLabel}
	for _, k := range types.NodeKinds {
		labels = append(labels, string(k))
	}
	stmts := make([]Statement, 0, len(labels))
	for _, l := range labels {
		stmts = append(stmts, Statement{Query: fmt.Sprintf(
			"CREATE CONSTRAINT %s_key_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.key IS UNIQUE",
			strings.ToLower(l), l,
		)})
	}
	return stmts
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
