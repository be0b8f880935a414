// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"
	"time"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// ValidateNode checks the fields every stored node must have.
func ValidateNode(n types.GraphNode) error {
	if n.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidNode)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: %q has unknown kind %q", ErrInvalidNode, n.Key, n.Kind)
	}
	return nil
}

// ValidateEdge checks the fields every stored edge must have.
func ValidateEdge(e types.GraphEdge) error {
	switch {
	case e.Source == "" || e.Target == "":
		return fmt.Errorf("%w: empty endpoint (%q -> %q)", ErrInvalidEdge, e.Source, e.Target)
	case !e.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEdge, e.Kind)
	case e.Confidence < 0 || e.Confidence > 1:
		return fmt.Errorf("%w: confidence %v outside [0, 1]", ErrInvalidEdge, e.Confidence)
	case e.EvidenceCount < 0:
		return fmt.Errorf("%w: negative evidence count %d", ErrInvalidEdge, e.EvidenceCount)
	}
	return nil
}

// MergeNode folds incoming into existing (nil when the key is new) and
// returns the node to store.
//
// Kind is immutable: a mismatch returns *UpsertConflictError and the caller
// must leave the stored node untouched. Name and dates are overwritten when
// the incoming provenance is at least as recent as the stored one; an older
// observation only fills fields that are still unknown. A nil incoming
// field never erases a known value, so partial records are safe to replay.
func MergeNode(existing *types.GraphNode, incoming types.GraphNode) (types.GraphNode, error) {
	if err := ValidateNode(incoming); err != nil {
		return types.GraphNode{}, err
	}
	if existing == nil {
		return cloneNode(incoming), nil
	}
	if existing.Kind != incoming.Kind {
		return types.GraphNode{}, &UpsertConflictError{
			Key:      existing.Key,
			Existing: existing.Kind,
			Incoming: incoming.Kind,
		}
	}

	merged := cloneNode(*existing)
	newer := !incoming.Provenance.RetrievedAt.Before(existing.Provenance.RetrievedAt)

	merged.Name = pick(merged.Name, incoming.Name, newer)
	merged.EffectiveDate = pick(merged.EffectiveDate, incoming.EffectiveDate, newer)
	merged.EnactedDate = pick(merged.EnactedDate, incoming.EnactedDate, newer)

	if newer {
		if incoming.Provenance.Source != "" {
			merged.Provenance.Source = incoming.Provenance.Source
		}
		merged.Provenance.RetrievedAt = incoming.Provenance.RetrievedAt
	} else if merged.Provenance.Source == "" {
		merged.Provenance.Source = incoming.Provenance.Source
	}
	return merged, nil
}

// pick returns the field value to keep for a nullable attribute.
func pick[T any](cur, in *T, newer bool) *T {
	if in == nil {
		return cur
	}
	if cur == nil || newer {
		v := *in
		return &v
	}
	return cur
}

// MergeEdge folds incoming into existing (nil when the edge is new) and
// returns the edge to store. Evidence accumulates, FirstSeen and LastSeen
// widen to cover both observations and confidence never decreases. The
// span and provenance of the first observation are kept.
func MergeEdge(existing *types.GraphEdge, incoming types.GraphEdge) (types.GraphEdge, error) {
	if err := ValidateEdge(incoming); err != nil {
		return types.GraphEdge{}, err
	}
	in := normalizeEdge(incoming)
	if existing == nil {
		return in, nil
	}

	merged := cloneEdge(*existing)
	merged.EvidenceCount += in.EvidenceCount
	merged.FirstSeen = earliest(merged.FirstSeen, in.FirstSeen)
	merged.LastSeen = latest(merged.LastSeen, in.LastSeen)
	merged.Confidence = max(merged.Confidence, in.Confidence)
	if merged.Span == nil {
		merged.Span = in.Span
	}
	if merged.Provenance.Source == "" {
		merged.Provenance = in.Provenance
	}
	return merged, nil
}

// normalizeEdge fills defaults on a fresh observation: at least one unit of
// evidence and a consistent first/last seen pair.
func normalizeEdge(e types.GraphEdge) types.GraphEdge {
	e = cloneEdge(e)
	if e.EvidenceCount < 1 {
		e.EvidenceCount = 1
	}
	switch {
	case e.FirstSeen.IsZero():
		e.FirstSeen = e.LastSeen
	case e.LastSeen.IsZero():
		e.LastSeen = e.FirstSeen
	}
	if e.LastSeen.Before(e.FirstSeen) {
		e.FirstSeen, e.LastSeen = e.LastSeen, e.FirstSeen
	}
	return e
}

func earliest(a, b time.Time) time.Time {
	if a.IsZero() || (!b.IsZero() && b.Before(a)) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func cloneNode(n types.GraphNode) types.GraphNode {
	if n.Name != nil {
		n.Name = types.StringPtr(*n.Name)
	}
	if n.EffectiveDate != nil {
		n.EffectiveDate = types.TimePtr(*n.EffectiveDate)
	}
	if n.EnactedDate != nil {
		n.EnactedDate = types.TimePtr(*n.EnactedDate)
	}
	return n
}

func cloneEdge(e types.GraphEdge) types.GraphEdge {
	if e.Span != nil {
		s := *e.Span
		e.Span = &s
	}
	return e
}
