// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// NodeKind is the closed set of graph node kinds.
type NodeKind string

const (
	NodeUSCSection NodeKind = "USCSection"
	NodePublicLaw  NodeKind = "PublicLaw"
	NodeBill       NodeKind = "Bill"
	NodeCFRSection NodeKind = "CFRSection"
	NodeEntity     NodeKind = "Entity"
	NodeCase       NodeKind = "Case"
)

// NodeKinds lists every node kind in declaration order.
var NodeKinds = []NodeKind{NodeUSCSection, NodePublicLaw, NodeBill, NodeCFRSection, NodeEntity, NodeCase}

// Valid reports whether k is one of the declared node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeUSCSection, NodePublicLaw, NodeBill, NodeCFRSection, NodeEntity, NodeCase:
		return true
	}
	return false
}

// NodeKindFor maps a citation family to the node kind that represents it.
// Statutes at Large and Federal Register pages are locators, not instruments,
// and have no node kind.
func NodeKindFor(k CitationKind) (NodeKind, bool) {
	switch k {
	case CitationUSC:
		return NodeUSCSection, true
	case CitationPublicLaw:
		return NodePublicLaw, true
	case CitationBill:
		return NodeBill, true
	case CitationCFR:
		return NodeCFRSection, true
	}
	return "", false
}

// EdgeKind is the closed set of directed relation kinds.
type EdgeKind string

const (
	EdgeEnacts     EdgeKind = "ENACTS"
	EdgeAmends     EdgeKind = "AMENDS"
	EdgeCites      EdgeKind = "CITES"
	EdgeImplements EdgeKind = "IMPLEMENTS"
	EdgeInterprets EdgeKind = "INTERPRETS"
	EdgeSponsored  EdgeKind = "SPONSORED"
)

// EdgeKinds lists every edge kind in declaration order. The order defines
// Rank and therefore the traversal order of EdgesOf.
var EdgeKinds = []EdgeKind{EdgeEnacts, EdgeAmends, EdgeCites, EdgeImplements, EdgeInterprets, EdgeSponsored}

// Rank returns the declaration position of k, or len(EdgeKinds) when k is
// not a declared kind.
func (k EdgeKind) Rank() int {
	for i, e := range EdgeKinds {
		if e == k {
			return i
		}
	}
	return len(EdgeKinds)
}

// Valid reports whether k is one of the declared edge kinds.
func (k EdgeKind) Valid() bool {
	return k.Rank() < len(EdgeKinds)
}

// UnknownName is the explicit marker rendered for a node whose display name
// has never been observed.
const UnknownName = "(unknown)"

// Provenance records where a fact came from and when it was retrieved.
type Provenance struct {
	// Source identifies the document or feed (e.g. "uscode.house.gov/42/1395").
	Source string `json:"source" yaml:"source"`

	// RetrievedAt is when the external layer fetched the source text.
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`
}

// GraphNode is a vertex in the citation graph. Key is always a canonical
// citation key (or an externally assigned key for Entity and Case nodes).
type GraphNode struct {
	Key  string   `json:"key" yaml:"key"`
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Name is the display name. Nil means unknown; it is never defaulted to "".
	Name *string `json:"name" yaml:"name"`

	EffectiveDate *time.Time `json:"effective_date" yaml:"effective_date"`
	EnactedDate   *time.Time `json:"enacted_date" yaml:"enacted_date"`

	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// DisplayName returns the name or UnknownName.
func (n GraphNode) DisplayName() string {
	if n.Name == nil {
		return UnknownName
	}
	return *n.Name
}

// GraphEdge is a directed relation between two node keys. The triple
// (Source, Target, Kind) is its identity.
type GraphEdge struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Kind   EdgeKind `json:"kind" yaml:"kind"`

	// Confidence is a 0-1 score for the inferred relation.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// EvidenceCount is the number of observations merged into this edge (>= 1).
	EvidenceCount int `json:"evidence_count" yaml:"evidence_count"`

	FirstSeen time.Time `json:"first_seen" yaml:"first_seen"`
	LastSeen  time.Time `json:"last_seen" yaml:"last_seen"`

	// Span locates the first observed mention in the history text, if known.
	Span *Span `json:"span,omitempty" yaml:"span,omitempty"`

	// Provenance identifies the history text that produced the edge.
	Provenance Provenance `json:"provenance" yaml:"provenance"`
}

// EdgeID is the uniqueness key of an edge.
type EdgeID struct {
	Source string
	Target string
	Kind   EdgeKind
}

// ID returns the edge's uniqueness key.
func (e GraphEdge) ID() EdgeID {
	return EdgeID{Source: e.Source, Target: e.Target, Kind: e.Kind}
}

// StringPtr returns a pointer to s; handy for literal display names.
func StringPtr(s string) *string { return &s }

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }
