// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lawgraph pipeline.
// Citation values (CanonicalCitation, RawCitationMatch) are produced by the
// extract and canon packages; graph records (GraphNode, GraphEdge) are the
// contract between the inference engine, the graph model and every storage
// adapter.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// CitationKind identifies the family a legal citation belongs to.
type CitationKind string

const (
	CitationUSC             CitationKind = "usc"
	CitationPublicLaw       CitationKind = "public_law"
	CitationBill            CitationKind = "bill"
	CitationCFR             CitationKind = "cfr"
	CitationStatutesAtLarge CitationKind = "statutes_at_large"
	CitationFederalRegister CitationKind = "federal_register"
)

// Span is a half-open byte range [Start, End) into a source text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// RawCitationMatch is an extraction-time candidate. It records what the
// extractor saw and is discarded once canonicalized.
type RawCitationMatch struct {
	// Kind is the extractor's guess at the citation family.
	Kind CitationKind `json:"kind" yaml:"kind"`

	// Text is the raw substring as it appears in the input.
	Text string `json:"text" yaml:"text"`

	// Span locates Text in the input.
	Span Span `json:"span" yaml:"span"`

	// Fields holds captured sub-fields keyed by name (title, section,
	// subsections, congress, number, chamber, part, volume, page).
	Fields map[string]string `json:"fields" yaml:"fields"`

	// Pattern names the grammar rule that produced the match.
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Field returns the captured sub-field or "" when absent.
func (m RawCitationMatch) Field(name string) string {
	return m.Fields[name]
}

// Chamber codes used in canonical bill citations.
const (
	ChamberHR      = "HR"
	ChamberS       = "S"
	ChamberHJRes   = "HJRES"
	ChamberSJRes   = "SJRES"
	ChamberHConRes = "HCONRES"
	ChamberSConRes = "SCONRES"
	ChamberHRes    = "HRES"
	ChamberSRes    = "SRES"
)

// CanonicalCitation is the normalized identity of a legal instrument.
// It is a value type; two citations are equal when their keys are equal.
// Zero-valued numeric fields mean "not known" (no congress, title 0 and
// volume 0 are not valid citations).
type CanonicalCitation struct {
	Kind CitationKind `json:"kind" yaml:"kind"`

	// Title is the USC or CFR title.
	Title int `json:"title,omitempty" yaml:"title,omitempty"`

	// Section is the USC section (e.g. "1395", "1395b-1") or CFR section
	// within a part (e.g. "1").
	Section string `json:"section,omitempty" yaml:"section,omitempty"`

	// Subsections is the USC subsection path, outermost first: a, 1, A.
	Subsections []string `json:"subsections,omitempty" yaml:"subsections,omitempty"`

	// Congress is the congress number for public laws and bills.
	Congress int `json:"congress,omitempty" yaml:"congress,omitempty"`

	// Number is the public law or bill sequence number.
	Number int `json:"number,omitempty" yaml:"number,omitempty"`

	// Chamber is the bill type code (HR, S, HJRES, ...).
	Chamber string `json:"chamber,omitempty" yaml:"chamber,omitempty"`

	// Part is the CFR part.
	Part int `json:"part,omitempty" yaml:"part,omitempty"`

	// Volume and Page address Statutes at Large and Federal Register pages.
	Volume int `json:"volume,omitempty" yaml:"volume,omitempty"`
	Page   int `json:"page,omitempty" yaml:"page,omitempty"`
}

// Complete reports whether every field required by the kind's canonical
// template is known.
func (c CanonicalCitation) Complete() bool {
	switch c.Kind {
	case CitationUSC:
		return c.Title > 0 && c.Section != ""
	case CitationPublicLaw:
		return c.Congress > 0 && c.Number > 0
	case CitationBill:
		return c.Chamber != "" && c.Number > 0 && c.Congress > 0
	case CitationCFR:
		return c.Title > 0 && c.Part > 0
	case CitationStatutesAtLarge, CitationFederalRegister:
		return c.Volume > 0 && c.Page > 0
	default:
		return false
	}
}

// WithoutSubsections returns the section-level citation. A USC section node
// is keyed on the section, never on a subsection path.
func (c CanonicalCitation) WithoutSubsections() CanonicalCitation {
	c.Subsections = nil
	return c
}

// Key returns the canonical string used as the graph node key, or "" when
// the citation is incomplete.
func (c CanonicalCitation) Key() string {
	if !c.Complete() {
		return ""
	}
	return c.format()
}

// String renders the citation for display. Incomplete citations render with
// a "?" placeholder in the missing position so they cannot be mistaken for
// a key.
func (c CanonicalCitation) String() string {
	if c.Complete() {
		return c.format()
	}
	switch c.Kind {
	case CitationUSC:
		return "? USC " + c.Section + subsectionPath(c.Subsections)
	case CitationBill:
		return fmt.Sprintf("%s %d (?)", c.Chamber, c.Number)
	default:
		return "?"
	}
}

func (c CanonicalCitation) format() string {
	switch c.Kind {
	case CitationUSC:
		return strconv.Itoa(c.Title) + " USC " + c.Section + subsectionPath(c.Subsections)
	case CitationPublicLaw:
		return fmt.Sprintf("Pub. L. %d-%d", c.Congress, c.Number)
	case CitationBill:
		return fmt.Sprintf("%s %d (%s)", c.Chamber, c.Number, Ordinal(c.Congress))
	case CitationCFR:
		if c.Section != "" {
			return fmt.Sprintf("%d CFR %d.%s", c.Title, c.Part, c.Section)
		}
		return fmt.Sprintf("%d CFR %d", c.Title, c.Part)
	case CitationStatutesAtLarge:
		return fmt.Sprintf("%d Stat. %d", c.Volume, c.Page)
	case CitationFederalRegister:
		return fmt.Sprintf("%d FR %d", c.Volume, c.Page)
	}
	return ""
}

func subsectionPath(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('(')
		b.WriteString(p)
		b.WriteByte(')')
	}
	return b.String()
}

// Ordinal renders a congress number with its English ordinal suffix
// (1st, 2nd, 3rd, 11th, 101st, 111th).
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
