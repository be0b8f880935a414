// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// contextWindow is the number of bytes of surrounding text returned by Window.
const contextWindow = 40

// Extract returns the citation candidates found in text, in text order, with
// overlapping candidates resolved. The sequence is lazy (nothing is scanned
// until it is ranged over) and restartable: ranging twice yields the same
// matches. Extract never fails; malformed candidates are dropped.
func Extract(text string) iter.Seq[types.RawCitationMatch] {
	return func(yield func(types.RawCitationMatch) bool) {
		for _, m := range resolve(candidates(text)) {
			if !yield(m) {
				return
			}
		}
	}
}

// ExtractAll collects Extract(text) into a slice.
func ExtractAll(text string) []types.RawCitationMatch {
	return slices.Collect(Extract(text))
}

// ExtractKind yields only the matches whose kind is one of kinds. Overlap
// resolution runs over every kind first, so a Public Law inside a longer
// match of another kind is not resurrected by filtering.
func ExtractKind(text string, kinds ...types.CitationKind) iter.Seq[types.RawCitationMatch] {
	return func(yield func(types.RawCitationMatch) bool) {
		for m := range Extract(text) {
			if !slices.Contains(kinds, m.Kind) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// candidates runs every pattern over text and returns the accepted hits
// in no particular order.
func candidates(text string) []types.RawCitationMatch {
	var out []types.RawCitationMatch
	for _, p := range patterns {
		names := p.re.SubexpNames()
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			fields := make(map[string]string, len(names))
			for i, name := range names {
				if name == "" || loc[2*i] < 0 {
					continue
				}
				if v := text[loc[2*i]:loc[2*i+1]]; v != "" {
					fields[name] = v
				}
			}
			if p.accept != nil && !p.accept(text, loc[0], fields) {
				continue
			}
			out = append(out, types.RawCitationMatch{
				Kind:    p.kind,
				Text:    text[loc[0]:loc[1]],
				Span:    types.Span{Start: loc[0], End: loc[1]},
				Fields:  fields,
				Pattern: p.name,
			})
		}
	}
	return out
}

// resolve orders candidates by length descending, then start, then pattern
// priority, and keeps each one that does not overlap a candidate already
// kept. The result is in text order.
func resolve(cands []types.RawCitationMatch) []types.RawCitationMatch {
	slices.SortStableFunc(cands, func(a, b types.RawCitationMatch) int {
		return cmp.Or(
			cmp.Compare(b.Span.Len(), a.Span.Len()),
			cmp.Compare(a.Span.Start, b.Span.Start),
			cmp.Compare(priority(a.Pattern), priority(b.Pattern)),
		)
	})

	var kept []types.RawCitationMatch
	for _, c := range cands {
		if slices.ContainsFunc(kept, func(k types.RawCitationMatch) bool {
			return k.Span.Overlaps(c.Span)
		}) {
			continue
		}
		kept = append(kept, c)
	}
	slices.SortFunc(kept, func(a, b types.RawCitationMatch) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return kept
}

// Window returns up to contextWindow bytes of text on each side of span,
// with newlines flattened to spaces.
func Window(text string, span types.Span) string {
	start := max(span.Start-contextWindow, 0)
	end := min(span.End+contextWindow, len(text))
	return strings.Join(strings.Fields(text[start:end]), " ")
}

// Clause returns the text between the most recent clause boundary (";",
// newline or start of text) and span.Start. Inference reads qualifying
// phrases such as "repealed by" from it.
func Clause(text string, span types.Span) string {
	before := text[:span.Start]
	if i := strings.LastIndexAny(before, ";\n"); i >= 0 {
		before = before[i+1:]
	}
	return strings.TrimSpace(before)
}
