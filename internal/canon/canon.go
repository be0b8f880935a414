// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package canon turns raw citation matches into canonical citations whose
// keys identify a legal instrument regardless of how it was written.
package canon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/lawgraph/internal/extract"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// Confidence assigned to a citation that could not be completed from its own
// text. It is never guessed; the caller must supply Context.
const (
	NeedsContextUSC  = 0.5
	NeedsContextBill = 0.6
)

// ErrNotCanonical is returned by Parse for input that is not a canonical key.
var ErrNotCanonical = errors.New("not a canonical citation key")

// chambers maps case-folded, dot-free chamber spellings to canonical codes.
var chambers = map[string]string{
	"hr":      types.ChamberHR,
	"s":       types.ChamberS,
	"hjres":   types.ChamberHJRes,
	"sjres":   types.ChamberSJRes,
	"hconres": types.ChamberHConRes,
	"sconres": types.ChamberSConRes,
	"hres":    types.ChamberHRes,
	"sres":    types.ChamberSRes,
}

// Context describes the document a citation appears in. Zero fields are
// unknown.
type Context struct {
	// Title is the USC title of the surrounding section; it completes bare
	// "§ 1395a" references.
	Title int

	// Congress completes bill citations written without a congress suffix.
	Congress int
}

// Result is the outcome of canonicalizing one raw match.
type Result struct {
	Citation types.CanonicalCitation

	// Confidence is 1.0 for a citation fully determined by its text (or by
	// its text plus Context), lower when a required field is missing, and 0
	// when the match could not be read at all.
	Confidence float64

	// NeedsContext is set when a required field is missing and Context did
	// not supply it. Citation.Key() is "" in that case.
	NeedsContext bool

	// Raw is the match that produced the result.
	Raw types.RawCitationMatch
}

// Key returns the canonical key, or "" when the citation is incomplete.
func (r Result) Key() string { return r.Citation.Key() }

// Canonicalize normalizes raw into a CanonicalCitation. It never fails: an
// unreadable match yields confidence 0 and an incomplete citation.
func Canonicalize(raw types.RawCitationMatch, ctx Context) Result {
	res := Result{Raw: raw, Citation: types.CanonicalCitation{Kind: raw.Kind}}
	c := &res.Citation

	switch raw.Kind {
	case types.CitationUSC:
		c.Section = normalizeSection(raw.Field("section"), raw.Field("plural") != "")
		c.Subsections = normalizeSubsections(raw.Field("subsections"))
		c.Title = atoi(raw.Field("title"))
		if c.Title == 0 && raw.Field("title") == "" {
			c.Title = ctx.Title
		}
		if c.Title == 0 && c.Section != "" {
			res.NeedsContext = true
			res.Confidence = NeedsContextUSC
			return res
		}

	case types.CitationPublicLaw:
		c.Congress = atoi(raw.Field("congress"))
		c.Number = atoi(raw.Field("number"))

	case types.CitationBill:
		c.Chamber = chambers[fold(strings.ReplaceAll(compact(raw.Field("chamber")), ".", ""))]
		c.Number = atoi(raw.Field("number"))
		c.Congress = atoi(raw.Field("congress"))
		if c.Congress == 0 && raw.Field("congress") == "" {
			c.Congress = ctx.Congress
		}
		if c.Congress == 0 && c.Chamber != "" && c.Number > 0 {
			res.NeedsContext = true
			res.Confidence = NeedsContextBill
			return res
		}

	case types.CitationCFR:
		c.Title = atoi(raw.Field("title"))
		c.Part = atoi(raw.Field("part"))
		if s := raw.Field("section"); s != "" {
			c.Section = trimZeros(compact(s))
		}

	case types.CitationStatutesAtLarge, types.CitationFederalRegister:
		c.Volume = atoi(raw.Field("volume"))
		c.Page = atoi(raw.Field("page"))
	}

	if c.Complete() {
		res.Confidence = 1.0
	}
	return res
}

// CanonicalizeString extracts the first citation in s and canonicalizes it.
// ok is false when s contains no citation.
func CanonicalizeString(s string, ctx Context) (Result, bool) {
	for m := range extract.Extract(s) {
		return Canonicalize(m, ctx), true
	}
	return Result{}, false
}

// Parse reads a canonical key back into its citation. It accepts only keys
// as produced by CanonicalCitation.Key; any other spelling of a valid
// citation is rejected with ErrNotCanonical.
func Parse(key string) (types.CanonicalCitation, error) {
	res, ok := CanonicalizeString(key, Context{})
	if !ok || res.Key() != key {
		return types.CanonicalCitation{}, fmt.Errorf("parsing %q: %w", key, ErrNotCanonical)
	}
	return res.Citation, nil
}

// All canonicalizes every citation in text, in text order.
func All(text string, ctx Context) []Result {
	var out []Result
	for m := range extract.Extract(text) {
		out = append(out, Canonicalize(m, ctx))
	}
	return out
}

// Unique drops results whose key was already seen, keeping the first
// occurrence. Incomplete results are kept once per display form.
func Unique(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	var out []Result
	for _, r := range results {
		id := r.Key()
		if id == "" {
			id = "?" + string(r.Citation.Kind) + ":" + r.Citation.String()
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, r)
	}
	return out
}
