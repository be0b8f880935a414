package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lawgraph/pkg/types"
)

func TestExtractSurfaceForms(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		kind    types.CitationKind
		pattern string
		raw     string
		fields  map[string]string
	}{
		{
			name: "usc with section sign", text: "See 42 U.S.C. § 1395 for details.",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42 U.S.C. § 1395",
			fields: map[string]string{"title": "42", "section": "1395"},
		},
		{
			name: "usc compact", text: "under 42USC1395a,",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42USC1395a",
			fields: map[string]string{"title": "42", "section": "1395a"},
		},
		{
			name: "usc no spaces with sign", text: "42U.S.C.§1395",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42U.S.C.§1395",
			fields: map[string]string{"title": "42", "section": "1395"},
		},
		{
			name: "usc subsections", text: "42 U.S.C. 1395(a)(1) applies",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42 U.S.C. 1395(a)(1)",
			fields: map[string]string{"title": "42", "section": "1395", "subsections": "(a)(1)"},
		},
		{
			name: "usc dashed section", text: "42 U.S.C. 1395b–1",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42 U.S.C. 1395b–1",
			fields: map[string]string{"title": "42", "section": "1395b–1"},
		},
		{
			name: "usc plural range", text: "see 42 U.S.C. §§ 1395–1396.",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42 U.S.C. §§ 1395–1396",
			fields: map[string]string{"title": "42", "plural": "§§ ", "section": "1395–1396"},
		},
		{
			name: "usc et seq", text: "42 U.S.C. 1395 et seq. governs",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42 U.S.C. 1395 et seq.",
			fields: map[string]string{"title": "42", "section": "1395"},
		},
		{
			name: "usc non-breaking spaces", text: "42 U.S.C. § 1395",
			kind: types.CitationUSC, pattern: PatternUSC, raw: "42 U.S.C. § 1395",
			fields: map[string]string{"title": "42", "section": "1395"},
		},
		{
			name: "usc inverted", text: "under section 1395(b) of title 42, the",
			kind: types.CitationUSC, pattern: PatternUSCInverted, raw: "section 1395(b) of title 42",
			fields: map[string]string{"title": "42", "section": "1395", "subsections": "(b)"},
		},
		{
			name: "bare section", text: "as provided in § 1395a.",
			kind: types.CitationUSC, pattern: PatternUSCBare, raw: "§ 1395a",
			fields: map[string]string{"section": "1395a"},
		},
		{
			name: "public law abbreviated", text: "Pub. L. 89-97, title I",
			kind: types.CitationPublicLaw, pattern: PatternPublicLaw, raw: "Pub. L. 89-97",
			fields: map[string]string{"congress": "89", "number": "97"},
		},
		{
			name: "public law with No.", text: "Pub. L. No. 111-148",
			kind: types.CitationPublicLaw, pattern: PatternPublicLaw, raw: "Pub. L. No. 111-148",
			fields: map[string]string{"congress": "111", "number": "148"},
		},
		{
			name: "public law P.L.", text: "by P.L. 111-148.",
			kind: types.CitationPublicLaw, pattern: PatternPublicLaw, raw: "P.L. 111-148",
			fields: map[string]string{"congress": "111", "number": "148"},
		},
		{
			name: "public law PL", text: "PL 111-148",
			kind: types.CitationPublicLaw, pattern: PatternPublicLaw, raw: "PL 111-148",
			fields: map[string]string{"congress": "111", "number": "148"},
		},
		{
			name: "public law spelled out with en dash", text: "Public Law 89–97",
			kind: types.CitationPublicLaw, pattern: PatternPublicLaw, raw: "Public Law 89–97",
			fields: map[string]string{"congress": "89", "number": "97"},
		},
		{
			name: "public law em dash", text: "Pub. L. 89—97",
			kind: types.CitationPublicLaw, pattern: PatternPublicLaw, raw: "Pub. L. 89—97",
			fields: map[string]string{"congress": "89", "number": "97"},
		},
		{
			name: "house bill", text: "H.R. 3590 passed",
			kind: types.CitationBill, pattern: PatternBill, raw: "H.R. 3590",
			fields: map[string]string{"chamber": "H.R.", "number": "3590"},
		},
		{
			name: "house bill compact with congress", text: "HR3590 (111th Congress)",
			kind: types.CitationBill, pattern: PatternBill, raw: "HR3590 (111th Congress)",
			fields: map[string]string{"chamber": "HR", "number": "3590", "congress": "111"},
		},
		{
			name: "senate bill", text: "see S. 5678 (118th)",
			kind: types.CitationBill, pattern: PatternBill, raw: "S. 5678 (118th)",
			fields: map[string]string{"chamber": "S.", "number": "5678", "congress": "118"},
		},
		{
			name: "joint resolution", text: "H.J. Res. 114",
			kind: types.CitationBill, pattern: PatternBill, raw: "H.J. Res. 114",
			fields: map[string]string{"chamber": "H.J. Res.", "number": "114"},
		},
		{
			name: "concurrent resolution", text: "S. Con. Res. 70",
			kind: types.CitationBill, pattern: PatternBill, raw: "S. Con. Res. 70",
			fields: map[string]string{"chamber": "S. Con. Res.", "number": "70"},
		},
		{
			name: "cfr section", text: "42 CFR 405.1",
			kind: types.CitationCFR, pattern: PatternCFR, raw: "42 CFR 405.1",
			fields: map[string]string{"title": "42", "part": "405", "section": "1"},
		},
		{
			name: "cfr with sign", text: "42 C.F.R. § 405.1",
			kind: types.CitationCFR, pattern: PatternCFR, raw: "42 C.F.R. § 405.1",
			fields: map[string]string{"title": "42", "part": "405", "section": "1"},
		},
		{
			name: "cfr part", text: "42 CFR Part 405",
			kind: types.CitationCFR, pattern: PatternCFR, raw: "42 CFR Part 405",
			fields: map[string]string{"title": "42", "part": "405"},
		},
		{
			name: "statutes at large", text: "79 Stat. 286",
			kind: types.CitationStatutesAtLarge, pattern: PatternStat, raw: "79 Stat. 286",
			fields: map[string]string{"volume": "79", "page": "286"},
		},
		{
			name: "federal register", text: "78 Fed. Reg. 5566",
			kind: types.CitationFederalRegister, pattern: PatternFedReg, raw: "78 Fed. Reg. 5566",
			fields: map[string]string{"volume": "78", "page": "5566"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAll(tt.text)
			require.Len(t, got, 1, "matches: %+v", got)
			m := got[0]
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.pattern, m.Pattern)
			assert.Equal(t, tt.raw, m.Text)
			assert.Equal(t, tt.raw, tt.text[m.Span.Start:m.Span.End])
			assert.Equal(t, tt.fields, m.Fields)
		})
	}
}

func TestExtractNoFalsePositives(t *testing.T) {
	texts := []string{
		"the program received $42,000 under this section",
		"Section 42 is not a USC citation",
		"In 1965 the Congress's 5 committees met.",
		"See Brown v. Board, 347 U.S. 483 (1954).",
		"Between 2010 and 2014, 42 percent of claims were paid.",
		"Pub. L. 0-97",
		"0 U.S.C. 1395",
	}
	for _, text := range texts {
		assert.Empty(t, ExtractAll(text), "text %q", text)
	}
}

func TestExtractLongestMatchWins(t *testing.T) {
	got := ExtractAll("42 U.S.C. § 1395 and 42 C.F.R. § 405.1")
	require.Len(t, got, 2)
	assert.Equal(t, PatternUSC, got[0].Pattern)
	assert.Equal(t, "42 U.S.C. § 1395", got[0].Text)
	assert.Equal(t, PatternCFR, got[1].Pattern)
	assert.Equal(t, "42 C.F.R. § 405.1", got[1].Text)
}

func TestExtractHistoryTextOrder(t *testing.T) {
	history := "(Aug. 14, 1935, ch. 531, title XVIII, §1801, as added Pub. L. 89–97, title I, §102(a), " +
		"July 30, 1965, 79 Stat. 291; amended Pub. L. 111–148, title III, §3001, Mar. 23, 2010, 124 Stat. 353.)"

	var kinds []types.CitationKind
	var texts []string
	for m := range Extract(history) {
		kinds = append(kinds, m.Kind)
		texts = append(texts, m.Text)
	}

	assert.Equal(t, []types.CitationKind{
		types.CitationUSC, // §1801
		types.CitationPublicLaw,
		types.CitationUSC, // §102(a)
		types.CitationStatutesAtLarge,
		types.CitationPublicLaw,
		types.CitationUSC, // §3001
		types.CitationStatutesAtLarge,
	}, kinds)
	assert.Equal(t, "Pub. L. 89–97", texts[1])
	assert.Equal(t, "Pub. L. 111–148", texts[4])
}

func TestExtractIsRestartable(t *testing.T) {
	seq := Extract("Pub. L. 89-97; amended Pub. L. 111-148")
	var first, second []types.RawCitationMatch
	for m := range seq {
		first = append(first, m)
	}
	for m := range seq {
		second = append(second, m)
	}
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestExtractStopsEarly(t *testing.T) {
	n := 0
	for range Extract("Pub. L. 1-1, Pub. L. 1-2, Pub. L. 1-3") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestExtractKind(t *testing.T) {
	text := "42 U.S.C. 1395, Pub. L. 89-97, 79 Stat. 286, H.R. 6675"
	var got []string
	for m := range ExtractKind(text, types.CitationPublicLaw, types.CitationBill) {
		got = append(got, m.Text)
	}
	assert.Equal(t, []string{"Pub. L. 89-97", "H.R. 6675"}, got)
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractAll(""))
	assert.Empty(t, ExtractAll(strings.Repeat(" ", 100)))
}

func TestResolveTieBreakByPriority(t *testing.T) {
	a := types.RawCitationMatch{Pattern: PatternUSCBare, Span: types.Span{Start: 0, End: 5}}
	b := types.RawCitationMatch{Pattern: PatternUSC, Span: types.Span{Start: 0, End: 5}}
	c := types.RawCitationMatch{Pattern: PatternPublicLaw, Span: types.Span{Start: 3, End: 7}}
	d := types.RawCitationMatch{Pattern: PatternStat, Span: types.Span{Start: 5, End: 8}}

	got := resolve([]types.RawCitationMatch{a, c, d, b})
	require.Len(t, got, 2)
	assert.Equal(t, PatternUSC, got[0].Pattern)
	assert.Equal(t, PatternStat, got[1].Pattern)
}

func TestResolveLongerLaterMatchWins(t *testing.T) {
	short := types.RawCitationMatch{Pattern: PatternUSCBare, Span: types.Span{Start: 0, End: 3}}
	long := types.RawCitationMatch{Pattern: PatternUSC, Span: types.Span{Start: 2, End: 14}}
	after := types.RawCitationMatch{Pattern: PatternStat, Span: types.Span{Start: 20, End: 30}}

	got := resolve([]types.RawCitationMatch{after, short, long})
	require.Len(t, got, 2)
	assert.Equal(t, PatternUSC, got[0].Pattern)
	assert.Equal(t, PatternStat, got[1].Pattern)
}

func TestExtractSectionMarkBeforeExplicitTitle(t *testing.T) {
	got := ExtractAll("§ 5 U.S.C. 552")
	require.Len(t, got, 1)
	assert.Equal(t, PatternUSC, got[0].Pattern)
	assert.Equal(t, "5 U.S.C. 552", got[0].Text)
	assert.Equal(t, map[string]string{"title": "5", "section": "552"}, got[0].Fields)
}

func TestClause(t *testing.T) {
	text := "as added Pub. L. 89-97; repealed by Pub. L. 90-1"
	matches := ExtractAll(text)
	require.Len(t, matches, 2)
	assert.Equal(t, "as added", Clause(text, matches[0].Span))
	assert.Equal(t, "repealed by", Clause(text, matches[1].Span))
}

func TestWindow(t *testing.T) {
	text := strings.Repeat("x", 50) + " Pub. L. 89-97\nnext line " + strings.Repeat("y", 50)
	m := ExtractAll(text)
	require.Len(t, m, 1)
	w := Window(text, m[0].Span)
	assert.Contains(t, w, "Pub. L. 89-97 next line")
	assert.LessOrEqual(t, len(w), m[0].Span.Len()+2*contextWindow)
}
