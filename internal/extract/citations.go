// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scans free text for legal citation candidates.
// citations.go holds the citation grammar: one pattern per surface form,
// each requiring a kind keyword next to its numeric payload.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// Grammar fragments shared by the patterns below.
const (
	// ws matches ASCII whitespace and Unicode space separators; codified text
	// puts non-breaking spaces around § and inside "U.S.C.".
	ws = `[\s\p{Zs}]`

	// dash matches hyphen-minus, hyphen, non-breaking hyphen, figure dash,
	// en dash, em dash and minus sign.
	dash = `[-\x{2010}\x{2011}\x{2012}\x{2013}\x{2014}\x{2212}]`

	// sectionNum matches a USC section number with optional letter suffix
	// and dashed sub-number: 1395, 1395a, 5000A, 1395b-1, 300aa-10.
	sectionNum = `\d+[a-zA-Z]*(?:` + dash + `\d+[a-zA-Z]*)?`

	// subsectionChain matches (a)(1)(A) immediately after a section number.
	subsectionChain = `(?:\([A-Za-z0-9]{1,4}\))*`
)

// Pattern names, in priority order for tie-breaking equal spans.
const (
	PatternUSC         = "usc"
	PatternUSCInverted = "usc_inverted"
	PatternPublicLaw   = "public_law"
	PatternBill        = "bill"
	PatternCFR         = "cfr"
	PatternStat        = "statutes_at_large"
	PatternFedReg      = "federal_register"
	PatternUSCBare     = "usc_bare"
)

// pattern is one grammar rule. Named capture groups become RawCitationMatch
// fields; accept runs after the regex to drop structurally invalid hits.
type pattern struct {
	name   string
	kind   types.CitationKind
	re     *regexp.Regexp
	accept func(text string, start int, fields map[string]string) bool
}

var (
	// uscRe matches "42 U.S.C. § 1395", "42 USC 1395a", "42 U.S.C. 1395(a)(1)",
	// "42U.S.C.§1395", "42 U.S.C. §§ 1395-96" and "42 U.S.C. sec. 1395 et seq.".
	// The plural field is set by "§§", "sections" or "secs." and marks a
	// dashed section number as a range.
	uscRe = regexp.MustCompile(
		`\b(?P<title>\d{1,2})` + ws + `*` +
			`(?i:U\.?` + ws + `*S\.?` + ws + `*C\.?)(?:A\.?)?` + ws + `*` +
			`(?:(?P<plural>§§` + ws + `*|(?i:sections|secs\.?)` + ws + `+)|§` + ws + `*|(?i:section|sec\.?)` + ws + `+)?` +
			`(?P<section>` + sectionNum + `)` +
			`(?P<subsections>` + subsectionChain + `)` +
			`(?:` + ws + `+et` + ws + `+seq\.?)?`)

	// uscInvertedRe matches "section 1395 of title 42" and
	// "section 1395(b) of the title 42".
	uscInvertedRe = regexp.MustCompile(
		`(?i:\b(?:(?P<plural>sections)|section))` + ws + `+` +
			`(?P<section>` + sectionNum + `)` +
			`(?P<subsections>` + subsectionChain + `)` +
			ws + `+of(?:` + ws + `+the)?` + ws + `+(?i:title)` + ws + `+` +
			`(?P<title>\d{1,2})\b`)

	// uscBareRe matches a section mark with no title: "§ 1395a", "§1395(b)".
	// The result always needs context to become a key.
	uscBareRe = regexp.MustCompile(
		`(?:(?P<plural>§§)|§)` + ws + `*` +
			`(?P<section>` + sectionNum + `)` +
			`(?P<subsections>` + subsectionChain + `)`)

	// publicLawRe matches "Pub. L. 89-97", "Pub. L. No. 89-97", "P.L. 111-148",
	// "PL 111-148" and "Public Law 89–97" with any dash variant.
	publicLawRe = regexp.MustCompile(
		`(?i:\b(?:pub(?:lic)?\.?` + ws + `*l(?:aw)?\.?|p\.?` + ws + `*l\.?)(?:` + ws + `*no\.?)?)` + ws + `*` +
			`(?P<congress>\d{1,3})` + ws + `*` + dash + ws + `*` +
			`(?P<number>\d{1,4})\b`)

	// billRe matches "H.R. 3590", "HR3590", "S. 1234", "H.J. Res. 114",
	// "S. Con. Res. 70" with an optional "(111th Congress)" suffix. Chamber
	// letters are upper case so possessives like "Congress's 5" never match.
	billRe = regexp.MustCompile(
		`\b(?P<chamber>` +
			`H\.?` + ws + `*J\.?` + ws + `*(?i:res)\.?|` +
			`H\.?` + ws + `*(?i:con)\.?` + ws + `*(?i:res)\.?|` +
			`H\.?` + ws + `*(?i:res)\.?|` +
			`H\.?` + ws + `*R\.?|` +
			`S\.?` + ws + `*J\.?` + ws + `*(?i:res)\.?|` +
			`S\.?` + ws + `*(?i:con)\.?` + ws + `*(?i:res)\.?|` +
			`S\.?` + ws + `*(?i:res)\.?|` +
			`S\.?)` + ws + `*` +
			`(?P<number>\d{1,5})\b` +
			`(?:` + ws + `*\((?P<congress>\d{1,3})(?:st|nd|rd|th)?` + ws + `*(?:Congress|Cong\.?)?\))?`)

	// cfrRe matches "42 CFR 405.1", "42 C.F.R. § 405.1" and "42 CFR Part 405".
	cfrRe = regexp.MustCompile(
		`\b(?P<title>\d{1,2})` + ws + `*` +
			`(?i:C\.?` + ws + `*F\.?` + ws + `*R\.?)` + ws + `*` +
			`(?:§§?` + ws + `*|(?i:parts?|sections?|secs?\.?)` + ws + `+)?` +
			`(?P<part>\d{1,5})(?:\.(?P<section>\d+[a-zA-Z]*))?`)

	// statRe matches "79 Stat. 286" and "79 Stat 286".
	statRe = regexp.MustCompile(
		`\b(?P<volume>\d{1,3})` + ws + `*Stat\.?` + ws + `*(?P<page>\d{1,5})\b`)

	// fedRegRe matches "78 FR 5566" and "78 Fed. Reg. 5566".
	fedRegRe = regexp.MustCompile(
		`\b(?P<volume>\d{1,3})` + ws + `*(?:FR|Fed\.?` + ws + `*Reg\.?)` + ws + `*(?P<page>\d{1,6})\b`)
)

// patterns lists every grammar rule in tie-break priority order: when two
// candidates start at the same byte and have the same length, the earlier
// rule wins.
var patterns = []pattern{
	{name: PatternUSC, kind: types.CitationUSC, re: uscRe, accept: validTitle(54)},
	{name: PatternUSCInverted, kind: types.CitationUSC, re: uscInvertedRe, accept: validTitle(54)},
	{name: PatternPublicLaw, kind: types.CitationPublicLaw, re: publicLawRe, accept: positive("congress", "number")},
	{name: PatternBill, kind: types.CitationBill, re: billRe, accept: validBill},
	{name: PatternCFR, kind: types.CitationCFR, re: cfrRe, accept: cfrAccept},
	{name: PatternStat, kind: types.CitationStatutesAtLarge, re: statRe, accept: positive("volume", "page")},
	{name: PatternFedReg, kind: types.CitationFederalRegister, re: fedRegRe, accept: positive("volume", "page")},
	{name: PatternUSCBare, kind: types.CitationUSC, re: uscBareRe, accept: positive()},
}

// priority returns the tie-break rank of a pattern name.
func priority(name string) int {
	for i, p := range patterns {
		if p.name == name {
			return i
		}
	}
	return len(patterns)
}

// positive accepts a match when the named fields parse as integers > 0.
func positive(fields ...string) func(string, int, map[string]string) bool {
	return func(_ string, _ int, got map[string]string) bool {
		for _, f := range fields {
			if n, err := strconv.Atoi(got[f]); err != nil || n <= 0 {
				return false
			}
		}
		return true
	}
}

// validTitle accepts a match whose title is in 1..max.
func validTitle(max int) func(string, int, map[string]string) bool {
	return func(_ string, _ int, got map[string]string) bool {
		n, err := strconv.Atoi(got["title"])
		return err == nil && n > 0 && n <= max
	}
}

func cfrAccept(text string, start int, got map[string]string) bool {
	return validTitle(50)(text, start, got) && positive("part")(text, start, got)
}

// validBill rejects a bill number of zero, a zero congress suffix, and a
// chamber letter that continues an abbreviation chain such as "U.S. 483"
// (a Supreme Court reporter cite, not Senate bill 483).
func validBill(text string, start int, got map[string]string) bool {
	if n, err := strconv.Atoi(got["number"]); err != nil || n <= 0 {
		return false
	}
	if c, ok := got["congress"]; ok {
		if n, err := strconv.Atoi(c); err != nil || n <= 0 {
			return false
		}
	}
	return !continuesAbbreviation(text, start)
}

// continuesAbbreviation reports whether the text before start ends in a
// letter followed by a period, ignoring spaces in between.
func continuesAbbreviation(text string, start int) bool {
	before := strings.TrimRightFunc(text[:start], unicode.IsSpace)
	if !strings.HasSuffix(before, ".") {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(strings.TrimSuffix(before, "."))
	return unicode.IsLetter(r)
}
