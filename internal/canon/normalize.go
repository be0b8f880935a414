// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package canon

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// dashes lists every dash variant that collapses to "-". NFKC already maps
// the non-breaking hyphen to U+2010.
var dashes = strings.NewReplacer(
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2212", "-", // minus sign
)

var subsectionRe = regexp.MustCompile(`\(\s*([A-Za-z0-9]+)\s*\)`)

// fold case-folds a keyword. A Caser carries state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// normalizeText applies NFKC, collapses dash variants to "-" and collapses
// runs of whitespace to a single space.
func normalizeText(s string) string {
	s = dashes.Replace(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// compact is normalizeText with all whitespace removed.
func compact(s string) string {
	return strings.Join(strings.Fields(normalizeText(s)), "")
}

// atoi parses a positive integer field, tolerating surrounding whitespace
// and leading zeros. It returns 0 for anything else.
func atoi(s string) int {
	n, err := strconv.Atoi(compact(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// trimZeros drops leading zeros from the digit prefix of s, keeping at
// least one digit.
func trimZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' && isDigit(s[i+1]) {
		i++
	}
	return s[i:]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// normalizeSection renders a USC section number in canonical form:
// dashes collapsed, whitespace removed, leading zeros dropped. A dashed
// number ("1395b-1", "1a-2", "1395-96") is one section unless plural is
// set, in which case it is a range and only its first section is kept.
func normalizeSection(s string, plural bool) string {
	s = compact(s)
	head, tail, dashed := strings.Cut(s, "-")
	head = trimZeros(head)
	if !dashed || tail == "" || plural {
		return head
	}
	return head + "-" + trimZeros(tail)
}

// normalizeSubsections splits "(a)(1)(A)" into [a 1 A].
func normalizeSubsections(s string) []string {
	var parts []string
	for _, m := range subsectionRe.FindAllStringSubmatch(normalizeText(s), -1) {
		parts = append(parts, m[1])
	}
	return parts
}
