// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/lawgraph/internal/canon"
	"github.com/pdiddy/lawgraph/internal/extract"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// creditDateRe matches the approval date of a law in a source credit:
// "July 30, 1965", "Aug. 8, 2005", "Sept. 28, 2018".
var creditDateRe = regexp.MustCompile(
	`\b(?P<month>(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-zA-Z]*)\.?` +
		`\s+(?P<day>\d{1,2}),\s*(?P<year>\d{4})\b`)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// creditSegment returns the text a law mention owns in a source credit:
// everything after the mention up to the next ";" or the next law.
func creditSegment(text string, span types.Span, next int) string {
	seg := text[span.End:next]
	if i := strings.IndexByte(seg, ';'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}

// parseCreditDate returns the first valid date in s.
func parseCreditDate(s string) *time.Time {
	for _, m := range creditDateRe.FindAllStringSubmatch(s, -1) {
		name := strings.ToLower(m[1])
		month, ok := months[name[:3]]
		if !ok || !validMonthName(name) {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || t.Month() != month {
			continue
		}
		return &t
	}
	return nil
}

// validMonthName accepts the three-letter abbreviation, "sept" and the full
// month name, so words like "mayor" are not read as a month.
func validMonthName(name string) bool {
	if len(name) == 3 || name == "sept" || name == "june" || name == "july" {
		return true
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return true
		}
	}
	return false
}

// parseCreditStat returns the canonical key of the first Statutes at Large
// citation in s.
func parseCreditStat(s string) string {
	for m := range extract.ExtractKind(s, types.CitationStatutesAtLarge) {
		if key := canon.Canonicalize(m, canon.Context{}).Key(); key != "" {
			return key
		}
	}
	return ""
}
