package infer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lawgraph/pkg/types"
)

var fixedClock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

const medicareHistory = "(Aug. 14, 1935, ch. 531, title XVIII, §1801, as added Pub. L. 89–97, title I, " +
	"§102(a), July 30, 1965, 79 Stat. 291; amended Pub. L. 111–148, title III, §3001, Mar. 23, 2010, " +
	"124 Stat. 353; Pub. L. 111–148, title X, §10301(b), Mar. 23, 2010, 124 Stat. 927; " +
	"see also Pub. L. 117–2, title IX, Mar. 11, 2021.)"

func newTestEngine(opts ...Option) *Engine {
	return New(append([]Option{WithClock(fixedClock), WithSource("test")}, opts...)...)
}

func render(edges []types.GraphEdge) []byte {
	var b strings.Builder
	for _, e := range edges {
		fmt.Fprintf(&b, "%s %s -> %s confidence=%.4f evidence=%d span=%d-%d\n",
			e.Kind, e.Source, e.Target, e.Confidence, e.EvidenceCount, e.Span.Start, e.Span.End)
	}
	return []byte(b.String())
}

func TestInferOrderClassification(t *testing.T) {
	edges, err := newTestEngine().Infer("42 USC 1395",
		"Pub. L. 89-97; amended Pub. L. 111-148; amended Pub. L. 117-2")
	require.NoError(t, err)
	require.Len(t, edges, 3)

	want := []struct {
		source string
		kind   types.EdgeKind
	}{
		{"Pub. L. 89-97", types.EdgeEnacts},
		{"Pub. L. 111-148", types.EdgeAmends},
		{"Pub. L. 117-2", types.EdgeAmends},
	}
	for i, w := range want {
		assert.Equal(t, w.source, edges[i].Source)
		assert.Equal(t, "42 USC 1395", edges[i].Target)
		assert.Equal(t, w.kind, edges[i].Kind)
		assert.Equal(t, 1, edges[i].EvidenceCount)
		assert.Equal(t, fixedClock(), edges[i].FirstSeen)
		assert.Equal(t, fixedClock(), edges[i].LastSeen)
		assert.Equal(t, "test", edges[i].Provenance.Source)
	}
	assert.InDelta(t, 0.81, edges[0].Confidence, 1e-9)
	assert.InDelta(t, 0.765, edges[1].Confidence, 1e-9)
}

func TestInferGolden(t *testing.T) {
	edges, err := newTestEngine().Infer("42 USC 1395", medicareHistory)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "medicare_history", render(edges))
}

func TestInferIsDeterministic(t *testing.T) {
	e := newTestEngine()
	first, err := e.Infer("42 USC 1395", medicareHistory)
	require.NoError(t, err)
	second, err := e.Infer("42 USC 1395", medicareHistory)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInferCollapsesRepeats(t *testing.T) {
	edges, err := newTestEngine().Infer("42 USC 1395",
		"Pub. L. 89-97; amended Public Law 89–97; P.L. 89-97")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, types.EdgeEnacts, edges[0].Kind)
	assert.Equal(t, 1, edges[0].EvidenceCount)
	assert.InDelta(t, 0.9*1.1, edges[0].Confidence, 1e-9)
}

func TestInferIgnoresOtherKinds(t *testing.T) {
	edges, err := newTestEngine().Infer("42 USC 1395", "§102(a), 79 Stat. 291, H.R. 6675, 42 CFR 405.1")
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestInferQualifiers(t *testing.T) {
	tests := []struct {
		history string
		want    float64
	}{
		{"as amended by Pub. L. 90-1", 0.9 * 0.8},
		{"See also Pub. L. 90-1", 0.9 * 0.5},
		{"repealed by Pub. L. 90-1", 0.9 * 0.4},
		{"repealed by, see also Pub. L. 90-1", 0.9 * 0.4},
		{"repealed by Pub. L. 80-2; Pub. L. 90-1", 0.9 * 0.4},
	}
	for _, tt := range tests {
		edges, err := newTestEngine().Infer("42 USC 1395", tt.history)
		require.NoError(t, err)
		require.NotEmpty(t, edges)
		assert.InDelta(t, tt.want, edges[0].Confidence, 1e-9, tt.history)
	}
}

func TestInferReplaceableStrategy(t *testing.T) {
	allAmend := StrategyFunc(func(laws []LawMention) []types.EdgeKind {
		kinds := make([]types.EdgeKind, len(laws))
		for i := range kinds {
			kinds[i] = types.EdgeAmends
		}
		return kinds
	})
	edges, err := newTestEngine(WithStrategy(allAmend)).Infer("42 USC 1395", "Pub. L. 89-97; Pub. L. 90-1")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, types.EdgeAmends, edges[0].Kind)
	assert.Equal(t, types.EdgeAmends, edges[1].Kind)
}

func TestInferBadStrategy(t *testing.T) {
	broken := StrategyFunc(func([]LawMention) []types.EdgeKind { return nil })
	_, err := newTestEngine(WithStrategy(broken)).Infer("42 USC 1395", "Pub. L. 89-97")
	assert.Error(t, err)
}

func TestInferInvalidSection(t *testing.T) {
	for _, key := range []string{"", "Pub. L. 89-97", "42 U.S.C. 1395", "§ 1395"} {
		_, err := newTestEngine().Infer(key, "Pub. L. 89-97")
		assert.ErrorIs(t, err, ErrInvalidSection, key)
	}
}

func TestInferCitations(t *testing.T) {
	body := "The Secretary shall apply § 1395y(b) and section 1320a-7 of this title, " +
		"42 U.S.C. 1395(a), 26 U.S.C. 5000A, and 42 CFR 405.1; see also § 1395y."
	edges, err := newTestEngine().InferCitations("42 USC 1395", body)
	require.NoError(t, err)

	var targets []string
	for _, e := range edges {
		assert.Equal(t, types.EdgeCites, e.Kind)
		assert.Equal(t, "42 USC 1395", e.Source)
		assert.InDelta(t, 0.95, e.Confidence, 1e-9)
		targets = append(targets, e.Target)
	}
	assert.Equal(t, []string{"42 USC 1395y", "26 USC 5000A", "42 CFR 405.1"}, targets)
}

func TestReservedKinds(t *testing.T) {
	e := newTestEngine()
	_, err := e.InferImplements("42 CFR 405.1", "text")
	assert.ErrorIs(t, err, ErrNoInferenceRule)
	_, err = e.InferInterprets("Case 1", "text")
	assert.ErrorIs(t, err, ErrNoInferenceRule)
}

func TestScorerFromConfig(t *testing.T) {
	s := ScorerFromConfig(types.InferConfig{EnactsBase: 0.7})
	assert.Equal(t, 0.7, s.Base(types.EdgeEnacts))
	assert.Equal(t, 0.85, s.Base(types.EdgeAmends))
	assert.Zero(t, s.Base(types.EdgeSponsored))
}

func TestScoreClamped(t *testing.T) {
	s := DefaultScorer()
	law := LawMention{Mentions: 10, Qualifier: 1}
	law.Citation.Confidence = 1
	assert.Equal(t, 1.0, s.Score(types.EdgeEnacts, law, 1))
}

func TestLawsReadSourceCredit(t *testing.T) {
	laws, err := newTestEngine().Laws("42 USC 1395", medicareHistory)
	require.NoError(t, err)
	require.Len(t, laws, 3)

	want := []struct {
		key     string
		enacted time.Time
		stat    string
	}{
		{"Pub. L. 89-97", time.Date(1965, 7, 30, 0, 0, 0, 0, time.UTC), "79 Stat. 291"},
		{"Pub. L. 111-148", time.Date(2010, 3, 23, 0, 0, 0, 0, time.UTC), "124 Stat. 353"},
		{"Pub. L. 117-2", time.Date(2021, 3, 11, 0, 0, 0, 0, time.UTC), ""},
	}
	for i, w := range want {
		assert.Equal(t, w.key, laws[i].Citation.Key())
		require.NotNil(t, laws[i].Enacted, w.key)
		assert.True(t, laws[i].Enacted.Equal(w.enacted), "%s enacted %v", w.key, laws[i].Enacted)
		assert.Equal(t, w.stat, laws[i].Stat)
	}
	assert.Equal(t, 2, laws[1].Mentions)

	_, err = newTestEngine().Laws("Pub. L. 89-97", medicareHistory)
	assert.ErrorIs(t, err, ErrInvalidSection)
}

func TestLawsWithoutCredit(t *testing.T) {
	laws, err := newTestEngine().Laws("42 USC 1395", "Pub. L. 89-97; amended Pub. L. 111-148, Mayor 3, 2010")
	require.NoError(t, err)
	require.Len(t, laws, 2)
	assert.Nil(t, laws[0].Enacted)
	assert.Empty(t, laws[0].Stat)
	assert.Nil(t, laws[1].Enacted)
}

func TestParseCreditDate(t *testing.T) {
	tests := map[string]string{
		", title IX, Sept. 28, 2018, 132 Stat. 3155": "2018-09-28",
		", Aug. 8, 2005":                              "2005-08-08",
		", January 2, 1968":                           "1968-01-02",
		", June 30, 1948":                             "1948-06-30",
		", Feb. 30, 2001, Mar. 1, 2001":               "2001-03-01",
		", title I, §102(a)":                          "",
	}
	for in, want := range tests {
		got := parseCreditDate(in)
		if want == "" {
			assert.Nil(t, got, in)
			continue
		}
		require.NotNil(t, got, in)
		assert.Equal(t, want, got.Format(time.DateOnly), in)
	}
}
