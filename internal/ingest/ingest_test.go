// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lawgraph/internal/graph"
	"github.com/pdiddy/lawgraph/internal/store"
	"github.com/pdiddy/lawgraph/pkg/types"
)

var fixedClock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func medicareRecord() SectionRecord {
	return SectionRecord{
		Key:     "42 USC 1395",
		Name:    "Prohibition against any Federal interference",
		History: "Pub. L. 89-97, July 30, 1965; amended Pub. L. 111-148, Mar. 23, 2010.",
		Body:    "Except as provided in 42 U.S.C. 1395y(b), nothing in this subchapter shall be construed.",
		Source:  "history.yaml",
	}
}

func newPipeline(repo graph.Repository, opts ...Option) *Pipeline {
	return New(repo, append([]Option{WithClock(fixedClock), WithRunID("run-1")}, opts...)...)
}

func TestRunBuildsGraph(t *testing.T) {
	mem := graph.NewMemory()
	var out bytes.Buffer

	s, err := newPipeline(mem).Run(context.Background(), []SectionRecord{medicareRecord()}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Ingested)
	assert.Equal(t, 3, s.Edges)
	assert.False(t, s.HasFailures())
	assert.Contains(t, out.String(), "ingested 42 USC 1395 (3 edges)")
	assert.Contains(t, out.String(), "ingested: 1, skipped: 0, failed: 0")

	keys := make(map[string]types.NodeKind)
	for _, n := range mem.Nodes() {
		keys[n.Key] = n.Kind
	}
	assert.Equal(t, map[string]types.NodeKind{
		"42 USC 1395":     types.NodeUSCSection,
		"42 USC 1395y":    types.NodeUSCSection,
		"Pub. L. 89-97":   types.NodePublicLaw,
		"Pub. L. 111-148": types.NodePublicLaw,
	}, keys)

	section, ok, err := mem.Resolve(context.Background(), "42 USC 1395")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Prohibition against any Federal interference", section.DisplayName())

	law, ok, err := mem.Resolve(context.Background(), "Pub. L. 89-97")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, law.Name)
	assert.Equal(t, types.UnknownName, law.DisplayName())
	require.NotNil(t, law.EnactedDate)
	assert.True(t, law.EnactedDate.Equal(time.Date(1965, 7, 30, 0, 0, 0, 0, time.UTC)))

	amending, ok, err := mem.Resolve(context.Background(), "Pub. L. 111-148")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, amending.EnactedDate)
	assert.True(t, amending.EnactedDate.Equal(time.Date(2010, 3, 23, 0, 0, 0, 0, time.UTC)))

	edges, err := mem.EdgesOf(context.Background(), "42 USC 1395", graph.Both)
	require.NoError(t, err)
	require.Len(t, edges, 3)
	assert.Equal(t, types.EdgeEnacts, edges[0].Kind)
	assert.Equal(t, "Pub. L. 89-97", edges[0].Source)
	assert.Equal(t, types.EdgeAmends, edges[1].Kind)
	assert.Equal(t, "Pub. L. 111-148", edges[1].Source)
	assert.Equal(t, types.EdgeCites, edges[2].Kind)
	assert.Equal(t, "42 USC 1395y", edges[2].Target)
	for _, e := range edges {
		assert.Equal(t, "history.yaml#run-1", e.Provenance.Source)
		assert.Equal(t, fixedClock(), e.FirstSeen)
	}
}

func TestRunTwiceAddsEvidenceOnly(t *testing.T) {
	mem := graph.NewMemory()
	p := newPipeline(mem)
	recs := []SectionRecord{medicareRecord()}

	_, err := p.Run(context.Background(), recs, &bytes.Buffer{})
	require.NoError(t, err)
	nodes, edges := len(mem.Nodes()), len(mem.Edges())

	_, err = p.Run(context.Background(), recs, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Len(t, mem.Nodes(), nodes)
	require.Len(t, mem.Edges(), edges)
	for _, e := range mem.Edges() {
		assert.Equal(t, 2, e.EvidenceCount, "%s %s -> %s", e.Kind, e.Source, e.Target)
	}
}

func TestExistingEndpointKeepsProvenance(t *testing.T) {
	mem := graph.NewMemory()
	ctx := context.Background()
	earlier := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	signed := time.Date(2010, 3, 22, 0, 0, 0, 0, time.UTC)
	for _, n := range []types.GraphNode{
		{
			Key:        "Pub. L. 89-97",
			Kind:       types.NodePublicLaw,
			Name:       types.StringPtr("Social Security Amendments of 1965"),
			Provenance: types.Provenance{Source: "congress.gov", RetrievedAt: earlier},
		},
		{
			Key:         "Pub. L. 111-148",
			Kind:        types.NodePublicLaw,
			EnactedDate: &signed,
			Provenance:  types.Provenance{Source: "congress.gov", RetrievedAt: earlier},
		},
	} {
		_, err := mem.UpsertNode(ctx, n)
		require.NoError(t, err)
	}

	_, err := newPipeline(mem).Run(ctx, []SectionRecord{medicareRecord()}, &bytes.Buffer{})
	require.NoError(t, err)

	law, ok, err := mem.Resolve(ctx, "Pub. L. 89-97")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "congress.gov", law.Provenance.Source)
	assert.True(t, law.Provenance.RetrievedAt.Equal(earlier))
	assert.Equal(t, "Social Security Amendments of 1965", law.DisplayName())
	require.NotNil(t, law.EnactedDate)
	assert.True(t, law.EnactedDate.Equal(time.Date(1965, 7, 30, 0, 0, 0, 0, time.UTC)))

	amending, ok, err := mem.Resolve(ctx, "Pub. L. 111-148")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "congress.gov", amending.Provenance.Source)
	require.NotNil(t, amending.EnactedDate)
	assert.True(t, amending.EnactedDate.Equal(signed))
}

func TestConflictFailsOnlyThatSection(t *testing.T) {
	mem := graph.NewMemory()
	_, err := mem.UpsertNode(context.Background(), types.GraphNode{
		Key:  "42 USC 1395",
		Kind: types.NodePublicLaw,
	})
	require.NoError(t, err)

	other := SectionRecord{
		Key:     "42 USC 1396",
		History: "Pub. L. 89-97, July 30, 1965.",
	}
	var out bytes.Buffer
	s, err := newPipeline(mem, WithConfig(types.IngestConfig{Workers: 2})).
		Run(context.Background(), []SectionRecord{medicareRecord(), other}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Ingested)
	assert.Equal(t, 1, s.Failed)
	assert.True(t, s.HasFailures())
	assert.Equal(t, 2, s.Total())
	assert.Contains(t, out.String(), "failed  42 USC 1395: ")
	assert.Contains(t, out.String(), "ingested 42 USC 1396 (1 edges)")

	n, ok, err := mem.Resolve(context.Background(), "42 USC 1395")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.NodePublicLaw, n.Kind)
}

func TestMalformedKeysFail(t *testing.T) {
	recs := []SectionRecord{
		{Key: "not a citation", History: "Pub. L. 89-97"},
		{Key: "Pub. L. 89-97", History: "Pub. L. 89-97"},
	}
	var out bytes.Buffer
	s, err := newPipeline(graph.NewMemory()).Run(context.Background(), recs, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Failed)
	assert.Zero(t, s.Ingested)
	assert.Contains(t, out.String(), "failed  not a citation")
	assert.Contains(t, out.String(), "failed  Pub. L. 89-97")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := newPipeline(graph.NewMemory()).Run(ctx, []SectionRecord{medicareRecord()}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Ingested)
}

func TestStoreSkipsUnchangedRecords(t *testing.T) {
	st, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "graph.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	recs := []SectionRecord{medicareRecord()}

	s, err := newPipeline(st).Run(ctx, recs, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Ingested)

	var out bytes.Buffer
	s, err = newPipeline(st).Run(ctx, recs, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Skipped)
	assert.Contains(t, out.String(), "skipped 42 USC 1395")

	edges, err := st.AllEdges(ctx)
	require.NoError(t, err)
	for _, e := range edges {
		assert.Equal(t, 1, e.EvidenceCount)
	}

	s, err = newPipeline(st, WithConfig(types.IngestConfig{Workers: 1, Force: true})).Run(ctx, recs, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Ingested)
	edges, err = st.AllEdges(ctx)
	require.NoError(t, err)
	for _, e := range edges {
		assert.Equal(t, 2, e.EvidenceCount)
	}

	changed := medicareRecord()
	changed.History += " Pub. L. 117-2."
	s, err = newPipeline(st).Run(ctx, []SectionRecord{changed}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Ingested)
}

func TestRunFileNamesLaws(t *testing.T) {
	enacted := time.Date(1965, 7, 30, 0, 0, 0, 0, time.UTC)
	f := File{
		Source: "history.yaml",
		Laws: []LawRecord{
			{Key: "Pub. L. 89-97", Name: "Social Security Amendments of 1965", EnactedDate: &enacted},
			{Key: "garbage"},
		},
		Sections: []SectionRecord{medicareRecord()},
	}
	mem := graph.NewMemory()
	var out bytes.Buffer
	s, err := newPipeline(mem).RunFile(context.Background(), f, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Ingested)
	assert.Equal(t, 1, s.Failed)
	assert.Contains(t, out.String(), "failed  garbage")

	law, ok, err := mem.Resolve(context.Background(), "Pub. L. 89-97")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Social Security Amendments of 1965", law.DisplayName())
	require.NotNil(t, law.EnactedDate)
	assert.True(t, law.EnactedDate.Equal(enacted))
}

func TestDecode(t *testing.T) {
	src := `source: uscode.house.gov
laws:
  - key: Pub. L. 89-97
    name: Social Security Amendments of 1965
sections:
  - key: 42 USC 1395
    history: Pub. L. 89-97
  - key: 42 USC 1396
    history: Pub. L. 89-97
    source: other
`
	f, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, f.Laws, 1)
	require.Len(t, f.Sections, 2)
	assert.Equal(t, "uscode.house.gov", f.Sections[0].Source)
	assert.Equal(t, "other", f.Sections[1].Source)

	_, err = Decode(strings.NewReader("sections:\n  - key: 42 USC 1395\n    histroy: typo\n"))
	assert.Error(t, err)

	f, err = Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Sections)
}

func TestContentHash(t *testing.T) {
	a := medicareRecord()
	b := medicareRecord()
	b.Name = "renamed"
	b.Source = "elsewhere"
	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.Len(t, a.ContentHash(), 16)

	b.Body += " more"
	assert.NotEqual(t, a.ContentHash(), b.ContentHash())
}
