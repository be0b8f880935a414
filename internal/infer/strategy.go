// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"time"

	"github.com/pdiddy/lawgraph/internal/canon"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// LawMention is one distinct Public Law cited in a history text, with every
// mention of it collapsed together.
type LawMention struct {
	// Citation is the first canonicalized mention.
	Citation canon.Result

	// Position is the zero-based rank of the law's first mention among the
	// distinct laws of the text.
	Position int

	// Mentions is the number of times the law is cited in the text.
	Mentions int

	// Qualifier is the lowest qualifier factor found in front of any
	// mention, 1.0 when no qualifying phrase was seen.
	Qualifier float64

	// Enacted is the approval date written after the law in the source
	// credit ("July 30, 1965"), nil when none was found.
	Enacted *time.Time

	// Stat is the Statutes at Large locator of the law ("79 Stat. 291").
	Stat string
}

// Strategy classifies an ordered list of distinct laws into edge kinds.
// Classify must return exactly one kind per law, aligned by index.
type Strategy interface {
	Classify(laws []LawMention) []types.EdgeKind
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(laws []LawMention) []types.EdgeKind

// Classify calls f.
func (f StrategyFunc) Classify(laws []LawMention) []types.EdgeKind { return f(laws) }

// FirstEnacts is the default ordering heuristic: the first law cited in a
// source credit enacted the section and every later law amended it.
var FirstEnacts Strategy = StrategyFunc(func(laws []LawMention) []types.EdgeKind {
	kinds := make([]types.EdgeKind, len(laws))
	for i := range laws {
		if i == 0 {
			kinds[i] = types.EdgeEnacts
		} else {
			kinds[i] = types.EdgeAmends
		}
	}
	return kinds
})
