package infer

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/lawgraph/pkg/types"
)

// Qualifier is a phrase that weakens a citation it precedes in the same
// clause, and the factor applied when it does.
type Qualifier struct {
	Phrase string
	Factor float64
}

// DefaultQualifiers are matched case-insensitively against the clause in
// front of each mention.
var DefaultQualifiers = []Qualifier{
	{Phrase: "as amended by", Factor: 0.8},
	{Phrase: "see also", Factor: 0.5},
	{Phrase: "repealed by", Factor: 0.4},
}

// Scorer computes edge confidence. The score of an inferred edge is
//
//	base(kind) × canonicalization confidence × qualifier × evidence
//
// clamped to [0, 1]. The evidence term is LowEvidence when a law is
// mentioned once in a text citing at least LowEvidenceMinLaws distinct
// laws, and 1 + RepeatBonus per extra mention otherwise.
type Scorer struct {
	EnactsBase float64
	AmendsBase float64
	CitesBase  float64

	Qualifiers []Qualifier

	LowEvidence        float64
	LowEvidenceMinLaws int
	RepeatBonus        float64
}

// DefaultScorer returns the documented scoring constants.
func DefaultScorer() Scorer {
	return Scorer{
		EnactsBase:         0.9,
		AmendsBase:         0.85,
		CitesBase:          0.95,
		Qualifiers:         DefaultQualifiers,
		LowEvidence:        0.9,
		LowEvidenceMinLaws: 3,
		RepeatBonus:        0.05,
	}
}

// ScorerFromConfig overrides the base scores of the default scorer with
// the non-zero values of cfg.
func ScorerFromConfig(cfg types.InferConfig) Scorer {
	s := DefaultScorer()
	if cfg.EnactsBase > 0 {
		s.EnactsBase = cfg.EnactsBase
	}
	if cfg.AmendsBase > 0 {
		s.AmendsBase = cfg.AmendsBase
	}
	if cfg.CitesBase > 0 {
		s.CitesBase = cfg.CitesBase
	}
	return s
}

// Base returns the starting confidence for an edge kind.
func (s Scorer) Base(kind types.EdgeKind) float64 {
	switch kind {
	case types.EdgeEnacts:
		return s.EnactsBase
	case types.EdgeAmends:
		return s.AmendsBase
	case types.EdgeCites:
		return s.CitesBase
	default:
		return 0
	}
}

// QualifierFactor returns the lowest factor among the qualifiers found in
// clause, or 1.0 when none is present.
func (s Scorer) QualifierFactor(clause string) float64 {
	folded := cases.Fold().String(clause)
	factor := 1.0
	for _, q := range s.Qualifiers {
		if strings.Contains(folded, cases.Fold().String(q.Phrase)) && q.Factor < factor {
			factor = q.Factor
		}
	}
	return factor
}

// Score returns the confidence of an edge of the given kind for law, in a
// text citing distinctLaws distinct laws.
func (s Scorer) Score(kind types.EdgeKind, law LawMention, distinctLaws int) float64 {
	score := s.Base(kind) * law.Citation.Confidence * law.Qualifier
	switch {
	case law.Mentions <= 1 && distinctLaws >= s.LowEvidenceMinLaws:
		score *= s.LowEvidence
	case law.Mentions > 1:
		score *= 1 + s.RepeatBonus*float64(law.Mentions-1)
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
