package matcher

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"gamelink/internal/catalog"
	"gamelink/internal/logging"
)

// Matcher assigns candidates under a Policy.
type Matcher struct {
	policy Policy
	logger *slog.Logger
}

// New validates policy and returns a Matcher. A nil logger discards output.
func New(policy Policy, logger *slog.Logger) (*Matcher, error) {
	if policy.Strategy == "" {
		policy.Strategy = StrategyGreedy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{policy: policy, logger: logging.NewComponentLogger(logger, "matcher")}, nil
}

// Policy returns the matcher configuration.
func (m *Matcher) Policy() Policy { return m.policy }

// Match assigns candidates between aCount A records and bCount B records.
// Every record index appears exactly once in the result, either in a pair
// or in its source's singleton list.
func (m *Matcher) Match(candidates []catalog.MatchCandidate, aCount, bCount int) catalog.Assignment {
	eligible := make([]catalog.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.A.Index < 0 || c.A.Index >= aCount || c.B.Index < 0 || c.B.Index >= bCount {
			continue
		}
		v := m.policy.judge(c)
		if !v.eligible() {
			if v == verdictReviewReject {
				attrs := append(logging.DecisionAttrs("match_acceptance", "rejected", string(v)), logging.Candidate(c)...)
				attrs = append(attrs, logging.Reasons(c.Reasons))
				m.logger.Debug("candidate rejected", logging.Args(attrs...)...)
			}
			continue
		}
		eligible = append(eligible, c)
	}
	slices.SortStableFunc(eligible, compareCandidates)

	var pairs []catalog.MatchCandidate
	switch m.policy.Strategy {
	case StrategyOptimal:
		pairs = assignOptimal(eligible)
	default:
		pairs = assignGreedy(eligible)
	}
	for _, p := range pairs {
		v := m.policy.judge(p)
		attrs := append(logging.DecisionAttrs("match_acceptance", "accepted", string(v)), logging.Candidate(p)...)
		attrs = append(attrs, logging.Bool("review_band", v == verdictReviewAccept))
		m.logger.Debug("candidate accepted", logging.Args(attrs...)...)
	}

	return buildAssignment(pairs, aCount, bCount)
}

// assignGreedy walks eligible candidates best-first and keeps a pair when
// neither side is taken yet. Candidates must already be sorted.
func assignGreedy(sorted []catalog.MatchCandidate) []catalog.MatchCandidate {
	takenA := make(map[int]struct{})
	takenB := make(map[int]struct{})
	var pairs []catalog.MatchCandidate
	for _, c := range sorted {
		if _, ok := takenA[c.A.Index]; ok {
			continue
		}
		if _, ok := takenB[c.B.Index]; ok {
			continue
		}
		takenA[c.A.Index] = struct{}{}
		takenB[c.B.Index] = struct{}{}
		pairs = append(pairs, c)
	}
	return pairs
}

func buildAssignment(pairs []catalog.MatchCandidate, aCount, bCount int) catalog.Assignment {
	slices.SortFunc(pairs, func(x, y catalog.MatchCandidate) int {
		return cmp.Or(cmp.Compare(x.A.Index, y.A.Index), cmp.Compare(x.B.Index, y.B.Index))
	})
	matchedA := make([]bool, aCount)
	matchedB := make([]bool, bCount)
	for _, p := range pairs {
		matchedA[p.A.Index] = true
		matchedB[p.B.Index] = true
	}
	out := catalog.Assignment{Pairs: pairs}
	for i, ok := range matchedA {
		if !ok {
			out.AOnly = append(out.AOnly, i)
		}
	}
	for j, ok := range matchedB {
		if !ok {
			out.BOnly = append(out.BOnly, j)
		}
	}
	return out
}

// compareCandidates orders candidates best-first: higher score, smaller
// release-year gap, then normalized keys, origins and indexes.
func compareCandidates(x, y catalog.MatchCandidate) int {
	return cmp.Or(
		cmp.Compare(y.Score, x.Score),
		cmp.Compare(yearGap(x), yearGap(y)),
		cmp.Compare(x.A.Key, y.A.Key),
		cmp.Compare(x.B.Key, y.B.Key),
		cmp.Compare(x.A.Origin, y.A.Origin),
		cmp.Compare(x.B.Origin, y.B.Origin),
		cmp.Compare(x.A.Index, y.A.Index),
		cmp.Compare(x.B.Index, y.B.Index),
	)
}

func yearGap(c catalog.MatchCandidate) int {
	if c.Reasons.YearDelta == nil {
		return math.MaxInt
	}
	return *c.Reasons.YearDelta
}
