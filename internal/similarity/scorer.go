package similarity

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"gamelink/internal/catalog"
	"gamelink/internal/textutil"
)

const weightTolerance = 1e-9

// Weights configures the scorer.
type Weights struct {
	TokenSet            float64
	EditDistance        float64
	YearMatchBonus      float64
	YearMismatchPenalty float64
	EditionMatchBonus   float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		TokenSet:            0.5,
		EditDistance:        0.5,
		YearMatchBonus:      0.10,
		YearMismatchPenalty: 0.10,
		EditionMatchBonus:   0.05,
	}
}

// Validate checks that the text weights sum to 1 and adjustments are sane.
func (w Weights) Validate() error {
	if err := catalog.CheckUnit("scoring.token_set_weight", w.TokenSet); err != nil {
		return err
	}
	if err := catalog.CheckUnit("scoring.edit_distance_weight", w.EditDistance); err != nil {
		return err
	}
	if sum := w.TokenSet + w.EditDistance; !(math.Abs(sum-1) <= weightTolerance) {
		return catalog.NewConfigError("scoring", "token_set_weight + edit_distance_weight must equal 1 (got %v)", sum)
	}
	adjustments := []struct {
		key   string
		value float64
	}{
		{"scoring.year_match_bonus", w.YearMatchBonus},
		{"scoring.year_mismatch_penalty", w.YearMismatchPenalty},
		{"scoring.edition_match_bonus", w.EditionMatchBonus},
	}
	for _, adj := range adjustments {
		if err := catalog.CheckUnit(adj.key, adj.value); err != nil {
			return err
		}
	}
	return nil
}

// Input is one side of a scored pair.
type Input struct {
	Source catalog.Source
	Ref    catalog.RecordRef
	Key    catalog.NormalizedKey
	Year   int
	// HasYear is false when the record carries no release date.
	HasYear bool
}

// Scorer computes pair similarity. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	w Weights
}

// New validates w and returns a Scorer.
func New(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{w: w}, nil
}

// Weights returns the scorer configuration.
func (s *Scorer) Weights() Weights { return s.w }

// Score compares two records from opposite sources. Arguments may be given
// in either order; the candidate always reports the A side as A.
func (s *Scorer) Score(x, y Input) catalog.MatchCandidate {
	a, b := x, y
	if a.Source == catalog.SourceB && b.Source == catalog.SourceA {
		a, b = b, a
	}
	cand := catalog.MatchCandidate{A: a.Ref, B: b.Ref}
	if a.Key.Empty() || b.Key.Empty() {
		return cand
	}

	r := catalog.Reasons{
		TokenSet:  textutil.Jaccard(a.Key.Title, b.Key.Title),
		EditRatio: EditRatio(a.Key.Title, b.Key.Title),
	}
	r.Text = s.w.TokenSet*r.TokenSet + s.w.EditDistance*r.EditRatio

	if a.HasYear && b.HasYear {
		delta := a.Year - b.Year
		if delta < 0 {
			delta = -delta
		}
		r.YearDelta = &delta
		switch {
		case delta == 0:
			r.YearAdjust = s.w.YearMatchBonus
		case delta > 1:
			r.YearAdjust = -s.w.YearMismatchPenalty
		}
	}
	if a.Key.EditionTag != "" && a.Key.EditionTag == b.Key.EditionTag {
		r.EditionAdjust = s.w.EditionMatchBonus
	}

	cand.Reasons = r
	cand.Score = clamp(r.Text + r.YearAdjust + r.EditionAdjust)
	return cand
}

// EditRatio returns 1 - distance/maxLen over runes. Two empty strings score 0.
func EditRatio(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}

// clamp maps v into [0, 1]; NaN becomes 0.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
