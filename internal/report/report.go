// Package report aggregates unified records into run summaries and applies
// the post-merge dataset gates.
package report

import (
	"errors"
	"fmt"
	"math"

	"gamelink/internal/catalog"
)

// ErrValidation marks a unified dataset that fails a configured gate.
var ErrValidation = errors.New("dataset validation failed")

// Bucket counts matched records whose confidence lies in [Low, High).
// The last bucket includes its upper bound.
type Bucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Label renders the bucket range.
func (b Bucket) Label() string {
	closing := ")"
	if b.High >= 1 {
		closing = "]"
	}
	return fmt.Sprintf("[%.2f, %.2f%s", b.Low, b.High, closing)
}

// Summary describes one unified collection.
type Summary struct {
	Total              int      `json:"total"`
	Matched            int      `json:"matched"`
	AOnly              int      `json:"a_only"`
	BOnly              int      `json:"b_only"`
	WithConflicts      int      `json:"with_conflicts"`
	Conflicts          int      `json:"conflicts"`
	ConflictsByField   []Count  `json:"conflicts_by_field,omitempty"`
	Confidence         []Bucket `json:"confidence"`
	CombinedScored     int      `json:"combined_scored"`
	CombinedScoreMean  float64  `json:"combined_score_mean"`
	MeanConfidence     float64  `json:"mean_confidence"`
	MissingFieldCounts []Count  `json:"missing_field_counts,omitempty"`
}

// Count pairs a field name with a tally.
type Count struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

// MatchRate returns the share of unified records that are matched pairs.
func (s Summary) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

var bucketEdges = []float64{0.60, 0.70, 0.85, 0.95, 1.00}

// Summarize aggregates records. It does not modify them.
func Summarize(records []catalog.UnifiedRecord) Summary {
	s := Summary{Total: len(records)}
	for i := 0; i+1 < len(bucketEdges); i++ {
		s.Confidence = append(s.Confidence, Bucket{Low: bucketEdges[i], High: bucketEdges[i+1]})
	}

	conflicts := make(map[string]int)
	missing := make(map[string]int)
	var combinedSum, confidenceSum float64
	for _, r := range records {
		switch r.Kind {
		case catalog.KindMatched:
			s.Matched++
		case catalog.KindAOnly:
			s.AOnly++
		case catalog.KindBOnly:
			s.BOnly++
		}
		if r.HasConflicts() {
			s.WithConflicts++
		}
		for _, c := range r.Conflicts {
			s.Conflicts++
			conflicts[c.Field]++
		}
		if r.MatchConfidence != nil {
			confidenceSum += *r.MatchConfidence
			s.addConfidence(*r.MatchConfidence)
		}
		if r.CombinedScore != nil {
			s.CombinedScored++
			combinedSum += *r.CombinedScore
		}
		for _, field := range catalog.MergeFields {
			if r.Provenance[field] == catalog.ProvenanceNone || r.Provenance[field] == "" {
				missing[field]++
			}
		}
	}
	if s.CombinedScored > 0 {
		s.CombinedScoreMean = round2(combinedSum / float64(s.CombinedScored))
	}
	if s.Matched > 0 {
		s.MeanConfidence = round2(confidenceSum / float64(s.Matched))
	}
	s.ConflictsByField = counts(conflicts)
	s.MissingFieldCounts = counts(missing)
	return s
}

func (s *Summary) addConfidence(v float64) {
	for i := range s.Confidence {
		b := &s.Confidence[i]
		last := i == len(s.Confidence)-1
		if v >= b.Low && (v < b.High || (last && v <= b.High)) {
			b.Count++
			return
		}
	}
}

// counts orders tallies by merge field order.
func counts(m map[string]int) []Count {
	var out []Count
	for _, field := range catalog.MergeFields {
		if n := m[field]; n > 0 {
			out = append(out, Count{Field: field, Count: n})
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Thresholds are the post-merge dataset gates. Zero disables a gate.
type Thresholds struct {
	MinRows    int
	MinMatched int
}

// GateError reports one failed dataset gate.
type GateError struct {
	Gate string
	Have int
	Need int
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s: %d %s rows, need at least %d", ErrValidation, e.Have, e.Gate, e.Need)
}

func (e *GateError) Unwrap() error { return ErrValidation }

func (e *GateError) ErrorKind() string { return "validation" }

// Validate checks a summary against the gates. Failures are GateErrors
// wrapping ErrValidation.
func Validate(s Summary, th Thresholds) error {
	var errs []error
	if th.MinRows > 0 && s.Total < th.MinRows {
		errs = append(errs, &GateError{Gate: "unified", Have: s.Total, Need: th.MinRows})
	}
	if th.MinMatched > 0 && s.Matched < th.MinMatched {
		errs = append(errs, &GateError{Gate: "matched", Have: s.Matched, Need: th.MinMatched})
	}
	return errors.Join(errs...)
}
