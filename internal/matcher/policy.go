package matcher

import "gamelink/internal/catalog"

// Strategy selects the assignment algorithm.
type Strategy = catalog.Strategy

const (
	StrategyGreedy  = catalog.StrategyGreedy
	StrategyOptimal = catalog.StrategyOptimal
)

// Policy centralizes the acceptance thresholds and strategy.
type Policy struct {
	MatchThreshold  float64
	ReviewThreshold float64
	Strategy        Strategy
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MatchThreshold:  0.85,
		ReviewThreshold: 0.60,
		Strategy:        StrategyGreedy,
	}
}

// Validate rejects thresholds outside [0, 1] or a review threshold above the
// match threshold.
func (p Policy) Validate() error {
	if err := catalog.CheckUnit("linkage.match_threshold", p.MatchThreshold); err != nil {
		return err
	}
	if err := catalog.CheckUnit("linkage.review_threshold", p.ReviewThreshold); err != nil {
		return err
	}
	if p.ReviewThreshold > p.MatchThreshold {
		return catalog.NewConfigError("linkage.review_threshold", "must not exceed linkage.match_threshold (%v > %v)", p.ReviewThreshold, p.MatchThreshold)
	}
	if _, err := catalog.ParseStrategy(string(p.Strategy)); err != nil {
		return err
	}
	return nil
}

// verdict explains why a candidate is or is not eligible.
type verdict string

const (
	verdictAccept       verdict = "above_match_threshold"
	verdictReviewAccept verdict = "review_band_year_agrees"
	verdictReviewReject verdict = "review_band_no_year_agreement"
	verdictBelowReview  verdict = "below_review_threshold"
)

func (p Policy) judge(c catalog.MatchCandidate) verdict {
	switch {
	case c.Score >= p.MatchThreshold:
		return verdictAccept
	case c.Score >= p.ReviewThreshold && c.Reasons.YearsAgree():
		return verdictReviewAccept
	case c.Score >= p.ReviewThreshold:
		return verdictReviewReject
	default:
		return verdictBelowReview
	}
}

func (v verdict) eligible() bool {
	return v == verdictAccept || v == verdictReviewAccept
}

// Decide reports whether c may be assigned and names the rule that decided.
func (p Policy) Decide(c catalog.MatchCandidate) (bool, string) {
	v := p.judge(c)
	return v.eligible(), string(v)
}
