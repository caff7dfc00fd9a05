package config

import (
	"maps"
	"slices"

	"gamelink/internal/blocking"
	"gamelink/internal/catalog"
	"gamelink/internal/merge"
	"gamelink/internal/similarity"
)

// Validate ensures the configuration is usable. Failures wrap
// catalog.ErrConfiguration and name the offending key.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateLinkage,
		c.validateScoring,
		c.validateMerge,
		c.validateValidation,
		c.validatePublish,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateLinkage() error {
	l := c.Linkage
	if err := catalog.CheckUnit("linkage.match_threshold", l.MatchThreshold); err != nil {
		return err
	}
	if err := catalog.CheckUnit("linkage.review_threshold", l.ReviewThreshold); err != nil {
		return err
	}
	if l.ReviewThreshold > l.MatchThreshold {
		return catalog.NewConfigError("linkage.review_threshold", "must not exceed linkage.match_threshold (%v > %v)", l.ReviewThreshold, l.MatchThreshold)
	}
	if _, err := catalog.ParseStrategy(l.Strategy); err != nil {
		return err
	}
	if _, err := blocking.ParseScheme(l.BlockingScheme); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	w := similarity.Weights{
		TokenSet:            s.TokenSetWeight,
		EditDistance:        s.EditDistanceWeight,
		YearMatchBonus:      s.YearMatchBonus,
		YearMismatchPenalty: s.YearMismatchPenalty,
		EditionMatchBonus:   s.EditionMatchBonus,
	}
	return w.Validate()
}

func (c *Config) validateMerge() error {
	if err := catalog.CheckUnit("merge.critic_weight", c.Merge.CriticWeight); err != nil {
		return err
	}
	for _, field := range slices.Sorted(maps.Keys(c.Merge.Precedence)) {
		if _, err := merge.ParseRule(field, c.Merge.Precedence[field]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateValidation() error {
	if c.Validation.MinRows < 0 {
		return catalog.NewConfigError("validation.min_rows", "must be >= 0")
	}
	if c.Validation.MinMatched < 0 {
		return catalog.NewConfigError("validation.min_matched", "must be >= 0")
	}
	return nil
}

func (c *Config) validatePublish() error {
	switch c.Publish.Format {
	case "csv", "json":
	default:
		return catalog.NewConfigError("publish.format", "must be csv or json (got %q)", c.Publish.Format)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return catalog.NewConfigError("logging.format", "must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return catalog.NewConfigError("logging.level", "unknown level %q", c.Logging.Level)
	}
	return nil
}
