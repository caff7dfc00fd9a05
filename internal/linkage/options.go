package linkage

import (
	"maps"
	"runtime"
	"slices"

	"gamelink/internal/blocking"
	"gamelink/internal/catalog"
	"gamelink/internal/config"
	"gamelink/internal/matcher"
	"gamelink/internal/merge"
	"gamelink/internal/normalize"
	"gamelink/internal/similarity"
)

// Options is the explicit configuration of one Engine.
type Options struct {
	Normalize normalize.Options
	Scheme    blocking.Scheme
	Weights   similarity.Weights
	Match     matcher.Policy
	Merge     merge.Policy
	// Workers bounds concurrent block scoring and merging. Zero or less
	// uses GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		Normalize: normalize.DefaultOptions(),
		Scheme:    blocking.DefaultScheme,
		Weights:   similarity.DefaultWeights(),
		Match:     matcher.DefaultPolicy(),
		Merge:     merge.DefaultPolicy(),
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Validate checks every component setting. Failures wrap catalog.ErrConfiguration.
func (o Options) Validate() error {
	if _, err := blocking.ParseScheme(string(o.Scheme)); err != nil {
		return err
	}
	if err := o.Weights.Validate(); err != nil {
		return err
	}
	if err := o.Match.Validate(); err != nil {
		return err
	}
	return o.Merge.Validate()
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// OptionsFromConfig converts a loaded configuration into engine options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, catalog.NewConfigError("config", "is nil")
	}
	scheme, err := blocking.ParseScheme(cfg.Linkage.BlockingScheme)
	if err != nil {
		return Options{}, err
	}
	strategy, err := catalog.ParseStrategy(cfg.Linkage.Strategy)
	if err != nil {
		return Options{}, err
	}

	precedence := make(map[string]merge.Rule, len(cfg.Merge.Precedence))
	for _, field := range slices.Sorted(maps.Keys(cfg.Merge.Precedence)) {
		rule, err := merge.ParseRule(field, cfg.Merge.Precedence[field])
		if err != nil {
			return Options{}, err
		}
		precedence[field] = rule
	}

	opts := Options{
		Normalize: normalize.Options{
			EditionKeywords:     cfg.Linkage.EditionKeywords,
			PreservePunctuation: cfg.Linkage.PreservePunctuation,
		},
		Scheme: scheme,
		Weights: similarity.Weights{
			TokenSet:            cfg.Scoring.TokenSetWeight,
			EditDistance:        cfg.Scoring.EditDistanceWeight,
			YearMatchBonus:      cfg.Scoring.YearMatchBonus,
			YearMismatchPenalty: cfg.Scoring.YearMismatchPenalty,
			EditionMatchBonus:   cfg.Scoring.EditionMatchBonus,
		},
		Match: matcher.Policy{
			MatchThreshold:  cfg.Linkage.MatchThreshold,
			ReviewThreshold: cfg.Linkage.ReviewThreshold,
			Strategy:        strategy,
		},
		Merge: merge.Policy{
			Precedence:   precedence,
			CriticWeight: cfg.Merge.CriticWeight,
		}.WithDefaults(),
		Workers: cfg.Linkage.Workers,
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
