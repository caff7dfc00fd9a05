package config

import (
	"gamelink/internal/blocking"
	"gamelink/internal/catalog"
	"gamelink/internal/merge"
)

const (
	defaultConfigPath          = "~/.config/gamelink/config.toml"
	defaultOutputDir           = "~/gamelink/output"
	defaultStateDir            = "~/.local/share/gamelink"
	defaultLogDir              = "~/.local/share/gamelink/logs"
	defaultMatchThreshold      = 0.85
	defaultReviewThreshold     = 0.60
	defaultStrategy            = string(catalog.StrategyGreedy)
	defaultBlockingScheme      = string(blocking.DefaultScheme)
	defaultTokenSetWeight      = 0.5
	defaultEditDistanceWeight  = 0.5
	defaultYearMatchBonus      = 0.10
	defaultYearMismatchPenalty = 0.10
	defaultEditionMatchBonus   = 0.05
	defaultCriticWeight        = 0.6
	defaultMinRows             = 1
	defaultPublishFormat       = "csv"
	defaultPublishFileName     = "videogames_final"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// defaultPrecedence returns the built-in merge table. Missing keys in a
// config file fall back to these values.
func defaultPrecedence() map[string]string {
	table := make(map[string]string)
	for field, rule := range merge.DefaultPrecedence() {
		table[field] = string(rule)
	}
	return table
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Linkage: Linkage{
			MatchThreshold:  defaultMatchThreshold,
			ReviewThreshold: defaultReviewThreshold,
			Strategy:        defaultStrategy,
			BlockingScheme:  defaultBlockingScheme,
		},
		Scoring: Scoring{
			TokenSetWeight:      defaultTokenSetWeight,
			EditDistanceWeight:  defaultEditDistanceWeight,
			YearMatchBonus:      defaultYearMatchBonus,
			YearMismatchPenalty: defaultYearMismatchPenalty,
			EditionMatchBonus:   defaultEditionMatchBonus,
		},
		Merge: Merge{
			CriticWeight: defaultCriticWeight,
			Precedence:   defaultPrecedence(),
		},
		Validation: Validation{
			MinRows: defaultMinRows,
		},
		Publish: Publish{
			Format:   defaultPublishFormat,
			FileName: defaultPublishFileName,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
