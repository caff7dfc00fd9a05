package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Linkage contains matching thresholds and pipeline settings.
type Linkage struct {
	MatchThreshold      float64  `toml:"match_threshold"`
	ReviewThreshold     float64  `toml:"review_threshold"`
	Strategy            string   `toml:"strategy"`
	BlockingScheme      string   `toml:"blocking_scheme"`
	Workers             int      `toml:"workers"`
	EditionKeywords     []string `toml:"edition_keywords"`
	PreservePunctuation string   `toml:"preserve_punctuation"`
}

// Scoring contains similarity weights and adjustments.
type Scoring struct {
	TokenSetWeight      float64 `toml:"token_set_weight"`
	EditDistanceWeight  float64 `toml:"edit_distance_weight"`
	YearMatchBonus      float64 `toml:"year_match_bonus"`
	YearMismatchPenalty float64 `toml:"year_mismatch_penalty"`
	EditionMatchBonus   float64 `toml:"edition_match_bonus"`
}

// Merge contains field precedence and combined score settings.
type Merge struct {
	CriticWeight float64           `toml:"critic_weight"`
	Precedence   map[string]string `toml:"precedence"`
}

// Validation contains the post-merge dataset gates.
type Validation struct {
	Enforce    bool `toml:"enforce"`
	MinRows    int  `toml:"min_rows"`
	MinMatched int  `toml:"min_matched"`
}

// Publish contains output file settings.
type Publish struct {
	Format      string `toml:"format"`
	FileName    string `toml:"file_name"`
	Timestamped bool   `toml:"timestamped"`
}

// History contains run history settings.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains logger settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for gamelink.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Linkage    Linkage    `toml:"linkage"`
	Scoring    Scoring    `toml:"scoring"`
	Merge      Merge      `toml:"merge"`
	Validation Validation `toml:"validation"`
	Publish    Publish    `toml:"publish"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gamelink.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "gamelink.db")
}

// LogPath returns the log file written alongside stderr output.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "gamelink.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
