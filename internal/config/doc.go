// Package config loads, normalizes, and validates gamelink configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GAMELINK_LOG_LEVEL. The Config type centralizes every knob the linkage
// engine and CLI need: output and state directories, match thresholds,
// scoring weights, the field precedence table, and post-merge validation
// gates.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical names, and clear validation errors. The linkage
// engine itself never reads configuration; callers convert a Config into an
// explicit options value first.
package config
