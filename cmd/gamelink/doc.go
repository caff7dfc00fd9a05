// Package main hosts the gamelink CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into linkage runs,
// HTML extraction, one-off normalization and scoring checks, run history
// queries, and configuration scaffolding. It centralizes configuration
// resolution and logger setup so subcommands only describe their own flags
// and output.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through a command or a flag.
package main
