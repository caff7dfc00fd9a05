package main

import "gamelink/internal/catalog"

const (
	exitFailure    = 1
	exitConfig     = 2
	exitValidation = 3
)

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch catalog.Kind(err) {
	case "configuration":
		return exitConfig
	case "validation":
		return exitValidation
	default:
		return exitFailure
	}
}
