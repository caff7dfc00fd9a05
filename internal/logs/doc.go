// Package logs reads the gamelink log file for the CLI.
//
// Tail returns the last N lines (or everything after a byte offset) with
// bounded memory, optionally keeping only lines that belong to one run, and
// can poll for new lines until a deadline so `gamelink logs --follow` stays
// cheap. Callers supply the context that stops polling.
package logs
