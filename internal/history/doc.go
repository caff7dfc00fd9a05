// Package history persists linkage runs in SQLite.
//
// Each run stores its inputs (path and content digest), the linkage
// configuration that mattered for the outcome, summary counts, and the
// published output path. The unified records of a run are kept as JSON rows
// so a past catalog can be inspected without re-running the engine.
//
// Schema changes bump schemaVersion in schema.go; an older database must be
// removed to adopt the new schema.
package history
