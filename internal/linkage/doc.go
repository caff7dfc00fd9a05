// Package linkage joins two catalog batches into one unified collection.
//
// An Engine runs the full pass for one pair of batches: record validation,
// field sanitizing, title normalization, blocking, per-block scoring on a
// bounded worker pool, a single sequential assignment step, and a parallel
// merge into pre-sized output slots. Output order is fixed by game title and
// source URLs, so the same inputs produce the same result for any worker
// count or input order.
//
// The engine never reads configuration files or the environment. Build an
// Options value directly or convert a loaded config with OptionsFromConfig.
package linkage
