// Package publish writes unified catalogs to disk.
//
// CSV output carries exactly the published columns in order; JSON output
// carries full records including provenance and conflicts. Publisher writes
// through a temp file and rename while holding an exclusive lock on the
// output directory, so concurrent runs never interleave or expose partial
// files.
package publish
