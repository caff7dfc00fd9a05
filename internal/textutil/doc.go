// Package textutil provides small text helpers shared by the linkage stages
// and the command line.
//
// The primary use cases are:
//   - Splitting normalized keys into tokens and token sets
//   - Jaccard overlap between token sets
//   - Sanitizing file names for published datasets
package textutil
