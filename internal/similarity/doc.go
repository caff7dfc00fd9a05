// Package similarity scores candidate title pairs.
//
// The score blends token-set Jaccard overlap with a Levenshtein edit ratio
// (weights sum to 1.0), then applies a release-year adjustment (bonus when
// the years agree, penalty when they are more than one year apart) and a
// small edition bonus when both records carry the same edition tag. Results
// are clamped to [0, 1], symmetric in their arguments, and come with the
// sub-scores that produced them.
package similarity
