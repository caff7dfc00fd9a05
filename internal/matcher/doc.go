// Package matcher turns scored candidate pairs into a one-to-one assignment.
//
// Candidates at or above the match threshold are accepted outright.
// Candidates in the review band [review threshold, match threshold) are
// accepted only when both records carry the same release year. Everything
// below the review threshold is rejected. Records left without a partner
// become singletons.
//
// The default greedy strategy walks candidates best-first (score, then the
// smaller year gap, then normalized keys and origins) and takes a pair when
// both sides are still free. The optimal strategy solves a min-cost bipartite
// assignment over the same eligible candidates with the Hungarian method.
// Both strategies are deterministic regardless of input order.
package matcher
