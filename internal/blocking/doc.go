// Package blocking groups normalized keys into blocks so that only records
// sharing a block are ever scored against each other.
//
// A record may carry several block keys (its first significant token and its
// three-character prefix under the default "multi" scheme). Pairs that share
// more than one block are attributed to the lexicographically smallest shared
// key, so the blocks partition the candidate pair space and can be scored
// independently. Pairs that share no block are never compared; that is the
// recall bound of the chosen scheme.
package blocking
