// Package normalize turns display titles into comparable keys.
//
// A Normalizer folds accents and case, drops apostrophes, pulls edition
// markers ("Definitive Edition", "(GOTY)", "Remastered") out into an edition
// tag, reduces punctuation to token boundaries, rewrites standalone Roman
// numerals as digits, and collapses whitespace. The result is total and
// idempotent on the key text: normalizing a key again yields the same key.
// An input that is empty after normalization produces an empty key, which the
// blocking stage never places in a block.
package normalize
