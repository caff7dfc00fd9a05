// Package merge combines a matched pair, or a lone record, into one unified
// record.
//
// Each attribute follows a precedence rule: a_only and b_only take the value
// from one catalog and ignore the other, prefer_a and prefer_b take whichever
// source has a value and, when both do and disagree, keep both in a Conflict
// entry and display the longer or more recently scraped value. Every field
// carries its provenance. The combined score blends the critic metascore with
// the storefront review summary mapped onto a 0-100 scale.
package merge
