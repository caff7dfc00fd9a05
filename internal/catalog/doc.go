// Package catalog defines the record model shared by every linkage stage.
//
// Raw records arrive from two catalogs: source A carries critic data
// (metascore, platform, genres) and source B carries storefront data (price,
// review summary, review count, tags). Optional attributes are pointers or nil
// slices so absence stays distinct from empty text. Unified records hold the
// merged display values together with per-field provenance and any conflicts
// the merge step retained.
//
// The package also owns the error taxonomy: ErrMalformedInput for records that
// cannot take part in linkage, ErrUnparsableField for values that are present
// but unusable, and ErrConfiguration for invalid engine settings.
package catalog
