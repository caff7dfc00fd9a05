package catalog

// NormalizedKey is the comparable form of a title.
type NormalizedKey struct {
	Title      string `json:"title"`
	EditionTag string `json:"edition_tag,omitempty"`
}

// Empty reports whether the key carries no comparable text.
func (k NormalizedKey) Empty() bool { return k.Title == "" }

// RecordRef points at a record inside one source batch.
type RecordRef struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Origin string `json:"origin,omitempty"`
}

// Reasons holds the sub-scores behind a similarity score.
type Reasons struct {
	TokenSet      float64 `json:"token_set"`
	EditRatio     float64 `json:"edit_ratio"`
	Text          float64 `json:"text"`
	YearAdjust    float64 `json:"year_adjust"`
	EditionAdjust float64 `json:"edition_adjust"`
	YearDelta     *int    `json:"year_delta,omitempty"`
}

// YearsAgree reports whether both records carried the same release year.
func (r Reasons) YearsAgree() bool {
	return r.YearDelta != nil && *r.YearDelta == 0
}

// MatchCandidate is a scored (A, B) pair produced within a block.
type MatchCandidate struct {
	A       RecordRef `json:"a"`
	B       RecordRef `json:"b"`
	Score   float64   `json:"score"`
	Reasons Reasons   `json:"reasons"`
}

// Assignment is the matcher output: accepted pairs plus the records of each
// source left unmatched, by batch index.
type Assignment struct {
	Pairs []MatchCandidate
	AOnly []int
	BOnly []int
}
