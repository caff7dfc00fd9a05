package catalog

import (
	"strconv"
	"strings"
)

// Provenance tells where a unified field value came from.
type Provenance string

const (
	ProvenanceNone     Provenance = "none"
	ProvenanceA        Provenance = "a"
	ProvenanceB        Provenance = "b"
	ProvenanceAgree    Provenance = "both-agree"
	ProvenanceConflict Provenance = "both-conflict"
)

// RecordKind classifies a unified record by the sources behind it.
type RecordKind string

const (
	KindMatched RecordKind = "matched"
	KindAOnly   RecordKind = "a_only"
	KindBOnly   RecordKind = "b_only"
)

// Conflict keeps both values of a field the sources disagreed on.
type Conflict struct {
	Field     string `json:"field"`
	A         string `json:"a"`
	B         string `json:"b"`
	Displayed Source `json:"displayed"`
}

// UnifiedRecord is one row of the merged dataset.
type UnifiedRecord struct {
	Kind            RecordKind            `json:"kind"`
	GameTitle       string                `json:"game_title"`
	TitleSource     Source                `json:"title_source"`
	Fields          Fields                `json:"fields"`
	Provenance      map[string]Provenance `json:"provenance"`
	Conflicts       []Conflict            `json:"conflicts,omitempty"`
	MetacriticURL   string                `json:"metacritic_url,omitempty"`
	SteamURL        string                `json:"steam_url,omitempty"`
	MatchConfidence *float64              `json:"match_confidence"`
	CombinedScore   *float64              `json:"combined_score"`
	Reasons         *Reasons              `json:"reasons,omitempty"`
}

// Singleton reconstructs the single-source record behind a singleton.
// It reports false for matched records.
func (u UnifiedRecord) Singleton() (RawRecord, bool) {
	switch u.Kind {
	case KindAOnly:
		return RawRecord{Source: SourceA, Origin: u.MetacriticURL, Title: u.GameTitle, Fields: u.Fields}, true
	case KindBOnly:
		return RawRecord{Source: SourceB, Origin: u.SteamURL, Title: u.GameTitle, Fields: u.Fields}, true
	default:
		return RawRecord{}, false
	}
}

// HasConflicts reports whether any field was retained as a conflict.
func (u UnifiedRecord) HasConflicts() bool { return len(u.Conflicts) > 0 }

// Cell renders the named output field as display text. Absent values render
// as the empty string.
func (u UnifiedRecord) Cell(field string) string {
	f := u.Fields
	switch field {
	case FieldGameTitle:
		return u.GameTitle
	case FieldMetascore:
		return FormatNumber(f.Metascore)
	case FieldPrice:
		if f.Price == nil {
			return ""
		}
		return strconv.FormatFloat(*f.Price, 'f', 2, 64)
	case FieldReviewSummary:
		return deref(f.ReviewSummary)
	case FieldReviewCount:
		if f.ReviewCount == nil {
			return ""
		}
		return strconv.Itoa(*f.ReviewCount)
	case FieldReleaseDate:
		if f.ReleaseDate == nil {
			return ""
		}
		return f.ReleaseDate.Format(DateLayout)
	case FieldDeveloper:
		return deref(f.Developer)
	case FieldPublisher:
		return deref(f.Publisher)
	case FieldGenres:
		return FormatList(f.Genres)
	case FieldTags:
		return FormatList(f.Tags)
	case FieldPlatform:
		return deref(f.Platform)
	case FieldMetacriticURL:
		return u.MetacriticURL
	case FieldSteamURL:
		return u.SteamURL
	case FieldMatchConfidence:
		if u.MatchConfidence == nil {
			return ""
		}
		return strconv.FormatFloat(*u.MatchConfidence, 'f', 4, 64)
	case FieldCombinedScore:
		return FormatNumber(u.CombinedScore)
	}
	return ""
}

// DateLayout is the canonical date rendering.
const DateLayout = "2006-01-02"

// FormatList joins list values for display.
func FormatList(values []string) string {
	return strings.Join(values, ", ")
}

// FormatNumber renders an optional number without trailing zeros.
func FormatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
