package catalog

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Source identifies which catalog a record came from.
type Source string

const (
	// SourceA is the critic catalog (Metacritic-style).
	SourceA Source = "a"
	// SourceB is the storefront catalog (Steam-style).
	SourceB Source = "b"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	return s == SourceA || s == SourceB
}

// RawRecord is one catalog entry as delivered by the cleaning stage.
type RawRecord struct {
	Source    Source     `json:"source"`
	Origin    string     `json:"origin,omitempty"`
	Title     string     `json:"title"`
	ScrapedAt *time.Time `json:"scraped_at,omitempty"`
	Fields    Fields     `json:"fields"`
}

// Validate reports whether the record can take part in linkage.
func (r RawRecord) Validate() error {
	if !r.Source.Valid() {
		return &RecordError{Source: r.Source, Origin: r.Origin, Reason: fmt.Sprintf("unknown source %q", r.Source)}
	}
	if strings.TrimSpace(r.Title) == "" {
		return &RecordError{Source: r.Source, Origin: r.Origin, Reason: "missing title"}
	}
	return nil
}

// Sanitize returns a copy of r whose unusable field values are cleared,
// together with one issue per cleared value.
func (r RawRecord) Sanitize() (RawRecord, []FieldIssue) {
	out := r
	out.Title = strings.TrimSpace(r.Title)
	out.Origin = strings.TrimSpace(r.Origin)
	fields, issues := r.Fields.sanitize()
	for i := range issues {
		issues[i].Source = r.Source
		issues[i].Origin = out.Origin
	}
	out.Fields = fields
	return out, issues
}

// Fields is the optional attribute set of a record. A nil pointer or nil
// slice means the attribute is absent.
type Fields struct {
	Metascore     *float64   `json:"metascore,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	ReviewSummary *string    `json:"review_summary,omitempty"`
	ReviewCount   *int       `json:"review_count,omitempty"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	Developer     *string    `json:"developer,omitempty"`
	Publisher     *string    `json:"publisher,omitempty"`
	Genres        []string   `json:"genres,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Platform      *string    `json:"platform,omitempty"`
}

// Year returns the release year when a release date is present.
func (f Fields) Year() (int, bool) {
	if f.ReleaseDate == nil {
		return 0, false
	}
	return f.ReleaseDate.Year(), true
}

func (f Fields) sanitize() (Fields, []FieldIssue) {
	var issues []FieldIssue
	out := Fields{
		ReviewSummary: Text(deref(f.ReviewSummary)),
		Developer:     Text(deref(f.Developer)),
		Publisher:     Text(deref(f.Publisher)),
		Platform:      Text(deref(f.Platform)),
		Genres:        CleanList(f.Genres),
		Tags:          CleanList(f.Tags),
	}

	if v := f.Metascore; v != nil {
		switch {
		case math.IsNaN(*v) || math.IsInf(*v, 0):
			issues = append(issues, FieldIssue{Field: FieldMetascore, Reason: "not a number"})
		case *v < 0 || *v > 100:
			issues = append(issues, FieldIssue{Field: FieldMetascore, Value: formatFloat(*v), Reason: "outside 0-100"})
		default:
			out.Metascore = Float(*v)
		}
	}
	if v := f.Price; v != nil {
		switch {
		case math.IsNaN(*v) || math.IsInf(*v, 0):
			issues = append(issues, FieldIssue{Field: FieldPrice, Reason: "not a number"})
		case *v < 0:
			issues = append(issues, FieldIssue{Field: FieldPrice, Value: formatFloat(*v), Reason: "negative price"})
		default:
			out.Price = Float(*v)
		}
	}
	if v := f.ReviewCount; v != nil {
		if *v < 0 {
			issues = append(issues, FieldIssue{Field: FieldReviewCount, Value: fmt.Sprint(*v), Reason: "negative count"})
		} else {
			out.ReviewCount = Int(*v)
		}
	}
	if v := f.ReleaseDate; v != nil {
		if v.IsZero() {
			issues = append(issues, FieldIssue{Field: FieldReleaseDate, Reason: "zero date"})
		} else {
			d := DateOf(*v)
			out.ReleaseDate = &d
		}
	}
	return out, issues
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Text returns a pointer to the trimmed value, or nil when it is blank.
func Text(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Date returns a pointer to the UTC calendar date.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CleanList trims entries, drops blanks and case-insensitive duplicates, and
// returns nil when nothing remains.
func CleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
