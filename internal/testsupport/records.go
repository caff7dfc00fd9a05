package testsupport

import (
	"time"

	"gamelink/internal/catalog"
)

// RecordOption customizes a test record.
type RecordOption func(*catalog.RawRecord)

// Critic builds a source A record.
func Critic(title, origin string, opts ...RecordOption) catalog.RawRecord {
	rec := catalog.RawRecord{Source: catalog.SourceA, Origin: origin, Title: title}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// Store builds a source B record.
func Store(title, origin string, opts ...RecordOption) catalog.RawRecord {
	rec := catalog.RawRecord{Source: catalog.SourceB, Origin: origin, Title: title}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// Metascore sets the critic score.
func Metascore(v float64) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Metascore = catalog.Float(v) }
}

// Price sets the store price.
func Price(v float64) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Price = catalog.Float(v) }
}

// Review sets the review summary and count.
func Review(summary string, count int) RecordOption {
	return func(r *catalog.RawRecord) {
		r.Fields.ReviewSummary = catalog.Text(summary)
		r.Fields.ReviewCount = catalog.Int(count)
	}
}

// Released sets the release date.
func Released(year int, month time.Month, day int) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.ReleaseDate = catalog.Date(year, month, day) }
}

// Developer sets the developer.
func Developer(name string) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Developer = catalog.Text(name) }
}

// Publisher sets the publisher.
func Publisher(name string) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Publisher = catalog.Text(name) }
}

// Genres sets the genre list.
func Genres(values ...string) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Genres = values }
}

// Tags sets the tag list.
func Tags(values ...string) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Tags = values }
}

// Platform sets the platform.
func Platform(name string) RecordOption {
	return func(r *catalog.RawRecord) { r.Fields.Platform = catalog.Text(name) }
}

// ScrapedAt sets the scrape timestamp.
func ScrapedAt(t time.Time) RecordOption {
	return func(r *catalog.RawRecord) { r.ScrapedAt = &t }
}
