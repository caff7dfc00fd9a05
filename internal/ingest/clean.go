package ingest

import (
	"errors"
	"strings"
	"time"

	"gamelink/internal/catalog"
)

// Batch is the cleaned form of one export.
type Batch struct {
	Records []catalog.RawRecord
	Issues  []catalog.FieldIssue
	// Duplicates counts rows dropped by deduplication.
	Duplicates int
	// Skipped counts rows that carried no title or were marked not found.
	Skipped int
}

const metacriticHost = "https://www.metacritic.com"

// CleanMetacritic converts source A export rows. Rows are deduplicated on
// (title, url); the first occurrence wins.
func CleanMetacritic(rows []Row, scrapedAt time.Time) Batch {
	var out Batch
	seen := make(map[[2]string]struct{}, len(rows))
	for _, row := range rows {
		title := parseTitle(row.Get("title", "name"))
		if title == "" {
			out.Skipped++
			continue
		}
		origin := row.Get("url", "game_url", "link")
		if missing(origin) {
			origin = ""
		} else if strings.HasPrefix(origin, "/") {
			origin = metacriticHost + origin
		}
		key := [2]string{strings.ToLower(title), origin}
		if _, dup := seen[key]; dup {
			out.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		c := cleaner{source: catalog.SourceA, origin: origin}
		rec := catalog.RawRecord{
			Source:    catalog.SourceA,
			Origin:    origin,
			Title:     title,
			ScrapedAt: stamp(scrapedAt),
			Fields: catalog.Fields{
				Metascore:   c.float(catalog.FieldMetascore, row.Get("metascore", "score"), parseScore),
				ReleaseDate: c.date(row.Get("release_date", "released")),
				Developer:   parseText(row.Get("developer")),
				Publisher:   parseText(row.Get("publisher")),
				Genres:      parseList(row.Get("genres", "genre")),
				Platform:    parseText(row.Get("platform")),
			},
		}
		out.Records = append(out.Records, rec)
		out.Issues = append(out.Issues, c.issues...)
	}
	return out
}

// CleanSteam converts source B export rows. Rows are deduplicated on app id,
// falling back to the app URL; rows marked not found are skipped.
func CleanSteam(rows []Row, scrapedAt time.Time) Batch {
	var out Batch
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if strings.EqualFold(row.Get("found"), "false") {
			out.Skipped++
			continue
		}
		title := parseTitle(row.Get("title", "name", "search_term"))
		if title == "" {
			out.Skipped++
			continue
		}
		origin := row.Get("app_url", "url")
		if missing(origin) {
			origin = ""
		}
		if key := dedupeKey(row.Get("app_id", "appid"), origin); key != "" {
			if _, dup := seen[key]; dup {
				out.Duplicates++
				continue
			}
			seen[key] = struct{}{}
		}

		c := cleaner{source: catalog.SourceB, origin: origin}
		rec := catalog.RawRecord{
			Source:    catalog.SourceB,
			Origin:    origin,
			Title:     title,
			ScrapedAt: stamp(scrapedAt),
			Fields: catalog.Fields{
				Price:         c.float(catalog.FieldPrice, row.Get("price", "price_numeric"), parsePrice),
				ReviewSummary: parseText(row.Get("review_summary")),
				ReviewCount:   c.count(row.Get("review_count", "review_count_numeric")),
				ReleaseDate:   c.date(row.Get("release_date", "released")),
				Developer:     parseText(row.Get("developer")),
				Publisher:     parseText(row.Get("publisher")),
				Tags:          parseList(row.Get("tags")),
			},
		}
		out.Records = append(out.Records, rec)
		out.Issues = append(out.Issues, c.issues...)
	}
	return out
}

func dedupeKey(appID, origin string) string {
	if !missing(appID) {
		return "id:" + strings.TrimSpace(appID)
	}
	if origin != "" {
		return "url:" + strings.TrimRight(origin, "/")
	}
	return ""
}

func stamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// cleaner collects issues for one row.
type cleaner struct {
	source catalog.Source
	origin string
	issues []catalog.FieldIssue
}

func (c *cleaner) report(field, value string, err error) {
	if err == nil || errors.Is(err, errAbsent) {
		return
	}
	c.issues = append(c.issues, catalog.FieldIssue{
		Source: c.source,
		Origin: c.origin,
		Field:  field,
		Value:  strings.TrimSpace(value),
		Reason: err.Error(),
	})
}

func (c *cleaner) float(field, value string, parse func(string) (float64, error)) *float64 {
	v, err := parse(value)
	if err != nil {
		c.report(field, value, err)
		return nil
	}
	return catalog.Float(v)
}

func (c *cleaner) count(value string) *int {
	v, err := parseCount(value)
	if err != nil {
		c.report(catalog.FieldReviewCount, value, err)
		return nil
	}
	return catalog.Int(v)
}

func (c *cleaner) date(value string) *time.Time {
	v, err := parseDate(value)
	if err != nil {
		c.report(catalog.FieldReleaseDate, value, err)
		return nil
	}
	return &v
}
