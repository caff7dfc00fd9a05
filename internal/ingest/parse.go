package ingest

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gamelink/internal/catalog"
)

// errAbsent reports a cell that carries no value. It never surfaces as an
// issue.
var errAbsent = errors.New("absent")

var missingMarkers = map[string]struct{}{
	"n/a":         {},
	"na":          {},
	"tba":         {},
	"tbd":         {},
	"none":        {},
	"null":        {},
	"-":           {},
	"coming soon": {},
}

// missing reports whether a display string stands for "no value".
func missing(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	_, ok := missingMarkers[s]
	return ok
}

var rankPrefix = regexp.MustCompile(`^\d{1,5}\.\s+`)

// parseTitle strips listing rank numbering such as "235. ".
func parseTitle(s string) string {
	s = strings.TrimSpace(s)
	if stripped := rankPrefix.ReplaceAllString(s, ""); strings.TrimSpace(stripped) != "" {
		s = stripped
	}
	if missing(s) {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

var numericGroup = regexp.MustCompile(`\d[\d.,]*`)

// parsePrice reads "$19.99", "19,99€", "Free", or "Free to Play".
func parsePrice(s string) (float64, error) {
	if missing(s) {
		return 0, errAbsent
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(lower, "free") {
		return 0, nil
	}
	group := numericGroup.FindString(s)
	if group == "" {
		return 0, errors.New("no numeric price")
	}
	return parseDecimal(group)
}

// parseDecimal accepts "1,234.56", "19,99", and "1.234,56".
func parseDecimal(group string) (float64, error) {
	group = strings.TrimRight(group, ".,")
	lastDot := strings.LastIndex(group, ".")
	lastComma := strings.LastIndex(group, ",")
	switch {
	case lastComma > lastDot && len(group)-lastComma-1 != 3:
		group = strings.ReplaceAll(group, ".", "")
		group = strings.Replace(group, ",", ".", 1)
	default:
		group = strings.ReplaceAll(group, ",", "")
	}
	v, err := strconv.ParseFloat(group, 64)
	if err != nil {
		return 0, errors.New("malformed number")
	}
	return v, nil
}

// parseScore reads a metascore. Any non-numeric text is unparsable.
func parseScore(s string) (float64, error) {
	if missing(s) {
		return 0, errAbsent
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	return v, nil
}

// parseCount reads "(12,345)" or "12345 reviews" by keeping only digits.
func parseCount(s string) (int, error) {
	if missing(s) {
		return 0, errAbsent
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, errors.New("no digits")
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, errors.New("count out of range")
	}
	return v, nil
}

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	bareYear      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan, 2006",
	"2 January, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2006",
}

// parseDate reads the date formats used by both storefronts. A string that
// only carries a year resolves to January 1 of that year.
func parseDate(s string) (time.Time, error) {
	if missing(s) {
		return time.Time{}, errAbsent
	}
	s = strings.TrimSpace(parenthetical.ReplaceAllString(s, ""))
	s = strings.Join(strings.Fields(s), " ")
	if missing(s) {
		return time.Time{}, errAbsent
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return catalog.DateOf(t), nil
		}
	}
	if year := bareYear.FindString(s); year != "" {
		y, _ := strconv.Atoi(year)
		return *catalog.Date(y, time.January, 1), nil
	}
	return time.Time{}, errors.New("unrecognized date")
}

// parseList splits a comma-separated cell.
func parseList(s string) []string {
	if missing(s) {
		return nil
	}
	return catalog.CleanList(strings.Split(s, ","))
}

// parseText returns nil for missing markers.
func parseText(s string) *string {
	if missing(s) {
		return nil
	}
	return catalog.Text(s)
}
