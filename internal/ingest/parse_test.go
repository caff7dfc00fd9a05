package ingest

import (
	"errors"
	"testing"
	"time"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		absent  bool
		invalid bool
	}{
		{"$19.99", 19.99, false, false},
		{"Free to Play", 0, false, false},
		{"Free", 0, false, false},
		{"19,99€", 19.99, false, false},
		{"$1,234.50", 1234.5, false, false},
		{"N/A", 0, true, false},
		{"", 0, true, false},
		{"See all bundles", 0, false, true},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		switch {
		case tt.absent:
			if !errors.Is(err, errAbsent) {
				t.Errorf("parsePrice(%q) err = %v, want absent", tt.in, err)
			}
		case tt.invalid:
			if err == nil || errors.Is(err, errAbsent) {
				t.Errorf("parsePrice(%q) should be unparsable, got %v, %v", tt.in, got, err)
			}
		default:
			if err != nil || got != tt.want {
				t.Errorf("parsePrice(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nov 16, 2004", "2004-11-16"},
		{"November 16, 2004", "2004-11-16"},
		{"16 Nov, 2004", "2004-11-16"},
		{"16 November 2004", "2004-11-16"},
		{"2004-11-16", "2004-11-16"},
		{"11/16/2004", "2004-11-16"},
		{"Nov 16, 2004 (Early Access)", "2004-11-16"},
		{"2016", "2016-01-01"},
		{"Q4 2024", "2024-01-01"},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if err != nil {
			t.Errorf("parseDate(%q): %v", tt.in, err)
			continue
		}
		if got.Format("2006-01-02") != tt.want || got.Location() != time.UTC {
			t.Errorf("parseDate(%q) = %v, want %s", tt.in, got, tt.want)
		}
	}
	for _, in := range []string{"TBA", "Coming soon", "N/A", ""} {
		if _, err := parseDate(in); !errors.Is(err, errAbsent) {
			t.Errorf("parseDate(%q) err = %v, want absent", in, err)
		}
	}
	if _, err := parseDate("someday"); err == nil || errors.Is(err, errAbsent) {
		t.Errorf("parseDate(someday) should be unparsable, got %v", err)
	}
}

func TestParseCountAndScore(t *testing.T) {
	if got, err := parseCount("(123,456)"); err != nil || got != 123456 {
		t.Errorf("parseCount = %v, %v", got, err)
	}
	if _, err := parseCount("no reviews"); err == nil {
		t.Error("expected error for count without digits")
	}
	if got, err := parseScore(" 96 "); err != nil || got != 96 {
		t.Errorf("parseScore = %v, %v", got, err)
	}
	if _, err := parseScore("tbd"); !errors.Is(err, errAbsent) {
		t.Errorf("tbd should be absent, got %v", err)
	}
}

func TestParseTitle(t *testing.T) {
	tests := map[string]string{
		"235. Half-Life 2": "Half-Life 2",
		"  Portal   2 ":    "Portal 2",
		"1. ":              "1.",
		"N/A":              "",
	}
	for in, want := range tests {
		if got := parseTitle(in); got != want {
			t.Errorf("parseTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
