package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gamelink/internal/ingest"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

func TestMetacriticListing(t *testing.T) {
	rows, err := MetacriticListing(fixture(t, "metacritic_listing.html"))
	if err != nil {
		t.Fatalf("MetacriticListing: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 cards with titles, got %d", len(rows))
	}
	first := rows[0]
	if first["title"] != "1. Half-Life 2" || first["url"] != "https://www.metacritic.com/game/half-life-2/" {
		t.Errorf("unexpected card %+v", first)
	}
	if first["metascore"] != "96" || first["release_date"] != "Nov 16, 2004" || first["platform"] != "PC" {
		t.Errorf("unexpected card fields %+v", first)
	}
	if rows[1]["title"] != "2. Outer Wilds" {
		t.Errorf("title whitespace should collapse, got %q", rows[1]["title"])
	}
}

func TestMetacriticDetail(t *testing.T) {
	base := ingest.Row{"title": "1. Half-Life 2", "url": "https://www.metacritic.com/game/half-life-2/"}
	row, err := MetacriticDetail(fixture(t, "metacritic_detail.html"), base)
	if err != nil {
		t.Fatalf("MetacriticDetail: %v", err)
	}
	if row["developer"] != "Valve" || row["publisher"] != "VU Games" || row["genres"] != "FPS, Shooter" {
		t.Errorf("unexpected detail row %+v", row)
	}
	if row["title"] != "1. Half-Life 2" {
		t.Errorf("listing title should be kept, got %q", row["title"])
	}
	if _, ok := base["developer"]; ok {
		t.Error("base row must not be modified")
	}
}

func TestSteamApp(t *testing.T) {
	row, err := SteamApp(fixture(t, "steam_app.html"), "https://store.steampowered.com/app/220/")
	if err != nil {
		t.Fatalf("SteamApp: %v", err)
	}
	want := ingest.Row{
		"title":          "Half-Life 2",
		"app_url":        "https://store.steampowered.com/app/220/",
		"app_id":         "220",
		"price":          "$9.99",
		"review_summary": "Overwhelmingly Positive",
		"review_count":   "123,456",
		"release_date":   "16 Nov, 2004",
		"developer":      "Valve",
		"publisher":      "Valve",
		"tags":           "FPS, Classic",
	}
	for key, value := range want {
		if row[key] != value {
			t.Errorf("%s = %q, want %q", key, row[key], value)
		}
	}
}

func TestSteamAppFeedsCleaner(t *testing.T) {
	row, err := SteamApp(fixture(t, "steam_app.html"), "https://store.steampowered.com/app/220/")
	if err != nil {
		t.Fatalf("SteamApp: %v", err)
	}
	batch := ingest.CleanSteam([]ingest.Row{row}, time.Time{})
	if len(batch.Records) != 1 || len(batch.Issues) != 0 {
		t.Fatalf("unexpected batch %+v", batch)
	}
	if rec := batch.Records[0]; *rec.Fields.ReviewCount != 123456 || *rec.Fields.Price != 9.99 {
		t.Errorf("unexpected cleaned fields %+v", rec.Fields)
	}
}

func TestSteamSearch(t *testing.T) {
	hits, err := SteamSearch(fixture(t, "steam_search.html"))
	if err != nil {
		t.Fatalf("SteamSearch: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	if hits[0].AppID != "220" || hits[0].AppURL != "https://store.steampowered.com/app/220" || hits[0].Title != "Half-Life 2" {
		t.Errorf("unexpected first hit %+v", hits[0])
	}
	if hits[1].AppID != "220" {
		t.Errorf("bundle id should resolve to its first app, got %q", hits[1].AppID)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct{ href, want string }{
		{"/game/doom/", "https://www.metacritic.com/game/doom/"},
		{"https://example.com/x", "https://example.com/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := resolveURL(metacriticBase, tt.href); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
