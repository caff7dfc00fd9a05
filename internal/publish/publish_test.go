package publish

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"gamelink/internal/catalog"
)

func sampleRecords() []catalog.UnifiedRecord {
	confidence := 0.9731
	combined := 91.6
	return []catalog.UnifiedRecord{
		{
			Kind:        catalog.KindMatched,
			GameTitle:   "Half-Life 2",
			TitleSource: catalog.SourceA,
			Fields: catalog.Fields{
				Metascore:     catalog.Float(96),
				Price:         catalog.Float(9.99),
				ReviewSummary: catalog.Text("Very Positive"),
				ReviewCount:   catalog.Int(123456),
				ReleaseDate:   catalog.Date(2004, time.November, 16),
				Developer:     catalog.Text("Valve Corporation"),
				Genres:        []string{"Shooter", "FPS"},
				Platform:      catalog.Text("PC"),
			},
			Provenance: map[string]catalog.Provenance{catalog.FieldDeveloper: catalog.ProvenanceConflict},
			Conflicts: []catalog.Conflict{
				{Field: catalog.FieldDeveloper, A: "Valve", B: "Valve Corporation", Displayed: catalog.SourceB},
			},
			MetacriticURL:   "https://www.metacritic.com/game/half-life-2/",
			SteamURL:        "https://store.steampowered.com/app/220/",
			MatchConfidence: &confidence,
			CombinedScore:   &combined,
		},
		{
			Kind:       catalog.KindBOnly,
			GameTitle:  "Stardew Valley, Deluxe",
			Fields:     catalog.Fields{Price: catalog.Float(14.99)},
			Provenance: map[string]catalog.Provenance{catalog.FieldPrice: catalog.ProvenanceB},
			SteamURL:   "https://store.steampowered.com/app/413150/",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(catalog.OutputFields, ",") || len(rows[0]) != 15 {
		t.Errorf("unexpected header %v", rows[0])
	}
	want := []string{
		"Half-Life 2", "96", "9.99", "Very Positive", "123456", "2004-11-16",
		"Valve Corporation", "", "Shooter, FPS", "", "PC",
		"https://www.metacritic.com/game/half-life-2/", "https://store.steampowered.com/app/220/",
		"0.9731", "91.6",
	}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("row 1 = %q\nwant    %q", rows[1], want)
	}
	for _, cell := range rows[1] {
		if cell == "Valve" {
			t.Errorf("csv should carry only the displayed side of a conflict: %q", rows[1])
		}
	}
	singleton := rows[2]
	if singleton[0] != "Stardew Valley, Deluxe" || singleton[1] != "" || singleton[13] != "" || singleton[14] != "" {
		t.Errorf("singleton nulls should be empty cells: %q", singleton)
	}
}

func TestWriteJSONKeepsConflicts(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded []catalog.UnifiedRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || len(decoded[0].Conflicts) != 1 || decoded[0].Conflicts[0].A != "Valve" {
		t.Errorf("conflicts lost: %+v", decoded)
	}
	if decoded[1].MatchConfidence != nil {
		t.Errorf("singleton confidence should decode as null")
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Format: FormatCSV}, "videogames_final.csv"},
		{Options{Format: FormatJSON, Name: "catalog"}, "catalog.json"},
		{Options{Format: FormatCSV, Name: "out.csv"}, "out.csv"},
		{Options{Format: FormatCSV, Name: "a/b"}, "a-b.csv"},
		{Options{Format: FormatCSV, Timestamped: true}, "videogames_merged_20250307_140509.csv"},
	}
	for _, tt := range tests {
		if got := FileName(tt.opts, now); got != tt.want {
			t.Errorf("FileName(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestPublishWritesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := New(dir, nil)
	path, err := p.Publish(context.Background(), sampleRecords(), Options{Format: FormatCSV})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if path != filepath.Join(dir, "videogames_final.csv") {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "game_title,metascore,price,") {
		t.Errorf("unexpected content %q", data[:40])
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestPublishRespectsLock(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, lockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock: %v %v", ok, err)
	}
	defer held.Unlock()

	p := New(dir, nil)
	if _, err := p.Publish(context.Background(), sampleRecords(), Options{}); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := p.Publish(context.Background(), sampleRecords(), Options{LockTimeout: 150 * time.Millisecond}); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked after timeout, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" JSON "); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, catalog.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
