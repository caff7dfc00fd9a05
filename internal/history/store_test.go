package history_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gamelink/internal/catalog"
	"gamelink/internal/history"
	"gamelink/internal/testsupport"
)

func unified() []catalog.UnifiedRecord {
	confidence := 1.0
	combined := 91.6
	return []catalog.UnifiedRecord{
		{
			Kind:            catalog.KindMatched,
			GameTitle:       "Half-Life 2",
			TitleSource:     catalog.SourceA,
			Fields:          catalog.Fields{Metascore: catalog.Float(96), Price: catalog.Float(9.99)},
			Provenance:      map[string]catalog.Provenance{catalog.FieldMetascore: catalog.ProvenanceA},
			Conflicts:       []catalog.Conflict{{Field: catalog.FieldDeveloper, A: "Valve", B: "Valve Corporation", Displayed: catalog.SourceB}},
			MatchConfidence: &confidence,
			CombinedScore:   &combined,
		},
		{Kind: catalog.KindAOnly, GameTitle: "Outer Wilds", Fields: catalog.Fields{Metascore: catalog.Float(85)}},
		{Kind: catalog.KindBOnly, GameTitle: "Stardew Valley", Fields: catalog.Fields{Price: catalog.Float(14.99)}},
	}
}

func TestRecordRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run, err := store.RecordRun(ctx, history.Run{
		StartedAt:      started,
		FinishedAt:     started.Add(1500 * time.Millisecond),
		InputA:         history.Input{Path: "/data/metacritic.csv", Digest: "aa"},
		InputB:         history.Input{Path: "/data/steam.csv", Digest: "bb"},
		Strategy:       "greedy",
		MatchThreshold: 0.85,
		Excluded:       2,
		OutputPath:     "/out/videogames_final.csv",
		OutputFormat:   "csv",
	}, unified())
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if len(run.ID) != 36 {
		t.Fatalf("expected uuid run id, got %q", run.ID)
	}
	if run.Total != 3 || run.Matched != 1 || run.AOnly != 1 || run.BOnly != 1 || run.Conflicts != 1 {
		t.Errorf("unexpected tally %+v", run)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.InputA.Digest != "aa" || got.InputB.Path != "/data/steam.csv" || got.Excluded != 2 || got.MatchThreshold != 0.85 {
		t.Errorf("unexpected run %+v", got)
	}
	if !got.StartedAt.Equal(started) || got.Duration() != 1500*time.Millisecond {
		t.Errorf("timestamps = %v / %v", got.StartedAt, got.Duration())
	}

	byPrefix, err := store.GetRun(ctx, run.ID[:8])
	if err != nil || byPrefix.ID != run.ID {
		t.Errorf("prefix lookup = %v, %v", byPrefix, err)
	}

	records, err := store.RunRecords(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunRecords: %v", err)
	}
	if len(records) != 3 || records[0].GameTitle != "Half-Life 2" || records[2].Kind != catalog.KindBOnly {
		t.Fatalf("unexpected records %+v", records)
	}
	if records[0].Conflicts[0].B != "Valve Corporation" || *records[0].CombinedScore != 91.6 {
		t.Errorf("record detail lost: %+v", records[0])
	}
	if records[1].MatchConfidence != nil {
		t.Errorf("singleton confidence should stay null")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		run, err := store.RecordRun(ctx, history.Run{StartedAt: base.Add(time.Duration(i) * time.Hour)}, nil)
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != ids[2] || runs[2].ID != ids[0] {
		t.Fatalf("unexpected order: %v", runs)
	}
	limited, err := store.ListRuns(ctx, 1)
	if err != nil || len(limited) != 1 || limited[0].ID != ids[2] {
		t.Errorf("limit not applied: %v, %v", limited, err)
	}
}

func TestGetRunMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if _, err := store.GetRun(context.Background(), "nope"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := store.DeleteRun(context.Background(), "nope"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from delete, got %v", err)
	}
}

func TestDeleteRunRemovesRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run, err := store.RecordRun(ctx, history.Run{}, unified())
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	records, err := store.RunRecords(ctx, run.ID)
	if err != nil || len(records) != 0 {
		t.Errorf("records should be removed with the run: %d, %v", len(records), err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestDescribeInput(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, filepath.Join(dir, "a.csv"), "title\nDoom\n")
	in, err := history.DescribeInput(path)
	if err != nil {
		t.Fatalf("DescribeInput: %v", err)
	}
	if in.Path != path || len(in.Digest) != 64 {
		t.Errorf("unexpected input %+v", in)
	}
	if _, err := history.DescribeInput(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
