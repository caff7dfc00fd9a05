package report

import (
	"errors"
	"strings"
	"testing"

	"gamelink/internal/catalog"
)

func matched(confidence float64, combined *float64, conflicts ...string) catalog.UnifiedRecord {
	u := catalog.UnifiedRecord{
		Kind:            catalog.KindMatched,
		MatchConfidence: &confidence,
		CombinedScore:   combined,
		Provenance:      map[string]catalog.Provenance{},
	}
	for _, field := range catalog.MergeFields {
		u.Provenance[field] = catalog.ProvenanceAgree
	}
	for _, field := range conflicts {
		u.Provenance[field] = catalog.ProvenanceConflict
		u.Conflicts = append(u.Conflicts, catalog.Conflict{Field: field, A: "x", B: "y", Displayed: catalog.SourceA})
	}
	return u
}

func singleton(kind catalog.RecordKind) catalog.UnifiedRecord {
	return catalog.UnifiedRecord{Kind: kind, Provenance: map[string]catalog.Provenance{
		catalog.FieldPrice: catalog.ProvenanceB,
	}}
}

func TestSummarize(t *testing.T) {
	records := []catalog.UnifiedRecord{
		matched(0.62, nil),
		matched(0.85, catalog.Float(90), catalog.FieldDeveloper),
		matched(1.0, catalog.Float(81), catalog.FieldDeveloper, catalog.FieldGenres),
		singleton(catalog.KindAOnly),
		singleton(catalog.KindBOnly),
	}
	s := Summarize(records)

	if s.Total != 5 || s.Matched != 3 || s.AOnly != 1 || s.BOnly != 1 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.WithConflicts != 2 || s.Conflicts != 3 {
		t.Errorf("conflicts = %d records / %d fields", s.WithConflicts, s.Conflicts)
	}
	if len(s.ConflictsByField) != 2 || s.ConflictsByField[0] != (Count{Field: catalog.FieldDeveloper, Count: 2}) {
		t.Errorf("conflicts by field = %+v", s.ConflictsByField)
	}
	wantBuckets := []int{1, 0, 1, 1}
	for i, b := range s.Confidence {
		if b.Count != wantBuckets[i] {
			t.Errorf("bucket %s = %d, want %d", b.Label(), b.Count, wantBuckets[i])
		}
	}
	if s.CombinedScored != 2 || s.CombinedScoreMean != 85.5 {
		t.Errorf("combined = %d / %v", s.CombinedScored, s.CombinedScoreMean)
	}
	if s.MeanConfidence != 0.82 {
		t.Errorf("mean confidence = %v", s.MeanConfidence)
	}
	if got := s.MatchRate(); got != 0.6 {
		t.Errorf("match rate = %v", got)
	}
	// Singletons miss every field except price.
	for _, c := range s.MissingFieldCounts {
		want := 2
		if c.Field == catalog.FieldPrice {
			want = 0
		}
		if c.Count != want {
			t.Errorf("missing %s = %d, want %d", c.Field, c.Count, want)
		}
	}
}

func TestBucketLabel(t *testing.T) {
	if got := (Bucket{Low: 0.95, High: 1}).Label(); got != "[0.95, 1.00]" {
		t.Errorf("label = %q", got)
	}
	if got := (Bucket{Low: 0.6, High: 0.7}).Label(); got != "[0.60, 0.70)" {
		t.Errorf("label = %q", got)
	}
}

func TestValidate(t *testing.T) {
	s := Summary{Total: 3, Matched: 1}
	tests := []struct {
		name string
		th   Thresholds
		ok   bool
	}{
		{"disabled", Thresholds{}, true},
		{"rows ok", Thresholds{MinRows: 3}, true},
		{"too few rows", Thresholds{MinRows: 4}, false},
		{"too few matches", Thresholds{MinMatched: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(s, tt.th)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tt.ok && catalog.Kind(err) != "validation" {
				t.Errorf("Kind(%v) = %q", err, catalog.Kind(err))
			}
		})
	}
}

func TestValidateReportsEveryGate(t *testing.T) {
	err := Validate(Summary{Total: 1}, Thresholds{MinRows: 2, MinMatched: 1})
	var gate *GateError
	if !errors.As(err, &gate) || gate.Gate != "unified" || gate.Need != 2 {
		t.Fatalf("unexpected first gate %v", err)
	}
	if !strings.Contains(err.Error(), "0 matched rows, need at least 1") {
		t.Errorf("matched gate missing from %q", err.Error())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.MatchRate() != 0 || len(s.Confidence) != 4 {
		t.Errorf("unexpected empty summary %+v", s)
	}
}
