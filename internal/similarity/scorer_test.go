package similarity

import (
	"errors"
	"math"
	"testing"

	"gamelink/internal/catalog"
	"gamelink/internal/normalize"
)

func input(src catalog.Source, n *normalize.Normalizer, title string, year int) Input {
	in := Input{Source: src, Key: n.Normalize(title)}
	in.Ref.Key = in.Key.Title
	if year > 0 {
		in.Year = year
		in.HasYear = true
	}
	return in
}

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(DefaultWeights())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestScoreIdenticalAfterNormalization(t *testing.T) {
	n := normalize.New(normalize.DefaultOptions())
	s := newScorer(t)
	got := s.Score(input(catalog.SourceA, n, "Half-Life 2", 0), input(catalog.SourceB, n, "Half Life 2", 0))
	if got.Score != 1 {
		t.Fatalf("Score = %v, want 1", got.Score)
	}
	if got.Reasons.TokenSet != 1 || got.Reasons.EditRatio != 1 || got.Reasons.YearDelta != nil {
		t.Errorf("unexpected reasons %+v", got.Reasons)
	}
}

func TestScoreSubtitleVariantBelowReview(t *testing.T) {
	n := normalize.New(normalize.DefaultOptions())
	s := newScorer(t)
	got := s.Score(
		input(catalog.SourceA, n, "Civilization VI", 2016),
		input(catalog.SourceB, n, "Sid Meier's Civilization VI: Gathering Storm", 2016),
	)
	// token set 2/6, edit ratio 14/41, plus the year bonus.
	want := 0.5*(2.0/6.0) + 0.5*(14.0/41.0) + 0.10
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got.Score, want)
	}
	if got.Score >= 0.60 {
		t.Errorf("subtitle variant should stay below the review threshold, got %v", got.Score)
	}
	if !got.Reasons.YearsAgree() {
		t.Error("expected year agreement")
	}
}

func TestScoreYearAdjustments(t *testing.T) {
	n := normalize.New(normalize.DefaultOptions())
	s := newScorer(t)
	base := 0.5*0.5 + 0.5*(11.0/12.0)
	tests := []struct {
		name   string
		yearA  int
		yearB  int
		want   float64
		adjust float64
	}{
		{"same year", 2014, 2014, base + 0.10, 0.10},
		{"one year apart", 2014, 2015, base, 0},
		{"far apart", 2011, 2016, base - 0.10, -0.10},
		{"missing year", 0, 2016, base, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(input(catalog.SourceA, n, "Dark Souls II", tt.yearA), input(catalog.SourceB, n, "Dark Souls III", tt.yearB))
			if math.Abs(got.Score-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got.Score, tt.want)
			}
			if got.Reasons.YearAdjust != tt.adjust {
				t.Errorf("YearAdjust = %v, want %v", got.Reasons.YearAdjust, tt.adjust)
			}
		})
	}
}

func TestScoreEditionCredit(t *testing.T) {
	n := normalize.New(normalize.DefaultOptions())
	s := newScorer(t)
	both := s.Score(input(catalog.SourceA, n, "Skyrim Special Edition", 0), input(catalog.SourceB, n, "Skyrimm (Special Edition)", 0))
	one := s.Score(input(catalog.SourceA, n, "Skyrim Special Edition", 0), input(catalog.SourceB, n, "Skyrimm", 0))
	if both.Reasons.EditionAdjust != 0.05 {
		t.Errorf("expected edition credit, got %+v", both.Reasons)
	}
	if one.Reasons.EditionAdjust != 0 {
		t.Errorf("absent edition must not change the score, got %+v", one.Reasons)
	}
	if both.Score <= one.Score {
		t.Errorf("matching editions should score higher: %v <= %v", both.Score, one.Score)
	}
}

func TestScoreSymmetric(t *testing.T) {
	n := normalize.New(normalize.DefaultOptions())
	s := newScorer(t)
	titles := [][2]string{
		{"Portal 2", "Portal"},
		{"The Witcher 3: Wild Hunt", "Witcher 3"},
		{"Hollow Knight", "Hollow Knight: Silksong"},
		{"Stardew Valley", "Starbound"},
	}
	for _, pair := range titles {
		a := input(catalog.SourceA, n, pair[0], 2011)
		b := input(catalog.SourceB, n, pair[1], 2013)
		ab := s.Score(a, b)
		ba := s.Score(b, a)
		if ab.Score != ba.Score {
			t.Errorf("Score(%q, %q) = %v but reversed = %v", pair[0], pair[1], ab.Score, ba.Score)
		}
		if ab.A != ba.A || ab.B != ba.B {
			t.Errorf("role normalization failed: %+v vs %+v", ab, ba)
		}
	}
}

func TestScoreBoundsAndEmptyKeys(t *testing.T) {
	n := normalize.New(normalize.DefaultOptions())
	s := newScorer(t)
	empty := s.Score(input(catalog.SourceA, n, "", 2020), input(catalog.SourceB, n, "!!!", 2020))
	if empty.Score != 0 {
		t.Errorf("empty keys should score 0, got %v", empty.Score)
	}
	capped := s.Score(input(catalog.SourceA, n, "Hades (GOTY)", 2020), input(catalog.SourceB, n, "Hades - Game of the Year", 2020))
	if capped.Score != 1 {
		t.Errorf("score should be clamped to 1, got %v", capped.Score)
	}
	low := s.Score(input(catalog.SourceA, n, "Tetris", 1984), input(catalog.SourceB, n, "Doom", 2016))
	if low.Score < 0 {
		t.Errorf("score should be clamped to 0, got %v", low.Score)
	}
}

func TestWeightsValidate(t *testing.T) {
	w := DefaultWeights()
	w.TokenSet = 0.7
	if err := w.Validate(); !errors.Is(err, catalog.ErrConfiguration) {
		t.Errorf("expected configuration error for weights summing to 1.2, got %v", err)
	}
	w = DefaultWeights()
	w.YearMatchBonus = -0.1
	if _, err := New(w); !errors.Is(err, catalog.ErrConfiguration) {
		t.Errorf("expected configuration error for negative bonus, got %v", err)
	}

	nonFinite := []struct {
		name string
		mod  func(w *Weights)
	}{
		{"nan text weights", func(w *Weights) { w.TokenSet, w.EditDistance = math.NaN(), math.NaN() }},
		{"nan token set", func(w *Weights) { w.TokenSet = math.NaN() }},
		{"infinite edit distance", func(w *Weights) { w.EditDistance = math.Inf(1) }},
		{"nan edition bonus", func(w *Weights) { w.EditionMatchBonus = math.NaN() }},
		{"negative infinite penalty", func(w *Weights) { w.YearMismatchPenalty = math.Inf(-1) }},
	}
	for _, tt := range nonFinite {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.mod(&w)
			if _, err := New(w); !errors.Is(err, catalog.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestClampMapsNaNToZero(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
		{0.42, 0.42},
	}
	for _, tt := range tests {
		if got := clamp(tt.in); got != tt.want {
			t.Errorf("clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEditRatio(t *testing.T) {
	if got := EditRatio("", ""); got != 0 {
		t.Errorf("EditRatio of empty strings = %v", got)
	}
	if got := EditRatio("pokemon", "pokemon"); got != 1 {
		t.Errorf("EditRatio identical = %v", got)
	}
	if got := EditRatio("kitten", "sitting"); math.Abs(got-(1-3.0/7.0)) > 1e-12 {
		t.Errorf("EditRatio(kitten, sitting) = %v", got)
	}
}
