package linkage_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"gamelink/internal/catalog"
	"gamelink/internal/linkage"
	"gamelink/internal/matcher"
	"gamelink/internal/merge"
	"gamelink/internal/testsupport"
)

func newEngine(t *testing.T, opts linkage.Options) *linkage.Engine {
	t.Helper()
	e, err := linkage.New(opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func sampleBatches() ([]catalog.RawRecord, []catalog.RawRecord) {
	a := []catalog.RawRecord{
		testsupport.Critic("Half-Life 2", "https://www.metacritic.com/game/half-life-2/",
			testsupport.Metascore(96), testsupport.Developer("Valve"), testsupport.Platform("PC")),
		testsupport.Critic("Civilization VI", "https://www.metacritic.com/game/civilization-vi/",
			testsupport.Metascore(88), testsupport.Released(2016, time.October, 21)),
		testsupport.Critic("Dark Souls III", "https://www.metacritic.com/game/dark-souls-iii/",
			testsupport.Metascore(89), testsupport.Released(2016, time.April, 12)),
		testsupport.Critic("Dark Souls II", "https://www.metacritic.com/game/dark-souls-ii/",
			testsupport.Metascore(91), testsupport.Released(2014, time.March, 11)),
	}
	b := []catalog.RawRecord{
		testsupport.Store("Half Life 2", "https://store.steampowered.com/app/220/",
			testsupport.Price(9.99), testsupport.Developer("Valve Corporation"), testsupport.Review("Overwhelmingly Positive", 150000)),
		testsupport.Store("Sid Meier's Civilization VI: Gathering Storm", "https://store.steampowered.com/app/947510/",
			testsupport.Price(39.99), testsupport.Released(2016, time.October, 21)),
		testsupport.Store("DARK SOULS™ III", "https://store.steampowered.com/app/374320/",
			testsupport.Price(59.99), testsupport.Released(2016, time.April, 11)),
		testsupport.Store("Stardew Valley", "https://store.steampowered.com/app/413150/",
			testsupport.Price(14.99), testsupport.Developer("ConcernedApe")),
	}
	return a, b
}

func byTitle(t *testing.T, res *linkage.Result, title string) catalog.UnifiedRecord {
	t.Helper()
	for _, r := range res.Records {
		if r.GameTitle == title {
			return r
		}
	}
	t.Fatalf("no unified record titled %q in %d records", title, len(res.Records))
	return catalog.UnifiedRecord{}
}

func TestRunLinksCatalogs(t *testing.T) {
	e := newEngine(t, linkage.DefaultOptions())
	a, b := sampleBatches()
	res, err := e.Run(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Records) != 6 {
		t.Fatalf("expected 6 unified records, got %d", len(res.Records))
	}
	if res.Stats.Matched != 2 || res.Stats.AOnly != 2 || res.Stats.BOnly != 2 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}

	t.Run("punctuation variant matches", func(t *testing.T) {
		u := byTitle(t, res, "Half-Life 2")
		if u.Kind != catalog.KindMatched || u.MatchConfidence == nil || *u.MatchConfidence < 0.85 {
			t.Fatalf("expected a confident match, got %+v", u)
		}
		if u.Fields.Metascore == nil || *u.Fields.Metascore != 96 || u.Fields.Price == nil || *u.Fields.Price != 9.99 {
			t.Errorf("matched record must carry metascore and price: %+v", u.Fields)
		}
	})

	t.Run("subtitle variant stays apart", func(t *testing.T) {
		civ := byTitle(t, res, "Civilization VI")
		storm := byTitle(t, res, "Sid Meier's Civilization VI: Gathering Storm")
		if civ.Kind != catalog.KindAOnly || storm.Kind != catalog.KindBOnly {
			t.Errorf("expected two singletons, got %s and %s", civ.Kind, storm.Kind)
		}
	})

	t.Run("competing candidates assign once", func(t *testing.T) {
		three := byTitle(t, res, "Dark Souls III")
		two := byTitle(t, res, "Dark Souls II")
		if three.Kind != catalog.KindMatched || three.SteamURL != "https://store.steampowered.com/app/374320/" {
			t.Errorf("expected Dark Souls III matched, got %+v", three)
		}
		if two.Kind != catalog.KindAOnly || two.SteamURL != "" {
			t.Errorf("expected Dark Souls II singleton, got %+v", two)
		}
	})

	t.Run("unmatched store record", func(t *testing.T) {
		u := byTitle(t, res, "Stardew Valley")
		if u.Kind != catalog.KindBOnly || u.MatchConfidence != nil {
			t.Fatalf("expected B singleton with null confidence, got %+v", u)
		}
		if u.Fields.Metascore != nil || u.Fields.Platform != nil || u.MetacriticURL != "" {
			t.Errorf("A-only fields must be null: %+v", u.Fields)
		}
		if u.Fields.Price == nil || *u.Fields.Price != 14.99 {
			t.Errorf("price should carry over: %+v", u.Fields.Price)
		}
	})

	t.Run("developer conflict recorded", func(t *testing.T) {
		u := byTitle(t, res, "Half-Life 2")
		if u.Provenance[catalog.FieldDeveloper] != catalog.ProvenanceConflict {
			t.Fatalf("developer provenance = %q", u.Provenance[catalog.FieldDeveloper])
		}
		if len(u.Conflicts) != 1 || u.Conflicts[0].A != "Valve" || u.Conflicts[0].B != "Valve Corporation" {
			t.Errorf("conflicts = %+v", u.Conflicts)
		}
	})
}

func TestRunOrdersOutputByTitle(t *testing.T) {
	e := newEngine(t, linkage.DefaultOptions())
	a, b := sampleBatches()
	res, err := e.Run(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"Civilization VI",
		"Dark Souls II",
		"Dark Souls III",
		"Half-Life 2",
		"Sid Meier's Civilization VI: Gathering Storm",
		"Stardew Valley",
	}
	var got []string
	for _, r := range res.Records {
		got = append(got, r.GameTitle)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, b := sampleBatches()
	opts := linkage.DefaultOptions()
	opts.Workers = 1
	want, err := newEngine(t, opts).Run(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for _, workers := range []int{1, 3, 8} {
		opts.Workers = workers
		e := newEngine(t, opts)
		for range 5 {
			sa := append([]catalog.RawRecord(nil), a...)
			sb := append([]catalog.RawRecord(nil), b...)
			rng.Shuffle(len(sa), func(i, j int) { sa[i], sa[j] = sa[j], sa[i] })
			rng.Shuffle(len(sb), func(i, j int) { sb[i], sb[j] = sb[j], sb[i] })
			got, err := e.Run(context.Background(), sa, sb)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !reflect.DeepEqual(got.Records, want.Records) {
				t.Fatalf("workers=%d: output changed with input order", workers)
			}
		}
	}
}

func TestRunExcludesMalformedRecords(t *testing.T) {
	e := newEngine(t, linkage.DefaultOptions())
	a := []catalog.RawRecord{
		testsupport.Critic("Hades", "mc://hades", testsupport.Metascore(93)),
		testsupport.Critic("   ", "mc://blank"),
		testsupport.Critic("Celeste", "mc://celeste", testsupport.Metascore(150)),
	}
	b := []catalog.RawRecord{
		testsupport.Store("Hades", "steam://hades", testsupport.Price(24.99)),
		testsupport.Critic("Celeste", "mc://misplaced"),
	}
	res, err := e.Run(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Excluded) != 2 || res.Stats.ExcludedA != 1 || res.Stats.ExcludedB != 1 {
		t.Fatalf("expected one exclusion per source, got %+v", res.Excluded)
	}
	for _, x := range res.Excluded {
		if !errors.Is(x.Err(), catalog.ErrMalformedInput) {
			t.Errorf("exclusion %+v should wrap ErrMalformedInput", x)
		}
	}
	if res.Excluded[0].Index != 1 || res.Excluded[1].Origin != "mc://misplaced" {
		t.Errorf("unexpected exclusions %+v", res.Excluded)
	}

	if len(res.Issues) != 1 || res.Issues[0].Field != catalog.FieldMetascore {
		t.Fatalf("expected one metascore issue, got %+v", res.Issues)
	}
	if !errors.Is(res.Issues[0].Err(), catalog.ErrUnparsableField) {
		t.Errorf("issue should wrap ErrUnparsableField")
	}
	celeste := byTitle(t, res, "Celeste")
	if celeste.Fields.Metascore != nil {
		t.Errorf("out-of-range metascore should be cleared, got %v", *celeste.Fields.Metascore)
	}
	if len(res.Records) != 2 {
		t.Errorf("expected Hades pair and Celeste singleton, got %d records", len(res.Records))
	}
}

func TestRunEmptyBatches(t *testing.T) {
	e := newEngine(t, linkage.DefaultOptions())
	res, err := e.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Records) != 0 || res.Stats.Candidates != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	e := newEngine(t, linkage.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, b := sampleBatches()
	if _, err := e.Run(ctx, a, b); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*linkage.Options)
	}{
		{"threshold", func(o *linkage.Options) { o.Match.MatchThreshold = 1.5 }},
		{"review above match", func(o *linkage.Options) { o.Match.ReviewThreshold = 0.9 }},
		{"scheme", func(o *linkage.Options) { o.Scheme = "soundex" }},
		{"weights", func(o *linkage.Options) { o.Weights.TokenSet = 0.9 }},
		{"critic weight", func(o *linkage.Options) { o.Merge.CriticWeight = -1 }},
		{"nan thresholds", func(o *linkage.Options) { o.Match.MatchThreshold, o.Match.ReviewThreshold = math.NaN(), math.NaN() }},
		{"nan text weights", func(o *linkage.Options) { o.Weights.TokenSet, o.Weights.EditDistance = math.NaN(), math.NaN() }},
		{"infinite year bonus", func(o *linkage.Options) { o.Weights.YearMatchBonus = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := linkage.DefaultOptions()
			tt.mutate(&opts)
			if _, err := linkage.New(opts, nil); !errors.Is(err, catalog.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStrategy("optimal"), testsupport.WithThresholds(0.9, 0.7))
	cfg.Merge.Precedence[catalog.FieldDeveloper] = "prefer_b"
	delete(cfg.Merge.Precedence, catalog.FieldPrice)

	opts, err := linkage.OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Match.Strategy != matcher.StrategyOptimal || opts.Match.MatchThreshold != 0.9 || opts.Match.ReviewThreshold != 0.7 {
		t.Errorf("unexpected match policy %+v", opts.Match)
	}
	if opts.Merge.Precedence[catalog.FieldDeveloper] != "prefer_b" {
		t.Errorf("precedence override lost: %v", opts.Merge.Precedence)
	}
	if opts.Merge.Precedence[catalog.FieldPrice] != merge.RuleBOnly {
		t.Errorf("missing precedence entries should fall back to defaults: %v", opts.Merge.Precedence)
	}
	if opts.Workers != 2 {
		t.Errorf("workers = %d", opts.Workers)
	}
	if opts.Normalize.EditionKeywords != nil {
		t.Errorf("unset edition keywords should stay nil for the built-in list")
	}

	cfg.Linkage.BlockingScheme = "soundex"
	if _, err := linkage.OptionsFromConfig(cfg); !errors.Is(err, catalog.ErrConfiguration) {
		t.Errorf("expected configuration error for bad scheme, got %v", err)
	}
}
