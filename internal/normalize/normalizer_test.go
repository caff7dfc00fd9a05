package normalize

import "testing"

func TestNormalize(t *testing.T) {
	n := New(DefaultOptions())
	tests := []struct {
		name    string
		input   string
		title   string
		edition string
	}{
		{"hyphen becomes boundary", "Half-Life 2", "half life 2", ""},
		{"plain spacing", "  Half   Life 2 ", "half life 2", ""},
		{"trademark and apostrophe", "Sid Meier's Civilization® VI", "sid meiers civilization 6", ""},
		{"accents folded", "Pokémon Mystery Dungeon", "pokemon mystery dungeon", ""},
		{"colon suffix edition", "Age of Empires II: Definitive Edition", "age of empires 2", "definitive"},
		{"bare suffix edition", "Dark Souls Remastered", "dark souls", "remastered"},
		{"parenthetical edition", "The Witcher 3: Wild Hunt (Game of the Year Edition)", "the witcher 3 wild hunt", "game of the year"},
		{"goty alias", "The Witcher 3: Wild Hunt - GOTY", "the witcher 3 wild hunt", "game of the year"},
		{"stacked editions", "BioShock [Remastered] - Deluxe Edition", "bioshock", "deluxe, remastered"},
		{"non edition bracket kept", "Subnautica (Early Access)", "subnautica early access", ""},
		{"ampersand", "Ratchet & Clank", "ratchet and clank", ""},
		{"dotted acronym", "S.T.A.L.K.E.R.: Shadow of Chernobyl", "stalker shadow of chernobyl", ""},
		{"director's cut", "Death Stranding Director's Cut", "death stranding", "directors cut"},
		{"roman numeral suffix", "Final Fantasy VII", "final fantasy 7", ""},
		{"roman numeral twenty", "Game XX", "game 20", ""},
		{"single letter v at end", "Grand Theft Auto V", "grand theft auto 5", ""},
		{"leading single letter kept", "X-Men Origins", "x men origins", ""},
		{"lone i only at end", "I Am Bread", "i am bread", ""},
		{"lone i at end converts", "Diablo I", "diablo 1", ""},
		{"out of range numeral", "Rocky XXI", "rocky xxi", ""},
		{"edition only title kept", "Remastered", "remastered", ""},
		{"edition only bracket kept", "(Deluxe Edition)", "deluxe edition", ""},
		{"empty", "", "", ""},
		{"punctuation only", " ?!- ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got.Title != tt.title {
				t.Errorf("Normalize(%q).Title = %q, want %q", tt.input, got.Title, tt.title)
			}
			if got.EditionTag != tt.edition {
				t.Errorf("Normalize(%q).EditionTag = %q, want %q", tt.input, got.EditionTag, tt.edition)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(DefaultOptions())
	inputs := []string{
		"Half-Life 2",
		"Sid Meier's Civilization VI: Gathering Storm",
		"The Elder Scrolls V: Skyrim Special Edition",
		"Remastered",
		"(Deluxe Edition) (Remastered)",
		"Foo I Remastered",
		"Foo Remastered)",
		"NieR:Automata™ Game of the YoRHa Edition",
		"a.-b",
		"Mario + Rabbids® Kingdom Battle",
		"ＦＵＬＬＷＩＤＴＨ Ⅱ",
		"",
	}
	for _, in := range inputs {
		first := n.Normalize(in)
		second := n.Normalize(first.Title)
		if second.Title != first.Title {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, first.Title, second.Title)
		}
	}
}

func TestPreservePunctuation(t *testing.T) {
	n := New(Options{PreservePunctuation: "-:"})
	got := n.Normalize("Half-Life 2: Episode One")
	if got.Title != "half-life 2 episode one" {
		t.Fatalf("Title = %q", got.Title)
	}
	again := n.Normalize(got.Title)
	if again.Title != got.Title {
		t.Errorf("preserved punctuation not idempotent: %q -> %q", got.Title, again.Title)
	}
	edge := n.Normalize("-Half- Life-")
	if edge.Title != "half life" {
		t.Errorf("edge punctuation should not be preserved, got %q", edge.Title)
	}
}

func TestEmptyKeywordListDisablesEditions(t *testing.T) {
	n := New(Options{EditionKeywords: []string{}})
	got := n.Normalize("Dark Souls Remastered")
	if got.Title != "dark souls remastered" || got.EditionTag != "" {
		t.Errorf("got %+v", got)
	}
}

func TestRomanValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"i", 1, true},
		{"iv", 4, true},
		{"ix", 9, true},
		{"xiv", 14, true},
		{"xix", 19, true},
		{"xx", 20, true},
		{"xxi", 0, false},
		{"iiii", 0, false},
		{"mix", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := romanValue(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("romanValue(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
