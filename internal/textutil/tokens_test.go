package textutil

import "testing"

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "half life 2", "half life 2", 1},
		{"disjoint", "portal", "hades", 0},
		{"partial", "dark souls 2", "dark souls 3", 0.5},
		{"duplicate tokens", "go go go", "go", 1},
		{"empty left", "", "portal", 0},
		{"both empty", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Jaccard(tt.b, tt.a); got != tt.want {
				t.Errorf("Jaccard(%q, %q) = %v, want %v (reversed)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("  the witcher  3 the ")
	if len(set) != 3 {
		t.Fatalf("expected 3 distinct tokens, got %d", len(set))
	}
	for _, tok := range []string{"the", "witcher", "3"} {
		if _, ok := set[tok]; !ok {
			t.Errorf("missing token %q", tok)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"videogames_final.csv", "videogames_final.csv"},
		{" a/b:c?.json ", "a-b-c.json"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
