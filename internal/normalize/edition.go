package normalize

import (
	"slices"
	"sort"
	"strings"
)

// DefaultEditionKeywords lists the edition markers stripped from titles.
var DefaultEditionKeywords = []string{
	"definitive edition",
	"game of the year edition",
	"game of the year",
	"goty edition",
	"goty",
	"remastered",
	"remaster",
	"hd remaster",
	"directors cut",
	"complete edition",
	"deluxe edition",
	"digital deluxe edition",
	"gold edition",
	"ultimate edition",
	"enhanced edition",
	"special edition",
	"anniversary edition",
	"collectors edition",
	"legendary edition",
	"premium edition",
	"standard edition",
}

// editionAliases maps keyword variants onto one tag so that differently
// worded markers for the same edition compare equal.
var editionAliases = map[string]string{
	"goty":              "game of the year",
	"goty edition":      "game of the year",
	"remaster":          "remastered",
	"hd remaster":       "remastered",
	"directors edition": "directors cut",
}

// editionKeyword is one marker in token form.
type editionKeyword struct {
	tokens []string
	tag    string
}

// compileKeywords normalizes keywords into token sequences, longest first so
// that "game of the year edition" wins over "game of the year".
func compileKeywords(keywords []string, preserve map[rune]struct{}) []editionKeyword {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]editionKeyword, 0, len(keywords))
	for _, kw := range keywords {
		tokens := strings.Fields(stripPunctuation(dropApostrophes(fold(kw)), preserve))
		if len(tokens) == 0 {
			continue
		}
		joined := strings.Join(tokens, " ")
		if _, ok := seen[joined]; ok {
			continue
		}
		seen[joined] = struct{}{}
		out = append(out, editionKeyword{tokens: tokens, tag: canonicalTag(joined)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].tokens) > len(out[j].tokens)
	})
	return out
}

// canonicalTag reduces a matched keyword to its edition label.
func canonicalTag(keyword string) string {
	if alias, ok := editionAliases[keyword]; ok {
		return alias
	}
	if trimmed := strings.TrimSuffix(keyword, " edition"); trimmed != "" && trimmed != keyword {
		if alias, ok := editionAliases[trimmed]; ok {
			return alias
		}
		return trimmed
	}
	return keyword
}

// hasSuffix reports whether tokens end with kw.
func (kw editionKeyword) hasSuffix(tokens []string) bool {
	n := len(kw.tokens)
	if len(tokens) < n {
		return false
	}
	tail := tokens[len(tokens)-n:]
	for i := range n {
		if tail[i] != kw.tokens[i] {
			return false
		}
	}
	return true
}

// containedIn reports whether kw appears as a contiguous run inside tokens.
func (kw editionKeyword) containedIn(tokens []string) bool {
	n := len(kw.tokens)
	for start := 0; start+n <= len(tokens); start++ {
		match := true
		for i := range n {
			if tokens[start+i] != kw.tokens[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// stripSuffixes removes trailing edition markers until none remain or the
// title would become empty. It returns the remaining tokens and the tags of
// the removed markers.
func stripSuffixes(tokens []string, keywords []editionKeyword) ([]string, []string) {
	var tags []string
	for {
		stripped := false
		for _, kw := range keywords {
			if len(tokens) <= len(kw.tokens) || !kw.hasSuffix(tokens) {
				continue
			}
			tokens = tokens[:len(tokens)-len(kw.tokens)]
			tags = append(tags, kw.tag)
			stripped = true
			break
		}
		if !stripped {
			return tokens, tags
		}
	}
}

// joinTags renders a sorted, deduplicated edition tag.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ", ")
}
