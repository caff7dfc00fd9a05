package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"gamelink/internal/catalog"
)

// Options configures a Normalizer.
type Options struct {
	// EditionKeywords are the markers moved from the title into the edition tag.
	EditionKeywords []string
	// PreservePunctuation lists punctuation runes kept when they sit between
	// two letters or digits, e.g. "-" keeps "half-life" as one token.
	PreservePunctuation string
}

// DefaultOptions returns the standard normalization settings.
func DefaultOptions() Options {
	return Options{EditionKeywords: append([]string(nil), DefaultEditionKeywords...)}
}

// Normalizer maps display titles onto comparable keys. It is safe for
// concurrent use.
type Normalizer struct {
	keywords []editionKeyword
	preserve map[rune]struct{}
}

// New builds a Normalizer. A nil keyword list falls back to the defaults; an
// empty non-nil list disables edition extraction.
func New(opts Options) *Normalizer {
	keywords := opts.EditionKeywords
	if keywords == nil {
		keywords = DefaultEditionKeywords
	}
	preserve := make(map[rune]struct{})
	for _, r := range opts.PreservePunctuation {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		preserve[r] = struct{}{}
	}
	return &Normalizer{
		keywords: compileKeywords(keywords, preserve),
		preserve: preserve,
	}
}

var bracketGroup = regexp.MustCompile(`[\(\[\{]([^\(\)\[\]\{\}]*)[\)\]\}]`)

// Normalize returns the comparable key for title. It never fails.
func (n *Normalizer) Normalize(title string) catalog.NormalizedKey {
	text := dropApostrophes(fold(strings.TrimSpace(title)))

	var tags []string
	text = bracketGroup.ReplaceAllStringFunc(text, func(group string) string {
		inner := bracketGroup.FindStringSubmatch(group)[1]
		tokens := strings.Fields(stripPunctuation(inner, n.preserve))
		for _, kw := range n.keywords {
			if kw.containedIn(tokens) {
				tags = append(tags, kw.tag)
				return " "
			}
		}
		return group
	})
	if len(tags) > 0 && !hasAlnum(text) {
		// Every group was an edition marker; keep the text as the title.
		tags = nil
		text = dropApostrophes(fold(strings.TrimSpace(title)))
	}

	tokens := strings.Fields(stripPunctuation(text, n.preserve))
	tokens, suffixTags := stripSuffixes(tokens, n.keywords)
	tags = append(tags, suffixTags...)
	tokens = romanToArabic(tokens)

	return catalog.NormalizedKey{
		Title:      strings.Join(tokens, " "),
		EditionTag: joinTags(tags),
	}
}

// fold removes symbols such as ™ and ®, strips combining marks after
// compatibility decomposition, and lowercases.
func fold(s string) string {
	t := transform.Chain(runes.Remove(runes.In(unicode.So)), norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Lower(language.Und).String(out)
}

var apostrophes = strings.NewReplacer("'", "", "’", "", "‘", "", "`", "", "ʼ", "")

func dropApostrophes(s string) string {
	return apostrophes.Replace(s)
}

// stripPunctuation reduces everything that is not a letter or digit to a
// token boundary. "&" reads as "and", "." is deleted so "s.t.a.l.k.e.r"
// stays one token, and preserved runes survive between two alphanumerics.
func stripPunctuation(s string, preserve map[rune]struct{}) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '&':
			b.WriteString(" and ")
		case r == '.':
		case isPreserved(rs, i, preserve):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isPreserved(rs []rune, i int, preserve map[rune]struct{}) bool {
	if _, ok := preserve[rs[i]]; !ok {
		return false
	}
	if i == 0 || i == len(rs)-1 {
		return false
	}
	return isAlnum(rs[i-1]) && isAlnum(rs[i+1])
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasAlnum(s string) bool {
	return strings.IndexFunc(s, isAlnum) >= 0
}
