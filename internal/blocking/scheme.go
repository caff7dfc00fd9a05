package blocking

import (
	"slices"
	"strings"

	"gamelink/internal/catalog"
	"gamelink/internal/textutil"
)

// Scheme selects how block keys are derived from a normalized key.
type Scheme string

const (
	// SchemeFirstToken blocks on the first significant token.
	SchemeFirstToken Scheme = "first_token"
	// SchemePrefix blocks on the first three characters.
	SchemePrefix Scheme = "prefix"
	// SchemeMulti combines first_token and prefix.
	SchemeMulti Scheme = "multi"
	// SchemeTokens blocks on every significant token.
	SchemeTokens Scheme = "tokens"
)

// DefaultScheme is used when no scheme is configured.
const DefaultScheme = SchemeMulti

const prefixLength = 3

var leadingArticles = map[string]struct{}{"the": {}, "a": {}, "an": {}}

var stopwords = map[string]struct{}{"the": {}, "a": {}, "an": {}, "of": {}, "and": {}}

// ParseScheme validates a configured scheme name. Blank selects the default.
func ParseScheme(name string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return DefaultScheme, nil
	case SchemeFirstToken, SchemePrefix, SchemeMulti, SchemeTokens:
		return s, nil
	default:
		return "", catalog.NewConfigError("linkage.blocking_scheme", "must be one of first_token, prefix, multi, tokens (got %q)", name)
	}
}

// Keys returns the sorted, distinct block keys for a normalized key.
// An empty key has no block keys.
func (s Scheme) Keys(key string) []string {
	tokens := textutil.Tokens(key)
	if len(tokens) == 0 {
		return nil
	}
	lead := trimArticles(tokens)

	var keys []string
	switch s {
	case SchemeFirstToken:
		keys = append(keys, "t:"+lead[0])
	case SchemePrefix:
		keys = append(keys, "p:"+prefix(lead))
	case SchemeTokens:
		for _, tok := range tokens {
			if _, stop := stopwords[tok]; stop {
				continue
			}
			keys = append(keys, "w:"+tok)
		}
		if len(keys) == 0 {
			keys = append(keys, "w:"+tokens[0])
		}
	default:
		keys = append(keys, "t:"+lead[0], "p:"+prefix(lead))
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// trimArticles drops leading articles unless nothing would remain.
func trimArticles(tokens []string) []string {
	for i, tok := range tokens {
		if _, ok := leadingArticles[tok]; !ok {
			return tokens[i:]
		}
	}
	return tokens
}

func prefix(tokens []string) string {
	joined := []rune(strings.Join(tokens, ""))
	if len(joined) > prefixLength {
		joined = joined[:prefixLength]
	}
	return string(joined)
}
