package normalize

import (
	"regexp"
	"strconv"
)

var romanToken = regexp.MustCompile(`^(x{0,2})(ix|iv|v?i{0,3})$`)

var romanDigits = map[string]int{
	"": 0, "i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
	"vi": 6, "vii": 7, "viii": 8, "ix": 9,
}

// romanValue parses a lowercase Roman numeral between 1 and 20.
func romanValue(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	m := romanToken.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	value := 10*len(m[1]) + romanDigits[m[2]]
	if value < 1 || value > 20 {
		return 0, false
	}
	return value, true
}

// romanToArabic rewrites standalone numerals I-XX as digits. Single-letter
// numerals are ambiguous with words and initials: "v" and "x" convert only
// after the first token, and "i" only as the last token of a longer title.
func romanToArabic(tokens []string) []string {
	out := make([]string, len(tokens))
	last := len(tokens) - 1
	for i, tok := range tokens {
		out[i] = tok
		value, ok := romanValue(tok)
		if !ok {
			continue
		}
		if len(tok) == 1 {
			if i == 0 {
				continue
			}
			if tok == "i" && i != last {
				continue
			}
		}
		out[i] = strconv.Itoa(value)
	}
	return out
}
