package merge

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// reviewScores maps storefront review summaries onto a 0-100 scale.
var reviewScores = map[string]float64{
	"overwhelmingly positive": 95,
	"very positive":           85,
	"positive":                75,
	"mostly positive":         65,
	"mixed":                   50,
	"mostly negative":         35,
	"negative":                25,
	"very negative":           15,
	"overwhelmingly negative": 5,
}

var percentPattern = regexp.MustCompile(`(\d{1,3})\s*%`)

// ReviewScore converts a review summary to 0-100. Known summary labels use
// the fixed table; otherwise an explicit percentage in the text is used.
func ReviewScore(summary string) (float64, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(summary)), " ")
	if key == "" {
		return 0, false
	}
	if score, ok := reviewScores[key]; ok {
		return score, true
	}
	if m := percentPattern.FindStringSubmatch(key); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil && v <= 100 {
			return float64(v), true
		}
	}
	return 0, false
}

// CombinedScore blends a metascore with a review summary. It reports false
// when the summary cannot be scored.
func CombinedScore(metascore float64, summary string, criticWeight float64) (float64, bool) {
	review, ok := ReviewScore(summary)
	if !ok {
		return 0, false
	}
	return round2(metascore*criticWeight + review*(1-criticWeight)), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
