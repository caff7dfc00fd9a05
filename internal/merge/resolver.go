package merge

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gamelink/internal/catalog"
)

// Resolver builds unified records. It holds no mutable state and is safe
// for concurrent use.
type Resolver struct {
	policy Policy
}

// New validates policy and returns a Resolver.
func New(policy Policy) (*Resolver, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{policy: policy}, nil
}

// Policy returns the resolver configuration.
func (r *Resolver) Policy() Policy { return r.policy }

// Pair merges a matched A/B pair. The candidate supplies the confidence and
// the reason vector.
func (r *Resolver) Pair(a, b catalog.RawRecord, c catalog.MatchCandidate) catalog.UnifiedRecord {
	u := r.resolve(&a, &b)
	u.Kind = catalog.KindMatched
	confidence := c.Score
	u.MatchConfidence = &confidence
	reasons := c.Reasons
	u.Reasons = &reasons
	return u
}

// Singleton wraps an unmatched record. Fields the precedence table reserves
// for the other source stay absent, and the confidence is null.
func (r *Resolver) Singleton(rec catalog.RawRecord) catalog.UnifiedRecord {
	var u catalog.UnifiedRecord
	if rec.Source == catalog.SourceB {
		u = r.resolve(nil, &rec)
		u.Kind = catalog.KindBOnly
	} else {
		u = r.resolve(&rec, nil)
		u.Kind = catalog.KindAOnly
	}
	return u
}

func (r *Resolver) resolve(a, b *catalog.RawRecord) catalog.UnifiedRecord {
	u := catalog.UnifiedRecord{Provenance: make(map[string]catalog.Provenance, len(catalog.MergeFields))}
	switch {
	case a != nil:
		u.GameTitle = strings.TrimSpace(a.Title)
		u.TitleSource = catalog.SourceA
	case b != nil:
		u.GameTitle = strings.TrimSpace(b.Title)
		u.TitleSource = catalog.SourceB
	}
	if a != nil {
		u.MetacriticURL = a.Origin
	}
	if b != nil {
		u.SteamURL = b.Origin
	}

	for _, acc := range accessors {
		rule := r.policy.Precedence[acc.name]
		prov, conflict := r.resolveField(acc, rule, a, b, &u.Fields)
		u.Provenance[acc.name] = prov
		if conflict != nil {
			u.Conflicts = append(u.Conflicts, *conflict)
		}
	}

	if f := u.Fields; f.Metascore != nil && f.ReviewSummary != nil {
		if score, ok := CombinedScore(*f.Metascore, *f.ReviewSummary, r.policy.CriticWeight); ok {
			u.CombinedScore = &score
		}
	}
	return u
}

func (r *Resolver) resolveField(acc accessor, rule Rule, a, b *catalog.RawRecord, dst *catalog.Fields) (catalog.Provenance, *catalog.Conflict) {
	hasA := a != nil && acc.present(&a.Fields)
	hasB := b != nil && acc.present(&b.Fields)

	switch rule {
	case RuleAOnly:
		hasB = false
	case RuleBOnly:
		hasA = false
	}

	switch {
	case hasA && hasB:
		preferred := catalog.SourceA
		if rule == RulePreferB {
			preferred = catalog.SourceB
		}
		if acc.equal(&a.Fields, &b.Fields) {
			acc.copy(dst, pick(preferred, a, b))
			return catalog.ProvenanceAgree, nil
		}
		shown := displaySource(acc, a, b, preferred)
		acc.copy(dst, pick(shown, a, b))
		return catalog.ProvenanceConflict, &catalog.Conflict{
			Field:     acc.name,
			A:         acc.display(&a.Fields),
			B:         acc.display(&b.Fields),
			Displayed: shown,
		}
	case hasA:
		acc.copy(dst, &a.Fields)
		return catalog.ProvenanceA, nil
	case hasB:
		acc.copy(dst, &b.Fields)
		return catalog.ProvenanceB, nil
	default:
		return catalog.ProvenanceNone, nil
	}
}

// displaySource picks the value shown for a conflict: the longer text or
// list, then the more recently scraped record, then the preferred source.
func displaySource(acc accessor, a, b *catalog.RawRecord, preferred catalog.Source) catalog.Source {
	if acc.length != nil {
		la, lb := acc.length(&a.Fields), acc.length(&b.Fields)
		switch {
		case la > lb:
			return catalog.SourceA
		case lb > la:
			return catalog.SourceB
		}
	}
	if a.ScrapedAt != nil && b.ScrapedAt != nil && !a.ScrapedAt.Equal(*b.ScrapedAt) {
		if a.ScrapedAt.After(*b.ScrapedAt) {
			return catalog.SourceA
		}
		return catalog.SourceB
	}
	return preferred
}

func pick(src catalog.Source, a, b *catalog.RawRecord) *catalog.Fields {
	if src == catalog.SourceB {
		return &b.Fields
	}
	return &a.Fields
}

// accessor reads and writes one field of catalog.Fields.
type accessor struct {
	name    string
	present func(f *catalog.Fields) bool
	equal   func(a, b *catalog.Fields) bool
	display func(f *catalog.Fields) string
	copy    func(dst, src *catalog.Fields)
	// length ranks text and list values for conflict display; nil for
	// numbers and dates.
	length func(f *catalog.Fields) int
}

var accessors = []accessor{
	{
		name:    catalog.FieldMetascore,
		present: func(f *catalog.Fields) bool { return f.Metascore != nil },
		equal:   func(a, b *catalog.Fields) bool { return *a.Metascore == *b.Metascore },
		display: func(f *catalog.Fields) string { return catalog.FormatNumber(f.Metascore) },
		copy:    func(dst, src *catalog.Fields) { dst.Metascore = src.Metascore },
	},
	{
		name:    catalog.FieldPrice,
		present: func(f *catalog.Fields) bool { return f.Price != nil },
		equal:   func(a, b *catalog.Fields) bool { return *a.Price == *b.Price },
		display: func(f *catalog.Fields) string { return catalog.FormatNumber(f.Price) },
		copy:    func(dst, src *catalog.Fields) { dst.Price = src.Price },
	},
	textAccessor(catalog.FieldReviewSummary, func(f *catalog.Fields) **string { return &f.ReviewSummary }),
	{
		name:    catalog.FieldReviewCount,
		present: func(f *catalog.Fields) bool { return f.ReviewCount != nil },
		equal:   func(a, b *catalog.Fields) bool { return *a.ReviewCount == *b.ReviewCount },
		display: func(f *catalog.Fields) string { return strconv.Itoa(*f.ReviewCount) },
		copy:    func(dst, src *catalog.Fields) { dst.ReviewCount = src.ReviewCount },
	},
	{
		name:    catalog.FieldReleaseDate,
		present: func(f *catalog.Fields) bool { return f.ReleaseDate != nil },
		equal:   func(a, b *catalog.Fields) bool { return sameDay(*a.ReleaseDate, *b.ReleaseDate) },
		display: func(f *catalog.Fields) string { return f.ReleaseDate.Format(catalog.DateLayout) },
		copy:    func(dst, src *catalog.Fields) { dst.ReleaseDate = src.ReleaseDate },
	},
	textAccessor(catalog.FieldDeveloper, func(f *catalog.Fields) **string { return &f.Developer }),
	textAccessor(catalog.FieldPublisher, func(f *catalog.Fields) **string { return &f.Publisher }),
	listAccessor(catalog.FieldGenres, func(f *catalog.Fields) *[]string { return &f.Genres }),
	listAccessor(catalog.FieldTags, func(f *catalog.Fields) *[]string { return &f.Tags }),
	textAccessor(catalog.FieldPlatform, func(f *catalog.Fields) **string { return &f.Platform }),
}

func textAccessor(name string, field func(f *catalog.Fields) **string) accessor {
	return accessor{
		name:    name,
		present: func(f *catalog.Fields) bool { return *field(f) != nil },
		equal: func(a, b *catalog.Fields) bool {
			return foldText(**field(a)) == foldText(**field(b))
		},
		display: func(f *catalog.Fields) string { return **field(f) },
		copy:    func(dst, src *catalog.Fields) { *field(dst) = *field(src) },
		length:  func(f *catalog.Fields) int { return utf8.RuneCountInString(strings.TrimSpace(**field(f))) },
	}
}

func listAccessor(name string, field func(f *catalog.Fields) *[]string) accessor {
	return accessor{
		name:    name,
		present: func(f *catalog.Fields) bool { return len(*field(f)) > 0 },
		equal: func(a, b *catalog.Fields) bool {
			la, lb := *field(a), *field(b)
			if len(la) != len(lb) {
				return false
			}
			for i := range la {
				if foldText(la[i]) != foldText(lb[i]) {
					return false
				}
			}
			return true
		},
		display: func(f *catalog.Fields) string { return catalog.FormatList(*field(f)) },
		copy:    func(dst, src *catalog.Fields) { *field(dst) = *field(src) },
		length: func(f *catalog.Fields) int {
			return utf8.RuneCountInString(catalog.FormatList(*field(f)))
		},
	}
}

func foldText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
