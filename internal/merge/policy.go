package merge

import (
	"maps"
	"slices"
	"strings"

	"gamelink/internal/catalog"
)

// Rule is the precedence applied to one field.
type Rule string

const (
	RuleAOnly   Rule = "a_only"
	RuleBOnly   Rule = "b_only"
	RulePreferA Rule = "prefer_a"
	RulePreferB Rule = "prefer_b"
)

// ParseRule validates the precedence rule configured for field.
func ParseRule(field, value string) (Rule, error) {
	key := "merge.precedence." + field
	if !catalog.IsMergeField(field) {
		return "", catalog.NewConfigError(key, "is not a mergeable field")
	}
	switch r := Rule(strings.ToLower(strings.TrimSpace(value))); r {
	case RuleAOnly, RuleBOnly, RulePreferA, RulePreferB:
		return r, nil
	default:
		return "", catalog.NewConfigError(key, "must be a_only, b_only, prefer_a or prefer_b (got %q)", value)
	}
}

// Policy configures the resolver.
type Policy struct {
	Precedence map[string]Rule
	// CriticWeight is the share of the metascore in the combined score.
	CriticWeight float64
}

// DefaultPrecedence returns the standard precedence table.
func DefaultPrecedence() map[string]Rule {
	return map[string]Rule{
		catalog.FieldMetascore:     RuleAOnly,
		catalog.FieldPlatform:      RuleAOnly,
		catalog.FieldPrice:         RuleBOnly,
		catalog.FieldReviewSummary: RuleBOnly,
		catalog.FieldReviewCount:   RuleBOnly,
		catalog.FieldTags:          RuleBOnly,
		catalog.FieldDeveloper:     RulePreferA,
		catalog.FieldPublisher:     RulePreferA,
		catalog.FieldGenres:        RulePreferA,
		catalog.FieldReleaseDate:   RulePreferA,
	}
}

// DefaultPolicy returns the standard merge settings.
func DefaultPolicy() Policy {
	return Policy{Precedence: DefaultPrecedence(), CriticWeight: 0.6}
}

// Validate checks that every merge field has a known rule and the critic
// weight lies in [0, 1].
func (p Policy) Validate() error {
	for _, field := range slices.Sorted(maps.Keys(p.Precedence)) {
		if _, err := ParseRule(field, string(p.Precedence[field])); err != nil {
			return err
		}
	}
	for _, field := range catalog.MergeFields {
		if _, ok := p.Precedence[field]; !ok {
			return catalog.NewConfigError("merge.precedence."+field, "is missing")
		}
	}
	return catalog.CheckUnit("merge.critic_weight", p.CriticWeight)
}

// WithDefaults fills fields missing from the precedence table with the
// standard rules.
func (p Policy) WithDefaults() Policy {
	table := DefaultPrecedence()
	for field, rule := range p.Precedence {
		table[field] = rule
	}
	p.Precedence = table
	return p
}
