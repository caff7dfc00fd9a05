package logging

import (
	"log/slog"
	"math"
	"time"

	"gamelink/internal/catalog"
)

// Attr is the attribute type accepted by the helpers in this package.
type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Source tags an entry with the catalog a record came from.
func Source(src catalog.Source) Attr { return slog.String(FieldSource, string(src)) }

// Score records a similarity value rounded to four decimals.
func Score(key string, value float64) Attr {
	return slog.Float64(key, math.Round(value*1e4)/1e4)
}

// Candidate describes a scored pair by its normalized keys, score, and year gap.
func Candidate(c catalog.MatchCandidate) []Attr {
	attrs := []Attr{
		slog.String("a_key", c.A.Key),
		slog.String("b_key", c.B.Key),
		Score("score", c.Score),
	}
	if c.Reasons.YearDelta != nil {
		attrs = append(attrs, slog.Int("year_delta", *c.Reasons.YearDelta))
	}
	return attrs
}

// Reasons groups the sub-scores of a candidate under "reasons".
func Reasons(r catalog.Reasons) Attr {
	return slog.Group("reasons",
		Score("token_set", r.TokenSet),
		Score("edit_ratio", r.EditRatio),
		Score("year_adjust", r.YearAdjust),
		Score("edition_adjust", r.EditionAdjust),
	)
}

// FieldIssue describes a dropped field value.
func FieldIssue(issue catalog.FieldIssue) []Attr {
	return []Attr{
		Source(issue.Source),
		slog.String("origin", issue.Origin),
		slog.String("field", issue.Field),
		slog.String("value", issue.Value),
		slog.String("reason", issue.Reason),
	}
}

// Args converts attributes into slog's variadic argument form.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

func withDefault(attrs []Attr, key, value string) []Attr {
	for _, a := range attrs {
		if a.Key == key {
			return attrs
		}
	}
	return append(attrs, String(key, value))
}

// WarnWithContext logs a warning carrying event_type, error_hint, and impact.
// Missing fields get generic defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check logs for details")
	attrs = withDefault(attrs, FieldImpact, "run completed with warnings")
	logger.Warn(msg, Args(attrs...)...)
}

// ErrorWithContext logs an error carrying event_type and error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check logs for details")
	logger.Error(msg, Args(attrs...)...)
}

// DecisionAttrs builds the decision_type, decision_result, and
// decision_reason attributes shared by all decision logs.
func DecisionAttrs(decisionType, result, reason string) []Attr {
	return []Attr{
		String(FieldDecisionType, decisionType),
		String("decision_result", result),
		String("decision_reason", reason),
	}
}
