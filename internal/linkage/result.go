package linkage

import (
	"time"

	"gamelink/internal/blocking"
	"gamelink/internal/catalog"
)

// Exclusion is an input record that could not take part in linkage.
type Exclusion struct {
	Source catalog.Source `json:"source"`
	// Index is the position of the record in its input batch.
	Index  int    `json:"index"`
	Origin string `json:"origin,omitempty"`
	Reason string `json:"reason"`
}

// Err returns the exclusion as an error wrapping catalog.ErrMalformedInput.
func (x Exclusion) Err() error {
	return &catalog.RecordError{Source: x.Source, Origin: x.Origin, Reason: x.Reason}
}

// Stats summarizes one run.
type Stats struct {
	InputA      int            `json:"input_a"`
	InputB      int            `json:"input_b"`
	ExcludedA   int            `json:"excluded_a"`
	ExcludedB   int            `json:"excluded_b"`
	FieldIssues int            `json:"field_issues"`
	Blocking    blocking.Stats `json:"blocking"`
	Candidates  int            `json:"candidates"`
	Matched     int            `json:"matched"`
	AOnly       int            `json:"a_only"`
	BOnly       int            `json:"b_only"`
	Workers     int            `json:"workers"`
	Duration    time.Duration  `json:"duration"`
}

// Result is the output of Engine.Run.
type Result struct {
	Records  []catalog.UnifiedRecord `json:"records"`
	Excluded []Exclusion             `json:"excluded,omitempty"`
	Issues   []catalog.FieldIssue    `json:"issues,omitempty"`
	Stats    Stats                   `json:"stats"`
}
