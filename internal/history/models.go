package history

import (
	"fmt"
	"path/filepath"
	"time"

	"gamelink/internal/catalog"
	"gamelink/internal/fileutil"
)

// Input identifies one source file of a run.
type Input struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// DescribeInput resolves path to an absolute location and hashes its content.
func DescribeInput(path string) (Input, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Input{}, fmt.Errorf("resolve input path: %w", err)
	}
	digest, _, err := fileutil.Digest(abs)
	if err != nil {
		return Input{}, fmt.Errorf("digest input: %w", err)
	}
	return Input{Path: abs, Digest: digest}, nil
}

// Run is one persisted linkage run.
type Run struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	InputA          Input     `json:"input_a"`
	InputB          Input     `json:"input_b"`
	Strategy        string    `json:"strategy"`
	MatchThreshold  float64   `json:"match_threshold"`
	ReviewThreshold float64   `json:"review_threshold"`
	Total           int       `json:"total"`
	Matched         int       `json:"matched"`
	AOnly           int       `json:"a_only"`
	BOnly           int       `json:"b_only"`
	Excluded        int       `json:"excluded"`
	Conflicts       int       `json:"conflicts"`
	OutputPath      string    `json:"output_path"`
	OutputFormat    string    `json:"output_format"`
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Tally fills the record counts of r from records.
func (r *Run) Tally(records []catalog.UnifiedRecord) {
	r.Total = len(records)
	r.Matched, r.AOnly, r.BOnly, r.Conflicts = 0, 0, 0, 0
	for _, rec := range records {
		switch rec.Kind {
		case catalog.KindMatched:
			r.Matched++
		case catalog.KindAOnly:
			r.AOnly++
		case catalog.KindBOnly:
			r.BOnly++
		}
		if rec.HasConflicts() {
			r.Conflicts++
		}
	}
}
