package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gamelink/internal/blocking"
	"gamelink/internal/catalog"
	"gamelink/internal/linkage"
	"gamelink/internal/matcher"
	"gamelink/internal/normalize"
	"gamelink/internal/similarity"
)

type scoreOutcome struct {
	Candidate catalog.MatchCandidate `json:"candidate"`
	KeyA      catalog.NormalizedKey  `json:"key_a"`
	KeyB      catalog.NormalizedKey  `json:"key_b"`
	BlocksA   []string               `json:"blocks_a"`
	BlocksB   []string               `json:"blocks_b"`
	Shared    string                 `json:"shared_block,omitempty"`
	Eligible  bool                   `json:"eligible"`
	Decision  string                 `json:"decision"`
}

// blockOutcome reports the block keys of a single pair and the first key
// they share. A pair without a shared key is never compared during linkage.
func (o *scoreOutcome) blockOutcome(scheme blocking.Scheme) {
	ix := blocking.Build(scheme, []string{o.KeyA.Title}, []string{o.KeyB.Title})
	o.BlocksA, o.BlocksB = ix.KeysA(0), ix.KeysB(0)
	for _, key := range o.BlocksA {
		if b, ok := ix.Lookup(key); ok && len(b.B) > 0 {
			o.Shared = key
			return
		}
	}
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var yearA, yearB int
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "score <title-a> <title-b>",
		Short: "Score a Metacritic title against a Steam title and explain the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := linkage.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			scorer, err := similarity.New(opts.Weights)
			if err != nil {
				return err
			}
			n := normalize.New(opts.Normalize)

			a := scoreInput(n, catalog.SourceA, args[0], yearA)
			b := scoreInput(n, catalog.SourceB, args[1], yearB)
			outcome := scoreOutcome{Candidate: scorer.Score(a, b), KeyA: a.Key, KeyB: b.Key}
			outcome.blockOutcome(opts.Scheme)
			outcome.Eligible, outcome.Decision = opts.Match.Decide(outcome.Candidate)

			if jsonOutput {
				return writeJSON(cmd, outcome)
			}
			printScore(cmd, outcome, opts.Match)
			return nil
		},
	}
	cmd.Flags().IntVar(&yearA, "year-a", 0, "Release year of the Metacritic title")
	cmd.Flags().IntVar(&yearB, "year-b", 0, "Release year of the Steam title")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func scoreInput(n *normalize.Normalizer, src catalog.Source, title string, year int) similarity.Input {
	in := similarity.Input{Source: src, Key: n.Normalize(title)}
	in.Ref.Key = in.Key.Title
	if year > 0 {
		in.Year = year
		in.HasYear = true
	}
	return in
}

func printScore(cmd *cobra.Command, o scoreOutcome, policy matcher.Policy) {
	out := cmd.OutOrStdout()
	r := o.Candidate.Reasons
	yearDelta := "n/a"
	if r.YearDelta != nil {
		yearDelta = strconv.Itoa(*r.YearDelta)
	}
	shared := o.Shared
	if shared == "" {
		shared = "none (pair is not compared during linkage)"
	}
	rows := [][]string{
		{"Key A", o.KeyA.Title},
		{"Key B", o.KeyB.Title},
		{"Edition A", o.KeyA.EditionTag},
		{"Edition B", o.KeyB.EditionTag},
		{"Blocks A", strings.Join(o.BlocksA, " ")},
		{"Blocks B", strings.Join(o.BlocksB, " ")},
		{"Shared block", shared},
		{"Token set", fmt.Sprintf("%.4f", r.TokenSet)},
		{"Edit ratio", fmt.Sprintf("%.4f", r.EditRatio)},
		{"Text score", fmt.Sprintf("%.4f", r.Text)},
		{"Year delta", yearDelta},
		{"Year adjust", fmt.Sprintf("%+.2f", r.YearAdjust)},
		{"Edition adjust", fmt.Sprintf("%+.2f", r.EditionAdjust)},
		{"Score", fmt.Sprintf("%.4f", o.Candidate.Score)},
		{"Thresholds", fmt.Sprintf("match %.2f / review %.2f", policy.MatchThreshold, policy.ReviewThreshold)},
	}
	fmt.Fprintln(out, renderTable([]string{"Reason", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	kind := statusWarn
	if o.Eligible {
		kind = statusOK
	}
	fmt.Fprintln(out, renderStatusLine("Decision", kind, o.Decision, shouldColorize(out)))
}
