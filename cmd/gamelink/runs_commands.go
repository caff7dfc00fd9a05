package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gamelink/internal/catalog"
	"gamelink/internal/history"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded linkage runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if runs == nil {
					runs = []*history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					humanize.Time(run.StartedAt),
					humanize.Comma(int64(run.Total)),
					humanize.Comma(int64(run.Matched)),
					humanize.Comma(int64(run.AOnly)),
					humanize.Comma(int64(run.BOnly)),
					run.Strategy,
					run.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Total", "Matched", "A only", "B only", "Strategy", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var showRecords bool
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run; a unique ID prefix is enough",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var records []catalog.UnifiedRecord
			if showRecords {
				if records, err = store.RunRecords(cmd.Context(), run.ID); err != nil {
					return err
				}
			}
			if jsonOutput {
				return writeJSON(cmd, struct {
					Run     *history.Run            `json:"run"`
					Records []catalog.UnifiedRecord `json:"records,omitempty"`
				}{run, records})
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"ID", run.ID},
				{"Started", fmt.Sprintf("%s (%s)", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))},
				{"Duration", run.Duration().Round(time.Millisecond).String()},
				{"Source A", run.InputA.Path},
				{"Source A digest", run.InputA.Digest},
				{"Source B", run.InputB.Path},
				{"Source B digest", run.InputB.Digest},
				{"Strategy", run.Strategy},
				{"Thresholds", fmt.Sprintf("match %.2f / review %.2f", run.MatchThreshold, run.ReviewThreshold)},
				{"Unified records", humanize.Comma(int64(run.Total))},
				{"Matched", humanize.Comma(int64(run.Matched))},
				{"Metacritic only", humanize.Comma(int64(run.AOnly))},
				{"Steam only", humanize.Comma(int64(run.BOnly))},
				{"Excluded", humanize.Comma(int64(run.Excluded))},
				{"With conflicts", humanize.Comma(int64(run.Conflicts))},
				{"Output", fmt.Sprintf("%s (%s)", run.OutputPath, run.OutputFormat)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

			if showRecords {
				recRows := make([][]string, 0, len(records))
				for _, rec := range records {
					recRows = append(recRows, []string{
						rec.GameTitle,
						string(rec.Kind),
						rec.Cell(catalog.FieldMatchConfidence),
						rec.Cell(catalog.FieldCombinedScore),
						strconv.Itoa(len(rec.Conflicts)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Title", "Kind", "Confidence", "Combined", "Conflicts"},
					recRows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showRecords, "records", false, "Also list the run's unified records")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
