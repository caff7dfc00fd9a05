package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gamelink/internal/config"
	"gamelink/internal/history"
	"gamelink/internal/ingest"
	"gamelink/internal/linkage"
	"gamelink/internal/logging"
	"gamelink/internal/publish"
	"gamelink/internal/report"
	"gamelink/internal/textutil"
)

type linkFlags struct {
	a              string
	b              string
	format         string
	name           string
	timestamped    bool
	noHistory      bool
	skipValidation bool
	jsonOutput     bool
}

// linkOutcome is the machine-readable result of one link run.
type linkOutcome struct {
	RunID      string              `json:"run_id"`
	OutputPath string              `json:"output_path"`
	Summary    report.Summary      `json:"summary"`
	Stats      linkage.Stats       `json:"stats"`
	Excluded   []linkage.Exclusion `json:"excluded,omitempty"`
	Duplicates int                 `json:"duplicates"`
	Skipped    int                 `json:"skipped"`
	Issues     int                 `json:"field_issues"`
	Validation string              `json:"validation,omitempty"`
	History    bool                `json:"history"`
}

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var flags linkFlags

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a Metacritic export with a Steam export and publish the merged catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, ctx, flags)
		},
	}

	cmd.Flags().StringVar(&flags.a, "a", "", "Metacritic export (CSV or JSON)")
	cmd.Flags().StringVar(&flags.b, "b", "", "Steam export (CSV or JSON)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: csv or json (default from config)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Output file name (default from config)")
	cmd.Flags().BoolVar(&flags.timestamped, "timestamped", false, "Name the output after the current time")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record the run in history")
	cmd.Flags().BoolVar(&flags.skipValidation, "skip-validation", false, "Publish even when the dataset gates fail")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run summary as JSON")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func runLink(cmd *cobra.Command, ctx *commandContext, flags linkFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	started := time.Now()
	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logger)

	if flags.a, err = resolveInput(flags.a); err != nil {
		return fmt.Errorf("source A: %w", err)
	}
	if flags.b, err = resolveInput(flags.b); err != nil {
		return fmt.Errorf("source B: %w", err)
	}
	batchA, err := loadBatch(flags.a, ingest.CleanMetacritic)
	if err != nil {
		return fmt.Errorf("load source A: %w", err)
	}
	batchB, err := loadBatch(flags.b, ingest.CleanSteam)
	if err != nil {
		return fmt.Errorf("load source B: %w", err)
	}
	logIngest(logger, "metacritic", flags.a, batchA)
	logIngest(logger, "steam", flags.b, batchB)

	opts, err := linkage.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	engine, err := linkage.New(opts, logger)
	if err != nil {
		return err
	}
	result, err := engine.Run(runCtx, batchA.Records, batchB.Records)
	if err != nil {
		return fmt.Errorf("link catalogs: %w", err)
	}

	summary := report.Summarize(result.Records)
	outcome := linkOutcome{
		RunID:      runID,
		Summary:    summary,
		Stats:      result.Stats,
		Excluded:   result.Excluded,
		Duplicates: batchA.Duplicates + batchB.Duplicates,
		Skipped:    batchA.Skipped + batchB.Skipped,
		Issues:     len(batchA.Issues) + len(batchB.Issues) + len(result.Issues),
	}

	thresholds := report.Thresholds{MinRows: cfg.Validation.MinRows, MinMatched: cfg.Validation.MinMatched}
	if verr := report.Validate(summary, thresholds); verr != nil {
		outcome.Validation = verr.Error()
		if cfg.Validation.Enforce && !flags.skipValidation {
			logging.ErrorWithContext(logger, "dataset validation failed", "validation_failed",
				logging.Error(verr),
				logging.String(logging.FieldErrorHint, "check the inputs or rerun with --skip-validation"),
			)
			return verr
		}
		logging.WarnWithContext(logger, "dataset validation failed", "validation_failed",
			logging.Error(verr),
			logging.String(logging.FieldImpact, "catalog published anyway"),
		)
	}

	pubOpts, err := publishOptions(cfg, flags)
	if err != nil {
		return err
	}
	outcome.OutputPath, err = publish.New(cfg.Paths.OutputDir, logger).Publish(runCtx, result.Records, pubOpts)
	if err != nil {
		return err
	}

	if cfg.History.Enabled && !flags.noHistory {
		run := history.Run{
			ID:              runID,
			StartedAt:       started,
			Strategy:        cfg.Linkage.Strategy,
			MatchThreshold:  cfg.Linkage.MatchThreshold,
			ReviewThreshold: cfg.Linkage.ReviewThreshold,
			Excluded:        len(result.Excluded),
			OutputPath:      outcome.OutputPath,
			OutputFormat:    string(pubOpts.Format),
		}
		if err := recordHistory(runCtx, ctx, flags, run, result); err != nil {
			logging.WarnWithContext(logger, "run history not recorded", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run will not appear in gamelink runs"),
			)
		} else {
			outcome.History = true
		}
	}

	if flags.jsonOutput {
		return writeJSON(cmd, outcome)
	}
	printLinkSummary(cmd.OutOrStdout(), outcome, shouldColorize(cmd.OutOrStdout()))
	return nil
}

type cleanFunc func(rows []ingest.Row, scrapedAt time.Time) ingest.Batch

func resolveInput(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("input path is required")
	}
	return config.ExpandPath(path)
}

// loadBatch reads and cleans one export. The file's modification time
// stands in for the scrape time.
func loadBatch(path string, clean cleanFunc) (ingest.Batch, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ingest.Batch{}, fmt.Errorf("inspect input: %w", err)
	}
	rows, err := ingest.ReadFile(path)
	if err != nil {
		return ingest.Batch{}, err
	}
	return clean(rows, info.ModTime()), nil
}

func logIngest(logger *slog.Logger, source, path string, batch ingest.Batch) {
	logger.Info("export loaded",
		logging.String(logging.FieldEventType, "export_loaded"),
		logging.String("source", source),
		logging.String("path", path),
		logging.Int("records", len(batch.Records)),
		logging.Int("duplicates", batch.Duplicates),
		logging.Int("skipped", batch.Skipped),
		logging.Int("field_issues", len(batch.Issues)),
	)
	for _, issue := range batch.Issues {
		logger.Debug("export value dropped", logging.Error(issue.Err()))
	}
}

func publishOptions(cfg *config.Config, flags linkFlags) (publish.Options, error) {
	formatName := cfg.Publish.Format
	if strings.TrimSpace(flags.format) != "" {
		formatName = flags.format
	}
	format, err := publish.ParseFormat(formatName)
	if err != nil {
		return publish.Options{}, err
	}
	name := cfg.Publish.FileName
	if strings.TrimSpace(flags.name) != "" {
		name = flags.name
	}
	return publish.Options{
		Format:      format,
		Name:        name,
		Timestamped: cfg.Publish.Timestamped || flags.timestamped,
		LockTimeout: 5 * time.Second,
	}, nil
}

func recordHistory(runCtx context.Context, ctx *commandContext, flags linkFlags, run history.Run, result *linkage.Result) error {
	var err error
	if run.InputA, err = history.DescribeInput(flags.a); err != nil {
		return err
	}
	if run.InputB, err = history.DescribeInput(flags.b); err != nil {
		return err
	}
	store, err := ctx.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run.FinishedAt = time.Now()
	_, err = store.RecordRun(runCtx, run, result.Records)
	return err
}

func printLinkSummary(out io.Writer, o linkOutcome, colorize bool) {
	for _, line := range renderSectionHeader("Linkage", colorize) {
		fmt.Fprintln(out, line)
	}
	s := o.Summary
	rows := [][]string{
		{"Source A records", humanize.Comma(int64(o.Stats.InputA))},
		{"Source B records", humanize.Comma(int64(o.Stats.InputB))},
		{"Excluded", humanize.Comma(int64(o.Stats.ExcludedA + o.Stats.ExcludedB))},
		{"Duplicates dropped", humanize.Comma(int64(o.Duplicates))},
		{"Candidates scored", humanize.Comma(int64(o.Stats.Candidates))},
		{"Unified records", humanize.Comma(int64(s.Total))},
		{"Matched", humanize.Comma(int64(s.Matched))},
		{"Metacritic only", humanize.Comma(int64(s.AOnly))},
		{"Steam only", humanize.Comma(int64(s.BOnly))},
		{"With conflicts", humanize.Comma(int64(s.WithConflicts))},
		{"Match rate", fmt.Sprintf("%.1f%%", s.MatchRate()*100)},
		{"Mean confidence", fmt.Sprintf("%.3f", s.MeanConfidence)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if s.Matched > 0 {
		buckets := make([][]string, 0, len(s.Confidence))
		for _, b := range s.Confidence {
			buckets = append(buckets, []string{b.Label(), humanize.Comma(int64(b.Count))})
		}
		fmt.Fprintln(out, renderTable([]string{"Confidence", "Pairs"}, buckets, []columnAlignment{alignLeft, alignRight}))
	}
	if len(s.ConflictsByField) > 0 {
		conflicts := make([][]string, 0, len(s.ConflictsByField))
		for _, c := range s.ConflictsByField {
			conflicts = append(conflicts, []string{c.Field, humanize.Comma(int64(c.Count))})
		}
		fmt.Fprintln(out, renderTable([]string{"Conflicting field", "Records"}, conflicts, []columnAlignment{alignLeft, alignRight}))
	}

	if o.Validation != "" {
		fmt.Fprintln(out, renderStatusLine("Validation", statusWarn, o.Validation, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Validation", statusOK, "", colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Output", statusOK, o.OutputPath, colorize))
	historyKind := textutil.Ternary(o.History, statusOK, statusInfo)
	fmt.Fprintln(out, renderStatusLine("Run", historyKind, fmt.Sprintf("%s (recorded: %s)", o.RunID, yesNo(o.History)), colorize))
}
