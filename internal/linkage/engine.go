package linkage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gamelink/internal/blocking"
	"gamelink/internal/catalog"
	"gamelink/internal/logging"
	"gamelink/internal/matcher"
	"gamelink/internal/merge"
	"gamelink/internal/normalize"
	"gamelink/internal/similarity"
)

// Engine runs linkage passes. It holds no per-run state and may be reused
// for any number of Run calls, including concurrent ones.
type Engine struct {
	opts       Options
	normalizer *normalize.Normalizer
	scorer     *similarity.Scorer
	matcher    *matcher.Matcher
	resolver   *merge.Resolver
	logger     *slog.Logger
}

// New validates opts and builds the pipeline components. A nil logger
// discards output.
func New(opts Options, logger *slog.Logger) (*Engine, error) {
	if opts.Scheme == "" {
		opts.Scheme = blocking.DefaultScheme
	}
	if opts.Match.Strategy == "" {
		opts.Match.Strategy = matcher.StrategyGreedy
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	scorer, err := similarity.New(opts.Weights)
	if err != nil {
		return nil, err
	}
	m, err := matcher.New(opts.Match, logger)
	if err != nil {
		return nil, err
	}
	resolver, err := merge.New(opts.Merge)
	if err != nil {
		return nil, err
	}
	return &Engine{
		opts:       opts,
		normalizer: normalize.New(opts.Normalize),
		scorer:     scorer,
		matcher:    m,
		resolver:   resolver,
		logger:     logging.NewComponentLogger(logger, "linkage"),
	}, nil
}

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// Normalizer exposes the title normalizer the engine uses.
func (e *Engine) Normalizer() *normalize.Normalizer { return e.normalizer }

// Scorer exposes the similarity scorer the engine uses.
func (e *Engine) Scorer() *similarity.Scorer { return e.scorer }

// entry is a validated record with its comparable key.
type entry struct {
	batch   int
	rec     catalog.RawRecord
	key     catalog.NormalizedKey
	year    int
	hasYear bool
}

func (en entry) input(src catalog.Source, index int) similarity.Input {
	return similarity.Input{
		Source:  src,
		Ref:     catalog.RecordRef{Index: index, Key: en.key.Title, Origin: en.rec.Origin},
		Key:     en.key,
		Year:    en.year,
		HasYear: en.hasYear,
	}
}

// Run links batch a (source A) with batch b (source B). Malformed records
// are excluded and unusable field values are cleared; both are reported in
// the result rather than failing the run. Only context cancellation returns
// an error.
func (e *Engine) Run(ctx context.Context, a, b []catalog.RawRecord) (*Result, error) {
	started := time.Now()
	workers := e.opts.workers()
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("linkage started",
		logging.String(logging.FieldEventType, "linkage_start"),
		logging.Int("records_a", len(a)),
		logging.Int("records_b", len(b)),
		logging.String("strategy", string(e.opts.Match.Strategy)),
		logging.String("blocking_scheme", string(e.opts.Scheme)),
		logging.Int("workers", workers),
	)

	res := &Result{Stats: Stats{InputA: len(a), InputB: len(b), Workers: workers}}
	sideA := e.prepare(logging.WithContext(logging.WithStage(ctx, "prepare"), e.logger), catalog.SourceA, a, res)
	sideB := e.prepare(logging.WithContext(logging.WithStage(ctx, "prepare"), e.logger), catalog.SourceB, b, res)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix := blocking.Build(e.opts.Scheme, titles(sideA), titles(sideB))
	res.Stats.Blocking = ix.Stats()
	logging.WithContext(logging.WithStage(ctx, "block"), e.logger).Debug("blocking index built",
		logging.Int("blocks", res.Stats.Blocking.Blocks),
		logging.Int("pairs", res.Stats.Blocking.Pairs),
		logging.Int("largest_block", res.Stats.Blocking.LargestBlock),
	)

	candidates, err := e.score(ctx, ix, sideA, sideB, workers)
	if err != nil {
		return nil, err
	}
	res.Stats.Candidates = len(candidates)

	assignment := e.matcher.Match(candidates, len(sideA), len(sideB))
	res.Stats.Matched = len(assignment.Pairs)
	res.Stats.AOnly = len(assignment.AOnly)
	res.Stats.BOnly = len(assignment.BOnly)

	records, err := e.merge(ctx, assignment, sideA, sideB, workers)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(records, compareRecords)
	res.Records = records
	res.Stats.FieldIssues = len(res.Issues)
	res.Stats.Duration = time.Since(started)

	logger.Info("linkage completed",
		logging.String(logging.FieldEventType, "linkage_complete"),
		logging.Int("unified", len(records)),
		logging.Int("matched", res.Stats.Matched),
		logging.Int("a_only", res.Stats.AOnly),
		logging.Int("b_only", res.Stats.BOnly),
		logging.Int("excluded", res.Stats.ExcludedA+res.Stats.ExcludedB),
		logging.Int("field_issues", res.Stats.FieldIssues),
		logging.Duration("duration", res.Stats.Duration),
	)
	return res, nil
}

// prepare validates, sanitizes, and normalizes one batch.
func (e *Engine) prepare(logger *slog.Logger, src catalog.Source, batch []catalog.RawRecord, res *Result) []entry {
	out := make([]entry, 0, len(batch))
	for i, rec := range batch {
		if rec.Source == "" {
			rec.Source = src
		}
		reason := ""
		if err := rec.Validate(); err != nil {
			var recErr *catalog.RecordError
			if errors.As(err, &recErr) {
				reason = recErr.Reason
			} else {
				reason = err.Error()
			}
		} else if rec.Source != src {
			reason = fmt.Sprintf("source %s record in the %s batch", rec.Source, src)
		}
		if reason != "" {
			x := Exclusion{Source: src, Index: i, Origin: strings.TrimSpace(rec.Origin), Reason: reason}
			res.Excluded = append(res.Excluded, x)
			if src == catalog.SourceA {
				res.Stats.ExcludedA++
			} else {
				res.Stats.ExcludedB++
			}
			logging.WarnWithContext(logger, "record excluded", "record_excluded",
				logging.Source(src),
				logging.Int("index", i),
				logging.String("origin", x.Origin),
				logging.String("reason", reason),
				logging.String(logging.FieldErrorHint, "fix the title or source in the input export"),
				logging.String(logging.FieldImpact, "record omitted from the unified catalog"),
			)
			continue
		}

		clean, issues := rec.Sanitize()
		for _, issue := range issues {
			attrs := append(logging.FieldIssue(issue), logging.String(logging.FieldImpact, "field left empty in the unified record"))
			logging.WarnWithContext(logger, "field value dropped", "field_unparsable", attrs...)
		}
		res.Issues = append(res.Issues, issues...)

		en := entry{batch: i, rec: clean, key: e.normalizer.Normalize(clean.Title)}
		en.year, en.hasYear = clean.Fields.Year()
		out = append(out, en)
	}
	return out
}

// score runs candidate generation and scoring per block. Each worker writes
// only its own block slot; the flattened result follows block order.
func (e *Engine) score(ctx context.Context, ix *blocking.Index, sideA, sideB []entry, workers int) ([]catalog.MatchCandidate, error) {
	blocks := ix.Blocks()
	perBlock := make([][]catalog.MatchCandidate, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, blk := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pairs := ix.Pairs(blk)
			out := make([]catalog.MatchCandidate, 0, len(pairs))
			for _, p := range pairs {
				out = append(out, e.scorer.Score(
					sideA[p.A].input(catalog.SourceA, p.A),
					sideB[p.B].input(catalog.SourceB, p.B),
				))
			}
			perBlock[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	total := 0
	for _, c := range perBlock {
		total += len(c)
	}
	candidates := make([]catalog.MatchCandidate, 0, total)
	for _, c := range perBlock {
		candidates = append(candidates, c...)
	}
	return candidates, nil
}

// merge resolves pairs and singletons into pre-sized slots.
func (e *Engine) merge(ctx context.Context, asg catalog.Assignment, sideA, sideB []entry, workers int) ([]catalog.UnifiedRecord, error) {
	nPairs, nA := len(asg.Pairs), len(asg.AOnly)
	total := nPairs + nA + len(asg.BOnly)
	out := make([]catalog.UnifiedRecord, total)
	build := func(k int) catalog.UnifiedRecord {
		switch {
		case k < nPairs:
			c := asg.Pairs[k]
			return e.resolver.Pair(sideA[c.A.Index].rec, sideB[c.B.Index].rec, c)
		case k < nPairs+nA:
			return e.resolver.Singleton(sideA[asg.AOnly[k-nPairs]].rec)
		default:
			return e.resolver.Singleton(sideB[asg.BOnly[k-nPairs-nA]].rec)
		}
	}

	chunk := max(1, (total+workers-1)/workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < total; lo += chunk {
		hi := min(lo+chunk, total)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for k := lo; k < hi; k++ {
				out[k] = build(k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("merge records: %w", err)
	}
	return out, nil
}

func titles(entries []entry) []string {
	out := make([]string, len(entries))
	for i, en := range entries {
		out[i] = en.key.Title
	}
	return out
}

func compareRecords(x, y catalog.UnifiedRecord) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(x.GameTitle), strings.ToLower(y.GameTitle)),
		strings.Compare(x.GameTitle, y.GameTitle),
		strings.Compare(x.MetacriticURL, y.MetacriticURL),
		strings.Compare(x.SteamURL, y.SteamURL),
		strings.Compare(string(x.Kind), string(y.Kind)),
	)
}
