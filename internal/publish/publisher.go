package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/ncruces/go-strftime"

	"gamelink/internal/catalog"
	"gamelink/internal/fileutil"
	"gamelink/internal/logging"
	"gamelink/internal/textutil"
)

const (
	// DefaultName is the stable output file name.
	DefaultName = "videogames_final"
	// TimestampPattern names timestamped outputs.
	TimestampPattern = "videogames_merged_%Y%m%d_%H%M%S"

	lockFileName  = ".gamelink.lock"
	lockRetryWait = 100 * time.Millisecond
)

// ErrLocked reports that another run holds the output directory.
var ErrLocked = errors.New("output directory is locked by another run")

// Options controls one Publish call.
type Options struct {
	Format Format
	// Name is the file name without extension. Blank uses DefaultName.
	Name        string
	Timestamped bool
	// LockTimeout bounds the wait for the directory lock. Zero tries once.
	LockTimeout time.Duration
}

// Publisher writes unified catalogs into one directory.
type Publisher struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// New returns a Publisher for dir. A nil logger discards output.
func New(dir string, logger *slog.Logger) *Publisher {
	return &Publisher{dir: dir, now: time.Now, logger: logging.NewComponentLogger(logger, "publish")}
}

// Dir returns the output directory.
func (p *Publisher) Dir() string { return p.dir }

// FileName resolves the output file name for opts at time now.
func FileName(opts Options, now time.Time) string {
	name := strings.TrimSpace(opts.Name)
	if opts.Timestamped {
		name = strftime.Format(TimestampPattern, now)
	}
	if name == "" {
		name = DefaultName
	}
	name = textutil.SanitizeFileName(name)
	ext := opts.Format.Ext()
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}

// Publish writes records and returns the final path.
func (p *Publisher) Publish(ctx context.Context, records []catalog.UnifiedRecord, opts Options) (string, error) {
	if opts.Format == "" {
		opts.Format = FormatCSV
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(p.dir, lockFileName))
	if err := acquire(ctx, lock, opts.LockTimeout); err != nil {
		return "", err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(p.logger, "failed to release output lock", "publish_unlock_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove "+lockFileName+" if no run is active"),
			)
		}
	}()

	target := filepath.Join(p.dir, FileName(opts, p.now()))
	err := fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
		return Write(w, opts.Format, records)
	})
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", target, err)
	}

	logging.WithContext(ctx, p.logger).Info("catalog published",
		logging.String(logging.FieldEventType, "catalog_published"),
		logging.String("path", target),
		logging.String("format", string(opts.Format)),
		logging.Int("records", len(records)),
	)
	return target, nil
}

func acquire(ctx context.Context, lock *flock.Flock, timeout time.Duration) error {
	if timeout <= 0 {
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire output lock: %w", err)
		}
		if !ok {
			return ErrLocked
		}
		return nil
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ok, err := lock.TryLockContext(lockCtx, lockRetryWait)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLocked
		}
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}
