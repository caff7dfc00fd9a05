package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	pollInterval = 250 * time.Millisecond
	maxLineSize  = 1024 * 1024
)

// Options selects the lines returned by Tail.
type Options struct {
	// Offset is the byte position to read from. Negative reads the last
	// Limit lines instead.
	Offset int64
	Limit  int
	// RunID keeps only lines tagged with this run.
	RunID string
	// Wait bounds how long Tail polls for new lines when none are found.
	Wait time.Duration
}

// Result holds matching lines and the offset to resume from.
type Result struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from the log at path. A missing file yields no lines.
func Tail(ctx context.Context, path string, opts Options) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("log path %q is a directory", path)
	}

	match := runFilter(opts.RunID)
	if opts.Offset < 0 {
		lines, offset, err := readLast(path, opts.Limit, match)
		if err != nil {
			return Result{}, err
		}
		if len(lines) > 0 || opts.Wait <= 0 {
			return Result{Lines: lines, Offset: offset}, nil
		}
		return poll(ctx, path, offset, opts.Wait, match)
	}

	offset := opts.Offset
	if offset > info.Size() {
		offset = info.Size()
	}
	return poll(ctx, path, offset, opts.Wait, match)
}

func runFilter(runID string) func(string) bool {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return func(string) bool { return true }
	}
	console := "run_id=" + runID
	jsonKey := `"run_id":"` + runID
	return func(line string) bool {
		return strings.Contains(line, console) || strings.Contains(line, jsonKey)
	}
}

// readLast keeps the last limit matching lines in a ring buffer. A limit of
// zero or less returns no lines and the end offset.
func readLast(path string, limit int, match func(string) bool) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, end, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	end, err := scan(file, func(line string) {
		if !match(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, count)
	if count == limit {
		for i := range count {
			lines[i] = ring[(next+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, end, nil
}

func readFrom(path string, offset int64, match func(string) bool) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}
	var lines []string
	end, err := scan(file, func(line string) {
		if match(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return lines, end, nil
}

// scan feeds complete lines to fn and returns the offset after the last
// complete line. A trailing partial line is left for the next read.
func scan(file *os.File, fn func(string)) (int64, error) {
	start, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("determine log offset: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	consumed := start
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		if len(line) > maxLineSize {
			continue
		}
		fn(strings.TrimRight(line, "\r\n"))
	}
}

// poll reads forward from offset and, while nothing matches, retries until
// wait elapses or ctx is done.
func poll(ctx context.Context, path string, offset int64, wait time.Duration, match func(string) bool) (Result, error) {
	deadline := time.Now().Add(max(wait, 0))
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		lines, next, err := readFrom(path, offset, match)
		if err != nil {
			return Result{Offset: offset}, err
		}
		offset = next
		if len(lines) > 0 || !time.Now().Before(deadline) {
			return Result{Lines: lines, Offset: offset}, nil
		}
		select {
		case <-ctx.Done():
			return Result{Offset: offset}, ctx.Err()
		case <-ticker.C:
		}
	}
}
