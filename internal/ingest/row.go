package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Row is one exported record keyed by lower-case column name.
type Row map[string]string

// Get returns the first non-blank value among keys.
func (r Row) Get(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(r[key]); v != "" {
			return v
		}
	}
	return ""
}

// ReadCSV reads a CSV export with a header row. Short rows leave the
// missing columns empty.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadJSON reads a JSON array of flat objects. Numbers and booleans are
// kept in their literal form, arrays of strings are joined with ", ", and
// nulls become empty cells.
func ReadJSON(r io.Reader) ([]Row, error) {
	var raw []map[string]json.RawMessage
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json export: %w", err)
	}
	rows := make([]Row, 0, len(raw))
	for i, obj := range raw {
		row := make(Row, len(obj))
		for key, value := range obj {
			cell, err := jsonCell(value)
			if err != nil {
				return nil, fmt.Errorf("decode json export: object %d field %q: %w", i, key, err)
			}
			row[strings.ToLower(strings.TrimSpace(key))] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func jsonCell(value json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("list items must be strings")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("unsupported value %s", string(value))
	}
}

// ReadFile reads an export, choosing the format by extension. Files ending
// in .json are decoded as JSON; everything else as CSV.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(f)
	}
	return ReadCSV(f)
}

// exportOrder is the leading column order used by WriteCSV.
var exportOrder = []string{
	"title", "url", "app_id", "app_url", "metascore", "price",
	"review_summary", "review_count", "release_date",
	"developer", "publisher", "genres", "tags", "platform",
}

// Columns returns the columns present in rows: the known export columns in
// their usual order, then any others sorted by name.
func Columns(rows []Row) []string {
	present := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			present[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(present))
	for _, name := range exportOrder {
		if _, ok := present[name]; ok {
			cols = append(cols, name)
			delete(present, name)
		}
	}
	return append(cols, slices.Sorted(maps.Keys(present))...)
}

// WriteCSV writes rows with a header built by Columns. The output reads
// back through ReadCSV unchanged.
func WriteCSV(w io.Writer, rows []Row) error {
	cols := Columns(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(cols))
	for i, row := range rows {
		for j, col := range cols {
			record[j] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
