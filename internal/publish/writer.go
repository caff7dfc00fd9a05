package publish

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gamelink/internal/catalog"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a configured format name. Blank selects CSV.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", catalog.NewConfigError("publish.format", "must be csv or json (got %q)", name)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".csv"
}

// WriteCSV writes the header and one row per record. Absent values are
// empty cells. A conflicted field carries only its displayed value; the
// other source's value survives in the JSON format's conflicts array.
func WriteCSV(w io.Writer, records []catalog.UnifiedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(catalog.OutputFields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(catalog.OutputFields))
	for i, rec := range records {
		for j, field := range catalog.OutputFields {
			row[j] = rec.Cell(field)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []catalog.UnifiedRecord) error {
	if records == nil {
		records = []catalog.UnifiedRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Write encodes records in format f.
func Write(w io.Writer, f Format, records []catalog.UnifiedRecord) error {
	if f == FormatJSON {
		return WriteJSON(w, records)
	}
	return WriteCSV(w, records)
}
