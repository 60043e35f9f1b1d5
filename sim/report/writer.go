package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV emits the record series with a header row.
func WriteCSV(w io.Writer, records []DayRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("writing CSV row for day %d: %w", r.Day, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the record series to path, or to stdout when path is
// empty or "-".
func WriteFile(path string, records []DayRecord) error {
	if path == "" || path == "-" {
		return WriteCSV(os.Stdout, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
