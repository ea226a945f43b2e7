package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes three spreadsheet-friendly files next to base:
// base_summary.csv, base_findings.csv and base_rules.csv.
// Files are UTF-8 with BOM for clean Excel opening on Windows.
func WriteCSV(base string, r *Report) ([]string, error) {
	var paths []string
	for _, t := range tables(r) {
		path := base + t.suffix
		if err := writeFile(path, func(w io.Writer) error { return encodeCSV(w, t) }); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func encodeCSV(out io.Writer, t table) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := w.Write(t.header); err != nil {
		return err
	}
	record := make([]string, len(t.header))
	for _, row := range t.rows {
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
