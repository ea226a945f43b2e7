package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes one workbook with Summary, Findings and All Rules sheets.
func WriteXLSX(path string, r *Report) error {
	return writeFile(path, func(w io.Writer) error { return EncodeXLSX(w, r) })
}

func EncodeXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables(r) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(t.sheet); err != nil {
			return err
		}
		if err := writeSheet(f, t); err != nil {
			return fmt.Errorf("sheet %s: %w", t.sheet, err)
		}
	}
	f.SetActiveSheet(0)

	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, t table) error {
	header := make([]interface{}, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(t.sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
