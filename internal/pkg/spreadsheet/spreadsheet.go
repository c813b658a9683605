// Package spreadsheet wraps the xlsx codec used for roster import and export.
// Callers hand it header and cell rows; date cells are written as genuine
// date values so spreadsheet tools render and re-parse them as dates.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used for roster workbooks
const DefaultSheet = "Students"

// isoDateFormat displays date cells canonically regardless of locale
const isoDateFormat = "yyyy-mm-dd"

var ErrNoSheets = errors.New("workbook contains no sheets")

// Read parses the first sheet of an xlsx stream into a header row and data
// rows. Rows may be ragged; trailing empty cells are not padded here.
func Read(r io.Reader) (header []string, rows [][]string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoSheets
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// Writer builds a single-sheet workbook row by row.
type Writer struct {
	file      *excelize.File
	sheet     string
	dateStyle int
	nextRow   int
}

// NewWriter creates a workbook writer for the given sheet name.
func NewWriter(sheet string) (*Writer, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	format := isoDateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}

	return &Writer{
		file:      f,
		sheet:     sheet,
		dateStyle: dateStyle,
		nextRow:   1,
	}, nil
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader(columns []string) error {
	cells := make([]interface{}, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	return w.WriteRow(cells)
}

// WriteRow appends one row. time.Time cells are stored as real date values
// with the ISO date style applied; nil cells are left blank.
func (w *Writer) WriteRow(cells []interface{}) error {
	for i, cell := range cells {
		if cell == nil {
			continue
		}

		name, err := excelize.CoordinatesToCellName(i+1, w.nextRow)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}

		if err := w.file.SetCellValue(w.sheet, name, cell); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", name, err)
		}

		if _, ok := cell.(time.Time); ok {
			if err := w.file.SetCellStyle(w.sheet, name, name, w.dateStyle); err != nil {
				return fmt.Errorf("failed to style date cell %s: %w", name, err)
			}
		}
	}

	w.nextRow++
	return nil
}

// Bytes finalizes the workbook and returns the xlsx binary.
func (w *Writer) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
