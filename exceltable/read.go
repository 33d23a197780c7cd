// Package exceltable reads and writes Excel workbooks
// (.xlsx, .xlsm, .xltm, .xltx) as tables.
//
// Reading wraps every non-empty sheet as a table of generic
// value rows, writing exports a projected table to a workbook
// sheet with typed cell values.
package exceltable

import (
	"bytes"
	"context"
	"errors"
	"io"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/ryo33/go-tabular"
)

// Sheet is a named table read from a workbook sheet.
type Sheet struct {
	Name  string
	Table *tabular.TableContext[tabular.ValuesRow]
	Rows  []tabular.ValuesRow
}

// ReadFirstSheet reads the first sheet of an Excel workbook.
//
// The first row provides the column titles, empty rows and columns
// at the edges of the sheet are removed. See tabular.NewStringsTable
// for how titles and ragged rows are handled.
// With rawCellStrings cell values are read as stored, without the
// cell's display format applied.
//
// Returns ErrEmptySheet if the sheet has no data.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool) (sheet *Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"} // Should never happen
	}
	return readSheet(f, name, rawCellStrings)
}

// Read reads all sheets of an Excel workbook,
// skipping sheets without data.
// See ReadFirstSheet for how sheet data is interpreted.
func Read(reader io.Reader, rawCellStrings bool) (sheets []*Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name, rawCellStrings)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// ReadFile reads all sheets of an Excel file,
// skipping sheets without data.
func ReadFile(ctx context.Context, file fs.FileReader, rawCellStrings bool) ([]*Sheet, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), rawCellStrings)
}

// ReadFileFirstSheet reads the first sheet of an Excel file.
func ReadFileFirstSheet(ctx context.Context, file fs.FileReader, rawCellStrings bool) (*Sheet, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	return ReadFirstSheet(bytes.NewReader(data), rawCellStrings)
}

func readSheet(f *excelize.File, name string, rawCellStrings bool) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = tabular.RemoveEmptyStringRows(rows)
	numCols := tabular.RemoveEmptyStringColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, ErrEmptySheet
	}
	table, valuesRows := tabular.NewStringsTable(rows, true)
	return &Sheet{Name: name, Table: table, Rows: valuesRows}, nil
}
