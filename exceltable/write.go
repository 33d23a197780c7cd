package exceltable

import (
	"context"
	"io"
	"reflect"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/ryo33/go-tabular"
)

var _ tabular.Exporter = &Exporter{}

// Exporter writes a table to a workbook sheet.
//
// Cell values are written with their types so that numbers,
// booleans, and times end up as typed spreadsheet cells.
// Nil values leave the cell empty, pointers are dereferenced.
//
// Use tabular.Export to serialize a projected table into it,
// then Write or File to get the workbook.
type Exporter struct {
	file          *excelize.File
	sheet         string
	headerStyle   int
	headerWritten bool
}

// NewExporter returns an Exporter for the named
// sheet of a new workbook.
func NewExporter(sheet string) (*Exporter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	return &Exporter{file: f, sheet: sheet}, nil
}

// NewSheetExporter returns an Exporter for the named sheet
// of the passed workbook, creating the sheet if it does not
// exist. Usable for exporting multiple tables as sheets of
// the same workbook.
func NewSheetExporter(file *excelize.File, sheet string) (*Exporter, error) {
	index, err := file.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	return &Exporter{file: file, sheet: sheet}, nil
}

// File returns the workbook for further
// modification like styling.
func (e *Exporter) File() *excelize.File { return e.file }

// SetHeaderStyle registers a style applied to every header
// cell written by SerializeHeader.
func (e *Exporter) SetHeaderStyle(style *excelize.Style) error {
	styleID, err := e.file.NewStyle(style)
	if err != nil {
		return err
	}
	e.headerStyle = styleID
	return nil
}

// SerializeHeader implements the tabular.Exporter interface
// by writing the title into the first sheet row.
func (e *Exporter) SerializeHeader(ctx context.Context, col int, title string) error {
	e.headerWritten = true
	cell, err := excelize.CoordinatesToCellName(col+1, 1)
	if err != nil {
		return err
	}
	if err := e.file.SetCellValue(e.sheet, cell, title); err != nil {
		return err
	}
	if e.headerStyle != 0 {
		return e.file.SetCellStyle(e.sheet, cell, cell, e.headerStyle)
	}
	return nil
}

// SerializeCell implements the tabular.Exporter interface.
func (e *Exporter) SerializeCell(ctx context.Context, row, col int, value any) error {
	v := reflect.ValueOf(value)
	if tabular.ValueIsNil(v) {
		return nil // leave the cell empty
	}
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	rowNum := row + 1
	if e.headerWritten {
		rowNum++
	}
	cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
	if err != nil {
		return err
	}
	return e.file.SetCellValue(e.sheet, cell, v.Interface())
}

// Write writes the workbook to dest.
func (e *Exporter) Write(dest io.Writer) error {
	return e.file.Write(dest)
}

// Write exports the projected table as a new workbook
// with the passed sheet name written to dest.
func Write[R tabular.Row](ctx context.Context, dest io.Writer, table *tabular.TableContext[R], rows []R, sheet string) error {
	exporter, err := NewExporter(sheet)
	if err != nil {
		return err
	}
	err = tabular.Export(ctx, exporter, table, rows)
	if err != nil {
		return err
	}
	return exporter.Write(dest)
}

// ExportFile writes the projected table to file as a new
// workbook with the passed sheet name.
func ExportFile[R tabular.Row](ctx context.Context, file fs.File, table *tabular.TableContext[R], rows []R, sheet string) error {
	exporter, err := NewExporter(sheet)
	if err != nil {
		return err
	}
	err = tabular.Export(ctx, exporter, table, rows)
	if err != nil {
		return err
	}
	buf, err := exporter.file.WriteToBuffer()
	if err != nil {
		return err
	}
	return file.WriteAllContext(ctx, buf.Bytes())
}
