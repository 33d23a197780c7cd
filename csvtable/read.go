package csvtable

import (
	"context"
	"reflect"

	fs "github.com/ungerik/go-fs"

	"github.com/ryo33/go-tabular"
)

// ReadFileDetectFormat reads and parses a CSV file
// with automatic detection of the format.
func ReadFileDetectFormat(ctx context.Context, file fs.FileReader, configOrNil *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ParseDetectFormat(data, configOrNil)
}

// ReadFileWithFormat reads and parses a CSV file
// using the passed format.
func ReadFileWithFormat(ctx context.Context, file fs.FileReader, format *Format) (rows [][]string, err error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	return ParseWithFormat(data, format)
}

// ParseTable parses CSV data with automatic format detection,
// removes empty rows, and wraps the result as a table
// of generic value rows. See NewTable.
func ParseTable(csv []byte, configOrNil *FormatDetectionConfig, headerRow bool) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow, error) {
	rows, _, err := ParseDetectFormat(csv, configOrNil)
	if err != nil {
		return nil, nil, err
	}
	table, valuesRows := NewTable(RemoveEmptyRows(rows), headerRow)
	return table, valuesRows, nil
}

// ReadTableFile reads and parses a CSV file with automatic format
// detection, removes empty rows, and wraps the result as a table
// of generic value rows. See NewTable.
func ReadTableFile(ctx context.Context, file fs.FileReader, configOrNil *FormatDetectionConfig, headerRow bool) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ParseTable(data, configOrNil, headerRow)
}

// NewTable wraps parsed CSV rows as a table of generic value rows
// with the row number as key.
// See tabular.NewStringsTable for the wrapping semantics.
func NewTable(rows [][]string, headerRow bool) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow) {
	return tabular.NewStringsTable(rows, headerRow)
}

// AsStructSlice converts parsed CSV rows to a slice of structs of
// type T using the first row as column titles mapped to struct
// fields with the passed naming. Empty rows are removed.
// See tabular.TableToStructSlice for the conversion semantics.
func AsStructSlice[T any](ctx context.Context, rows [][]string, naming *tabular.StructFieldNaming, requiredCols []string, scanner tabular.Scanner, formatter tabular.ValueFormatter, validate func(reflect.Value) error) ([]T, error) {
	table, valuesRows := NewTable(RemoveEmptyRows(rows), true)
	return tabular.TableToStructSlice[T](ctx, table, valuesRows, naming, requiredCols, scanner, formatter, validate)
}

// ParseWithFormatAsStructSlice parses CSV data using the passed
// format and converts the rows to a slice of structs of type T.
// See AsStructSlice.
func ParseWithFormatAsStructSlice[T any](ctx context.Context, csv []byte, format *Format, naming *tabular.StructFieldNaming, requiredCols []string, scanner tabular.Scanner, formatter tabular.ValueFormatter, validate func(reflect.Value) error) ([]T, error) {
	rows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, err
	}
	return AsStructSlice[T](ctx, rows, naming, requiredCols, scanner, formatter, validate)
}

// ParseDetectFormatAsStructSlice parses CSV data with automatic
// format detection and converts the rows to a slice of structs
// of type T. See AsStructSlice.
func ParseDetectFormatAsStructSlice[T any](ctx context.Context, csv []byte, configOrNil *FormatDetectionConfig, naming *tabular.StructFieldNaming, requiredCols []string, scanner tabular.Scanner, formatter tabular.ValueFormatter, validate func(reflect.Value) error) ([]T, error) {
	rows, _, err := ParseDetectFormat(csv, configOrNil)
	if err != nil {
		return nil, err
	}
	return AsStructSlice[T](ctx, rows, naming, requiredCols, scanner, formatter, validate)
}

// ExportFile writes the projected table to file as CSV
// using a default Writer configuration.
func ExportFile[R tabular.Row](ctx context.Context, file fs.File, table *tabular.TableContext[R], rows []R) error {
	return NewWriter[R]().WriteFile(ctx, file, table, rows)
}
