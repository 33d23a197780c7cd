package tabular

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"
)

// Strings formats the projected cells of the table as strings,
// one string slice per projected row in projection order
// with the cells in display order.
// With addHeaderRow the first row holds the exported column headers.
func Strings[R Row](ctx context.Context, table *TableContext[R], rows []R, addHeaderRow bool, formatters *TypeFormatters) ([][]string, error) {
	e := &stringsExporter{formatters: formatters}
	err := Export(ctx, e, table, rows)
	if err != nil {
		return nil, err
	}
	if !addHeaderRow || len(e.headers) == 0 {
		return e.rows, nil
	}
	result := make([][]string, 0, len(e.rows)+1)
	result = append(result, e.headers)
	return append(result, e.rows...), nil
}

type stringsExporter struct {
	formatters *TypeFormatters
	headers    []string
	rows       [][]string
}

func (e *stringsExporter) SerializeHeader(ctx context.Context, col int, title string) error {
	e.headers = append(e.headers, title)
	return nil
}

func (e *stringsExporter) SerializeCell(ctx context.Context, row, col int, value any) error {
	str, err := cellString(ctx, value, e.formatters)
	if err != nil {
		return err
	}
	if row >= len(e.rows) {
		e.rows = append(e.rows, make([]string, 0, len(e.headers)))
	}
	e.rows[row] = append(e.rows[row], str)
	return nil
}

func cellString(ctx context.Context, value any, formatters *TypeFormatters) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	str, _, err := formatters.FormatValue(ctx, value)
	if err == nil {
		return str, nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}

	// In case of errors.ErrUnsupported from formatters
	// use fallback methods for formatting
	v := reflect.ValueOf(value)
	if ValueIsNil(v) {
		return "", nil
	}
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return fmt.Sprint(v.Interface()), nil
}

// StringColumnWidths returns the column widths of the passed
// table as count of UTF-8 runes.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			if rowCols := len(row); rowCols > numCols {
				numCols = rowCols
			}
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for row := range rows {
		for col := 0; col < numCols && col < len(rows[row]); col++ {
			numRunes := utf8.RuneCountInString(rows[row][col])
			if numRunes > colWidths[col] {
				colWidths[col] = numRunes
			}
		}
	}
	return colWidths
}
