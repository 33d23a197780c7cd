package tabular

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ValuesRow is a schema-at-runtime row holding its cells
// as a slice of values with any type.
//
// It is the row type produced by the ingest adapters
// (CSV parsing, SQL row scanning, Arrow records) where the
// column schema is only known at runtime.
type ValuesRow struct {
	RowKey string
	Values []any
}

// Key implements the Row interface.
func (r ValuesRow) Key() string { return r.RowKey }

// Value returns the cell value at the passed column index
// or nil if the index is out of range.
func (r ValuesRow) Value(index int) any {
	if index < 0 || index >= len(r.Values) {
		return nil
	}
	return r.Values[index]
}

var (
	_ Column[ValuesRow]         = ValueColumn{}
	_ RowComparer[ValuesRow]    = ValueColumn{}
	_ CellSerializer[ValuesRow] = ValueColumn{}
)

// ValueColumn is a Column over ValuesRow rows addressing
// one value index. It compares rows with CompareValues
// and serializes the raw cell value.
type ValueColumn struct {
	Index       int
	ColumnTitle string
}

// NewValueColumn returns a ValueColumn for the passed
// value index and column title.
func NewValueColumn(index int, title string) ValueColumn {
	return ValueColumn{Index: index, ColumnTitle: title}
}

func (c ValueColumn) Title() string { return c.ColumnTitle }

func (c ValueColumn) CompareRows(a, b ValuesRow) int {
	return CompareValues(a.Value(c.Index), b.Value(c.Index))
}

func (c ValueColumn) SerializeCell(row ValuesRow) any {
	return row.Value(c.Index)
}

// NewValuesTable wraps a raw value table as ValueColumn columns and
// ValuesRow rows with the row number as key.
// Rows shorter than the title list yield nil for the missing values.
func NewValuesTable(titles []string, rows [][]any) (Columns[ValuesRow], []ValuesRow) {
	columns := make(Columns[ValuesRow], len(titles))
	for i, title := range titles {
		columns[i] = NewValueColumn(i, title)
	}
	valuesRows := make([]ValuesRow, len(rows))
	for i, values := range rows {
		valuesRows[i] = ValuesRow{RowKey: strconv.Itoa(i), Values: values}
	}
	return columns, valuesRows
}

// NewStringsTable wraps parsed string rows as a table of generic
// value rows with the row number as key.
//
// With headerRow the first row provides the column titles,
// else titles are generated as "Column 1", "Column 2", etc.
// Empty titles are replaced with generated ones and duplicates are
// renamed with a counting suffix so that every column title is unique.
// Rows shorter than the widest row yield nil for the missing values.
func NewStringsTable(rows [][]string, headerRow bool) (*TableContext[ValuesRow], []ValuesRow) {
	var titles []string
	if headerRow && len(rows) > 0 {
		titles = rows[0]
		rows = rows[1:]
	}
	numCols := len(titles)
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	columns := make(Columns[ValuesRow], numCols)
	for i, title := range uniqueColumnTitles(titles, numCols) {
		columns[i] = NewValueColumn(i, title)
	}
	valuesRows := make([]ValuesRow, len(rows))
	for i, row := range rows {
		values := make([]any, len(row))
		for col, str := range row {
			values[col] = str
		}
		valuesRows[i] = ValuesRow{RowKey: strconv.Itoa(i), Values: values}
	}
	return NewTableContext(columns...), valuesRows
}

func uniqueColumnTitles(titles []string, numCols int) []string {
	result := make([]string, numCols)
	seen := make(map[string]bool, numCols)
	for i := range result {
		title := ""
		if i < len(titles) {
			title = strings.TrimSpace(titles[i])
		}
		if title == "" {
			title = "Column " + strconv.Itoa(i+1)
		}
		unique := title
		for n := 2; seen[unique]; n++ {
			unique = title + " " + strconv.Itoa(n)
		}
		seen[unique] = true
		result[i] = unique
	}
	return result
}

// CompareValues compares two values of any type with a natural
// ordering usable for sorting mixed schema-at-runtime tables:
//
//   - nil sorts before every non-nil value
//   - booleans: false before true
//   - numbers compare across integer, unsigned, and float types
//   - strings and []byte compare lexicographically
//   - time.Time compares chronologically
//   - everything else falls back to comparing fmt.Sprint output
func CompareValues(a, b any) int {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	aNil, bNil := ValueIsNil(av), ValueIsNil(bv)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}
	for av.Kind() == reflect.Ptr || av.Kind() == reflect.Interface {
		av = av.Elem()
	}
	for bv.Kind() == reflect.Ptr || bv.Kind() == reflect.Interface {
		bv = bv.Elem()
	}

	if av.Type() == typeOfTime && bv.Type() == typeOfTime {
		at := av.Interface().(time.Time)
		bt := bv.Interface().(time.Time)
		return at.Compare(bt)
	}

	if av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool {
		switch {
		case av.Bool() == bv.Bool():
			return 0
		case !av.Bool():
			return -1
		default:
			return 1
		}
	}

	if aNum, aOK := floatValue(av); aOK {
		if bNum, bOK := floatValue(bv); bOK {
			switch {
			case aNum < bNum:
				return -1
			case aNum > bNum:
				return 1
			default:
				return 0
			}
		}
	}

	if aStr, aOK := stringValue(av); aOK {
		if bStr, bOK := stringValue(bv); bOK {
			return strings.Compare(aStr, bStr)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func floatValue(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func stringValue(v reflect.Value) (string, bool) {
	switch {
	case v.Kind() == reflect.String:
		return v.String(), true
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		return string(v.Bytes()), true
	default:
		return "", false
	}
}
