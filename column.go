package tabular

import (
	"fmt"
	"strings"
)

// Column describes one displayed attribute of a row type R.
//
// A column's identity within a table is its position in the column
// list passed to NewTableContext, not its title. Sort records, the
// ColumnOrder, and cell dispatch all address columns by that
// positional index for the lifetime of one TableContext.
// Display reordering is layered on top of the fixed positional
// identity by the ColumnOrder and never changes it.
//
// Beyond the title, column behavior is declared through optional
// interfaces. A column that does not implement an interface gets
// the documented default:
//
//   - RowFilter:      all rows pass
//   - RowComparer:    all rows compare equal (no sort contribution)
//   - CellSerializer: the column has no export value
//   - ExportHeaderer: the export header is the column title
//   - ExportIncluder: included in exports
type Column[R Row] interface {
	// Title returns the unique column name, used as identity key
	// for the host UI and as default export header.
	Title() string
}

// RowFilter is an optional Column interface for
// filtering the rows of a table.
type RowFilter[R Row] interface {
	// FilterRow reports if a row passes the column's filter.
	FilterRow(row R) bool
}

// RowComparer is an optional Column interface that makes
// a column usable as sort key.
type RowComparer[R Row] interface {
	// CompareRows compares two rows by the column's attribute
	// and returns a negative number if a sorts before b,
	// zero if they are equal, and a positive number if a sorts after b.
	CompareRows(a, b R) int
}

// CellSerializer is an optional Column interface providing
// the column's cell value for exports.
// Columns that don't implement CellSerializer are
// omitted from exports.
type CellSerializer[R Row] interface {
	// SerializeCell returns the export value for a row.
	SerializeCell(row R) any
}

// ExportHeaderer is an optional Column interface overriding
// the column title as export header text.
type ExportHeaderer interface {
	ExportHeader() string
}

// ExportIncluder is an optional Column interface that can
// exclude a column from exports without hiding it.
type ExportIncluder interface {
	IncludeInExport() bool
}

// Columns is an ordered column list over the row type R
// with positional dispatch of filtering, comparing, and titles.
type Columns[R Row] []Column[R]

// Titles returns the column titles in declaration order.
func (c Columns[R]) Titles() []string {
	titles := make([]string, len(c))
	for i, col := range c {
		titles[i] = col.Title()
	}
	return titles
}

// Filter reports if a row passes the filters of all columns,
// including hidden ones. Columns without a RowFilter
// implementation pass every row.
func (c Columns[R]) Filter(row R) bool {
	for _, col := range c {
		if f, ok := col.(RowFilter[R]); ok && !f.FilterRow(row) {
			return false
		}
	}
	return true
}

// Compare compares two rows by the column at the passed index.
// Columns without a RowComparer implementation and out of range
// indices compare all rows as equal.
func (c Columns[R]) Compare(col int, a, b R) int {
	if col < 0 || col >= len(c) {
		return 0
	}
	if cmp, ok := c[col].(RowComparer[R]); ok {
		return cmp.CompareRows(a, b)
	}
	return 0
}

// Validate returns an error if a column title is empty
// or not unique within the column list.
func (c Columns[R]) Validate() error {
	seen := make(map[string]int, len(c))
	for i, col := range c {
		title := col.Title()
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("column %d has an empty title", i)
		}
		if first, ok := seen[title]; ok {
			return fmt.Errorf("duplicate column title %q at indices %d and %d", title, first, i)
		}
		seen[title] = i
	}
	return nil
}

var (
	_ Column[ValuesRow]         = FuncColumn[ValuesRow]{}
	_ RowFilter[ValuesRow]      = FuncColumn[ValuesRow]{}
	_ RowComparer[ValuesRow]    = FuncColumn[ValuesRow]{}
	_ CellSerializer[ValuesRow] = FuncColumn[ValuesRow]{}
	_ ExportHeaderer            = FuncColumn[ValuesRow]{}
	_ ExportIncluder            = FuncColumn[ValuesRow]{}
)

// FuncColumn implements Column and all optional column interfaces
// with configurable functions. Nil functions behave like the
// documented defaults of the optional interfaces.
type FuncColumn[R Row] struct {
	// ColumnTitle is returned by Title and must be unique per table.
	ColumnTitle string
	// Header overrides ColumnTitle as export header if non empty.
	Header string
	// Filter reports if a row passes the column's filter.
	Filter func(row R) bool
	// Compare compares two rows by the column's attribute.
	Compare func(a, b R) int
	// Serialize returns the export value for a row.
	// Columns with a nil Serialize func are omitted from exports.
	Serialize func(row R) any
}

func (c FuncColumn[R]) Title() string { return c.ColumnTitle }

func (c FuncColumn[R]) FilterRow(row R) bool {
	return c.Filter == nil || c.Filter(row)
}

func (c FuncColumn[R]) CompareRows(a, b R) int {
	if c.Compare == nil {
		return 0
	}
	return c.Compare(a, b)
}

func (c FuncColumn[R]) SerializeCell(row R) any {
	if c.Serialize == nil {
		return nil
	}
	return c.Serialize(row)
}

func (c FuncColumn[R]) ExportHeader() string {
	if c.Header != "" {
		return c.Header
	}
	return c.ColumnTitle
}

func (c FuncColumn[R]) IncludeInExport() bool {
	return c.Serialize != nil
}
