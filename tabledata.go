package tabular

// HeaderData is the handle passed to header rendering:
// one column of the table plus its current display position.
type HeaderData[R Row] struct {
	table        *TableContext[R]
	column       int
	displayIndex int
}

// Column returns the column object.
func (h HeaderData[R]) Column() Column[R] {
	return h.table.Column(h.column)
}

// ColumnIndex returns the column's declaration index,
// the identity used for sort and order operations.
func (h HeaderData[R]) ColumnIndex() int {
	return h.column
}

// DisplayIndex returns the column's current display position,
// or -1 for a hidden column from AllHeaders.
func (h HeaderData[R]) DisplayIndex() int {
	return h.displayIndex
}

// Title returns the column's name.
func (h HeaderData[R]) Title() string {
	return h.table.names[h.column]
}

// ColumnContext returns the column scoped facade for this column.
func (h HeaderData[R]) ColumnContext() ColumnContext[R] {
	return ColumnContext[R]{table: h.table, column: h.column}
}

// RowData is the handle for one projected row:
// the row value plus its original index in the caller's row slice.
type RowData[R Row] struct {
	table    *TableContext[R]
	rowIndex int
	row      R
}

// Index returns the row's original index in the caller's row slice.
func (r RowData[R]) Index() int {
	return r.rowIndex
}

// Row returns the row value.
func (r RowData[R]) Row() R {
	return r.row
}

// Key returns the row's stable identity key.
func (r RowData[R]) Key() string {
	return r.row.Key()
}

// Cells returns a cell handle per visible column in display order.
func (r RowData[R]) Cells() []CellData[R] {
	visible := r.table.order.Columns()
	cells := make([]CellData[R], len(visible))
	for displayIndex, col := range visible {
		cells[displayIndex] = CellData[R]{
			table:        r.table,
			column:       col,
			displayIndex: displayIndex,
			rowIndex:     r.rowIndex,
			row:          r.row,
		}
	}
	return cells
}

// CellData is the handle for one cell: a projected row
// paired with one visible column.
type CellData[R Row] struct {
	table        *TableContext[R]
	column       int
	displayIndex int
	rowIndex     int
	row          R
}

// Column returns the column object.
func (c CellData[R]) Column() Column[R] {
	return c.table.Column(c.column)
}

// ColumnIndex returns the column's declaration index.
func (c CellData[R]) ColumnIndex() int {
	return c.column
}

// DisplayIndex returns the column's current display position.
func (c CellData[R]) DisplayIndex() int {
	return c.displayIndex
}

// RowIndex returns the row's original index in the caller's row slice.
func (c CellData[R]) RowIndex() int {
	return c.rowIndex
}

// Row returns the row value.
func (c CellData[R]) Row() R {
	return c.row
}

// ColumnContext returns the column scoped facade for this cell's column.
func (c CellData[R]) ColumnContext() ColumnContext[R] {
	return ColumnContext[R]{table: c.table, column: c.column}
}
