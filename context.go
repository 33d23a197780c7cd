package tabular

import (
	"fmt"
	"slices"
)

// TableContext is the state engine of one table instance.
//
// It owns the column list, the column name registry captured at
// construction, the ordered sort record list, and the ColumnOrder,
// and derives the filtered and sorted row projection on demand.
//
// A TableContext is mutated only through its own methods and follows
// a single threaded, synchronous mutation discipline: every mutation
// happens in response to one discrete user event and is visible to
// the next projection read. It must not be shared between goroutines.
//
// Rows are passed to each projection read as an externally owned
// slice. The TableContext never stores or mutates rows.
type TableContext[R Row] struct {
	columns     Columns[R]
	names       []string
	sortRecords []SortRecord
	order       *ColumnOrder
	version     uint64
	onChange    func()
}

// NewTableContext returns a TableContext for the passed columns
// with an empty sort record list and all columns visible
// in their natural order.
//
// The column titles are captured as the table's column names and
// must be non empty and unique. A violation is a programmer error
// that panics, it is not a recoverable runtime condition.
func NewTableContext[R Row](columns ...Column[R]) *TableContext[R] {
	c := Columns[R](columns)
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("tabular.NewTableContext: %s", err))
	}
	return &TableContext[R]{
		columns: slices.Clone(c),
		names:   c.Titles(),
		order:   NewColumnOrder(len(c)),
	}
}

// NumColumns returns the total number of columns,
// including hidden ones.
func (c *TableContext[R]) NumColumns() int {
	return len(c.columns)
}

// ColumnNames returns the column names captured at construction
// in declaration order, including hidden columns.
func (c *TableContext[R]) ColumnNames() []string {
	return slices.Clone(c.names)
}

// Columns returns a copy of the table's column list
// in declaration order.
func (c *TableContext[R]) Columns() Columns[R] {
	return slices.Clone(c.columns)
}

// Column returns the column at the passed declaration index
// or nil if the index is out of range.
func (c *TableContext[R]) Column(col int) Column[R] {
	if col < 0 || col >= len(c.columns) {
		return nil
	}
	return c.columns[col]
}

// Version returns a counter that increments with every
// effective state mutation. Hosts can use it to detect
// if a cached projection is stale.
func (c *TableContext[R]) Version() uint64 {
	return c.version
}

// SetOnChange registers a callback invoked synchronously after every
// effective state mutation, or removes it when fn is nil.
// Hosts use it to schedule a re-render after an interaction.
func (c *TableContext[R]) SetOnChange(fn func()) {
	c.onChange = fn
}

func (c *TableContext[R]) changed() {
	c.version++
	if c.onChange != nil {
		c.onChange()
	}
}

// RequestSort applies a sort gesture for the column at the passed
// declaration index. Out of range columns are ignored so that stale
// indices from asynchronous event handlers degrade to no-ops.
func (c *TableContext[R]) RequestSort(col int, gesture SortGesture) {
	if col < 0 || col >= len(c.columns) {
		return
	}
	records, changed := applySortGesture(c.sortRecords, col, gesture)
	c.sortRecords = records
	if changed {
		c.changed()
	}
}

// SortInfo returns the sort priority and direction of a column.
// Priority 0 is the primary sort key. ok is false if the column
// currently has no sort record.
func (c *TableContext[R]) SortInfo(col int) (priority int, direction SortDirection, ok bool) {
	for i, rec := range c.sortRecords {
		if rec.Column == col {
			return i, rec.Direction, true
		}
	}
	return 0, Ascending, false
}

// SortRecords returns a copy of the current sort record list
// in priority order.
func (c *TableContext[R]) SortRecords() []SortRecord {
	return slices.Clone(c.sortRecords)
}

func (c *TableContext[R]) mutateOrder(mutate func(*ColumnOrder)) {
	before := slices.Clone(c.order.order)
	mutate(c.order)
	if !slices.Equal(before, c.order.order) {
		c.changed()
	}
}

// SwapColumns exchanges the display positions of two columns,
// a no-op if either column is hidden.
func (c *TableContext[R]) SwapColumns(colA, colB int) {
	c.mutateOrder(func(o *ColumnOrder) { o.Swap(colA, colB) })
}

// HideColumn removes a column from the display order.
// Hidden columns still contribute to filtering and sorting.
func (c *TableContext[R]) HideColumn(col int) {
	c.mutateOrder(func(o *ColumnOrder) { o.Hide(col) })
}

// ShowColumn appends a hidden column at the end of the display order.
func (c *TableContext[R]) ShowColumn(col int) {
	c.mutateOrder(func(o *ColumnOrder) { o.Show(col) })
}

// ShowColumnAt inserts a hidden column at the passed display position.
func (c *TableContext[R]) ShowColumnAt(col, index int) {
	c.mutateOrder(func(o *ColumnOrder) { o.ShowAt(col, index) })
}

// MoveColumnTo moves a visible column to the passed display position.
func (c *TableContext[R]) MoveColumnTo(col, index int) {
	c.mutateOrder(func(o *ColumnOrder) { o.MoveTo(col, index) })
}

// MoveColumnForward moves a visible column one display position
// towards the front.
func (c *TableContext[R]) MoveColumnForward(col int) {
	c.mutateOrder(func(o *ColumnOrder) { o.MoveForward(col) })
}

// MoveColumnBackward moves a visible column one display position
// towards the end.
func (c *TableContext[R]) MoveColumnBackward(col int) {
	c.mutateOrder(func(o *ColumnOrder) { o.MoveBackward(col) })
}

// IsColumnVisible reports if a column is part of the display order.
func (c *TableContext[R]) IsColumnVisible(col int) bool {
	return c.order.IsVisible(col)
}

// ColumnPosition returns the display position of a column
// or ok false if the column is hidden.
func (c *TableContext[R]) ColumnPosition(col int) (pos int, ok bool) {
	return c.order.Position(col)
}

// ResetOrder restores the natural column order with all
// columns visible.
func (c *TableContext[R]) ResetOrder() {
	c.mutateOrder(func(o *ColumnOrder) { o.Reset() })
}

// VisibleColumns returns the visible column declaration indices
// in display order.
func (c *TableContext[R]) VisibleColumns() []int {
	return c.order.Columns()
}

// ColumnContext returns a column scoped facade for the column at the
// passed declaration index, saturated to the valid range.
func (c *TableContext[R]) ColumnContext(col int) ColumnContext[R] {
	if col < 0 {
		col = 0
	}
	if col >= len(c.columns) {
		col = len(c.columns) - 1
	}
	return ColumnContext[R]{table: c, column: col}
}

// Headers returns a header handle per visible column in display order.
func (c *TableContext[R]) Headers() []HeaderData[R] {
	visible := c.order.Columns()
	headers := make([]HeaderData[R], len(visible))
	for displayIndex, col := range visible {
		headers[displayIndex] = HeaderData[R]{table: c, column: col, displayIndex: displayIndex}
	}
	return headers
}

// AllHeaders returns a header handle for every column in declaration
// order, including hidden columns. Hosts use it to render column
// visibility pickers. The DisplayIndex of a hidden header is -1.
func (c *TableContext[R]) AllHeaders() []HeaderData[R] {
	headers := make([]HeaderData[R], len(c.columns))
	for col := range c.columns {
		displayIndex, visible := c.order.Position(col)
		if !visible {
			displayIndex = -1
		}
		headers[col] = HeaderData[R]{table: c, column: col, displayIndex: displayIndex}
	}
	return headers
}

// RowIndices returns the current row projection as indices into the
// passed row slice: rows surviving the AND of all column filters,
// in their original order when no sort records exist, else stable
// sorted by the sort records in priority order.
//
// Filters and comparators of hidden columns still apply, visibility
// is a display concern only.
func (c *TableContext[R]) RowIndices(rows []R) []int {
	idx := make([]int, 0, len(rows))
	for i, row := range rows {
		if c.columns.Filter(row) {
			idx = append(idx, i)
		}
	}
	if len(c.sortRecords) > 0 {
		slices.SortStableFunc(idx, func(a, b int) int {
			for _, rec := range c.sortRecords {
				cmp := c.columns.Compare(rec.Column, rows[a], rows[b])
				if rec.Direction == Descending {
					cmp = -cmp
				}
				if cmp != 0 {
					return cmp
				}
			}
			return 0
		})
	}
	return idx
}

// Rows returns the current row projection as row handles
// for rendering. See RowIndices for the projection semantics.
func (c *TableContext[R]) Rows(rows []R) []RowData[R] {
	indices := c.RowIndices(rows)
	data := make([]RowData[R], len(indices))
	for i, rowIndex := range indices {
		data[i] = RowData[R]{table: c, rowIndex: rowIndex, row: rows[rowIndex]}
	}
	return data
}
