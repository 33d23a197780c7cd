package tabular

// ColumnContext is a column scoped facade over a TableContext,
// restricting sort and order operations to one column.
//
// It is a lightweight view holding the table state by reference
// plus the column's declaration index. Host UIs pass it to header
// components so a header can sort, hide, or move its own column
// without addressing the whole table.
type ColumnContext[R Row] struct {
	table  *TableContext[R]
	column int
}

// Index returns the column's declaration index.
func (c ColumnContext[R]) Index() int {
	return c.column
}

// Title returns the column's name.
func (c ColumnContext[R]) Title() string {
	if c.column < 0 || c.column >= len(c.table.names) {
		return ""
	}
	return c.table.names[c.column]
}

// Column returns the column object.
func (c ColumnContext[R]) Column() Column[R] {
	return c.table.Column(c.column)
}

// RequestSort applies a sort gesture for this column.
func (c ColumnContext[R]) RequestSort(gesture SortGesture) {
	c.table.RequestSort(c.column, gesture)
}

// SortInfo returns this column's sort priority and direction,
// ok is false if the column has no sort record.
func (c ColumnContext[R]) SortInfo() (priority int, direction SortDirection, ok bool) {
	return c.table.SortInfo(c.column)
}

// SwapWith exchanges this column's display position with
// another column, a no-op if either is hidden.
func (c ColumnContext[R]) SwapWith(other int) {
	c.table.SwapColumns(c.column, other)
}

// Hide removes this column from the display order.
func (c ColumnContext[R]) Hide() {
	c.table.HideColumn(c.column)
}

// Show appends this column at the end of the display order
// if it is hidden.
func (c ColumnContext[R]) Show() {
	c.table.ShowColumn(c.column)
}

// ShowAt inserts this column at the passed display position
// if it is hidden.
func (c ColumnContext[R]) ShowAt(index int) {
	c.table.ShowColumnAt(c.column, index)
}

// MoveTo moves this column to the passed display position.
func (c ColumnContext[R]) MoveTo(index int) {
	c.table.MoveColumnTo(c.column, index)
}

// MoveForward moves this column one display position towards the front.
func (c ColumnContext[R]) MoveForward() {
	c.table.MoveColumnForward(c.column)
}

// MoveBackward moves this column one display position towards the end.
func (c ColumnContext[R]) MoveBackward() {
	c.table.MoveColumnBackward(c.column)
}

// IsVisible reports if this column is part of the display order.
func (c ColumnContext[R]) IsVisible() bool {
	return c.table.IsColumnVisible(c.column)
}

// Position returns this column's display position
// or ok false if it is hidden.
func (c ColumnContext[R]) Position() (pos int, ok bool) {
	return c.table.ColumnPosition(c.column)
}

// ResetOrder restores the natural column order of the whole table
// with all columns visible.
func (c ColumnContext[R]) ResetOrder() {
	c.table.ResetOrder()
}
