package tabular

import "slices"

// ColumnOrder manages the display order and visibility of table columns.
//
// Columns are addressed by their index in the original column list.
// The order holds the currently visible column indices in display order,
// an index missing from the order means the column is hidden.
// Hidden columns stay addressable for sorting and filtering,
// visibility only affects which columns are rendered or exported.
//
// All column and position arguments are saturated to the valid range
// instead of returning errors. Malformed input degrades to a no-op
// or to the nearest valid column, it never panics.
type ColumnOrder struct {
	order        []int
	totalColumns int
}

// NewColumnOrder returns a ColumnOrder for totalColumns columns,
// all visible in their natural order.
func NewColumnOrder(totalColumns int) *ColumnOrder {
	if totalColumns < 0 {
		totalColumns = 0
	}
	o := &ColumnOrder{
		order:        make([]int, totalColumns),
		totalColumns: totalColumns,
	}
	for i := range o.order {
		o.order[i] = i
	}
	return o
}

// Columns returns the visible column indices in display order.
// The returned slice is a copy and can be modified by the caller.
func (o *ColumnOrder) Columns() []int {
	return slices.Clone(o.order)
}

// TotalColumns returns the total number of columns,
// including hidden ones.
func (o *ColumnOrder) TotalColumns() int {
	return o.totalColumns
}

// NumVisible returns the number of currently visible columns.
func (o *ColumnOrder) NumVisible() int {
	return len(o.order)
}

// Swap exchanges the display positions of two columns.
// If either column is hidden this is a no-op.
func (o *ColumnOrder) Swap(colA, colB int) {
	if o.totalColumns == 0 {
		return
	}
	colA = o.saturate(colA)
	colB = o.saturate(colB)
	posA := slices.Index(o.order, colA)
	posB := slices.Index(o.order, colB)
	if posA < 0 || posB < 0 {
		return
	}
	o.order[posA], o.order[posB] = o.order[posB], o.order[posA]
}

// Hide removes a column from the display order.
// Hiding an already hidden column is a no-op.
func (o *ColumnOrder) Hide(col int) {
	if o.totalColumns == 0 {
		return
	}
	col = o.saturate(col)
	if pos := slices.Index(o.order, col); pos >= 0 {
		o.order = slices.Delete(o.order, pos, pos+1)
	}
}

// Show appends a hidden column at the end of the display order.
// Showing a visible column is a no-op.
func (o *ColumnOrder) Show(col int) {
	if o.totalColumns == 0 {
		return
	}
	col = o.saturate(col)
	if slices.Contains(o.order, col) {
		return
	}
	o.order = append(o.order, col)
}

// ShowAt inserts a hidden column at the passed display position,
// saturated to the number of visible columns.
// Showing a visible column is a no-op.
func (o *ColumnOrder) ShowAt(col, index int) {
	if o.totalColumns == 0 {
		return
	}
	col = o.saturate(col)
	if slices.Contains(o.order, col) {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(o.order) {
		index = len(o.order)
	}
	o.order = slices.Insert(o.order, index, col)
}

// MoveTo moves a visible column to the passed display position,
// saturated to the number of visible columns.
// Moving a hidden column is a no-op.
func (o *ColumnOrder) MoveTo(col, newIndex int) {
	if o.totalColumns == 0 {
		return
	}
	col = o.saturate(col)
	pos := slices.Index(o.order, col)
	if pos < 0 {
		return
	}
	o.order = slices.Delete(o.order, pos, pos+1)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(o.order) {
		newIndex = len(o.order)
	}
	o.order = slices.Insert(o.order, newIndex, col)
}

// MoveForward swaps a visible column with its neighbor towards
// display position 0. A no-op for the first visible column
// and for hidden columns.
func (o *ColumnOrder) MoveForward(col int) {
	if o.totalColumns == 0 {
		return
	}
	col = o.saturate(col)
	if pos := slices.Index(o.order, col); pos > 0 {
		o.order[pos], o.order[pos-1] = o.order[pos-1], o.order[pos]
	}
}

// MoveBackward swaps a visible column with its neighbor towards
// the end of the display order. A no-op for the last visible column
// and for hidden columns.
func (o *ColumnOrder) MoveBackward(col int) {
	if o.totalColumns == 0 {
		return
	}
	col = o.saturate(col)
	if pos := slices.Index(o.order, col); pos >= 0 && pos < len(o.order)-1 {
		o.order[pos], o.order[pos+1] = o.order[pos+1], o.order[pos]
	}
}

// IsVisible reports if a column is part of the display order.
func (o *ColumnOrder) IsVisible(col int) bool {
	if o.totalColumns == 0 {
		return false
	}
	return slices.Contains(o.order, o.saturate(col))
}

// Position returns the display position of a column
// or ok false if the column is hidden.
func (o *ColumnOrder) Position(col int) (pos int, ok bool) {
	if o.totalColumns == 0 {
		return 0, false
	}
	pos = slices.Index(o.order, o.saturate(col))
	if pos < 0 {
		return 0, false
	}
	return pos, true
}

// Reset restores the natural column order with all columns visible.
func (o *ColumnOrder) Reset() {
	o.order = o.order[:0]
	for i := 0; i < o.totalColumns; i++ {
		o.order = append(o.order, i)
	}
}

func (o *ColumnOrder) saturate(col int) int {
	if col < 0 {
		return 0
	}
	if col >= o.totalColumns {
		return o.totalColumns - 1
	}
	return col
}
