package tabular

import (
	"cmp"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	Age  int
}

func (p person) Key() string { return fmt.Sprintf("%s_%d", p.Name, p.Age) }

// nameColumn sorts by name and optionally filters
// by name prefix or substring.
type nameColumn struct {
	startsWith string
	contains   string
}

func (nameColumn) Title() string { return "name" }

func (c nameColumn) FilterRow(row person) bool {
	switch {
	case c.startsWith != "":
		return strings.HasPrefix(row.Name, c.startsWith)
	case c.contains != "":
		return strings.Contains(row.Name, c.contains)
	default:
		return true
	}
}

func (nameColumn) CompareRows(a, b person) int {
	return strings.Compare(a.Name, b.Name)
}

func (nameColumn) SerializeCell(row person) any { return row.Name }

// ageColumn sorts by age and optionally filters by minimum age.
type ageColumn struct {
	minAge int
}

func (ageColumn) Title() string { return "age" }

func (c ageColumn) FilterRow(row person) bool {
	return row.Age >= c.minAge
}

func (ageColumn) CompareRows(a, b person) int {
	return cmp.Compare(a.Age, b.Age)
}

func (ageColumn) SerializeCell(row person) any { return row.Age }

var (
	_ RowFilter[person]      = nameColumn{}
	_ RowComparer[person]    = nameColumn{}
	_ CellSerializer[person] = nameColumn{}
	_ RowFilter[person]      = ageColumn{}
	_ RowComparer[person]    = ageColumn{}
	_ CellSerializer[person] = ageColumn{}
)

func newPersonTable(name nameColumn, age ageColumn) *TableContext[person] {
	return NewTableContext[person](name, age)
}

func TestNewTableContext(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	require.Equal(t, 2, table.NumColumns())
	require.Equal(t, []string{"name", "age"}, table.ColumnNames())
	require.Equal(t, []int{0, 1}, table.VisibleColumns())
	require.Empty(t, table.SortRecords())
}

func TestNewTableContext_duplicateTitlePanics(t *testing.T) {
	require.Panics(t, func() {
		NewTableContext[person](nameColumn{}, nameColumn{})
	})
}

func TestNewTableContext_emptyTitlePanics(t *testing.T) {
	require.Panics(t, func() {
		NewTableContext[person](FuncColumn[person]{ColumnTitle: "  "})
	})
}

func TestTableContext_RowIndices_noSort(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Charlie", 35}, {"Alice", 30}, {"Bob", 25}}
	require.Equal(t, []int{0, 1, 2}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_singleColumnAscending(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Charlie", 35}, {"Alice", 30}, {"Bob", 25}}

	table.RequestSort(0, SortAddFirst(Ascending))

	// Alice(1), Bob(2), Charlie(0)
	require.Equal(t, []int{1, 2, 0}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_singleColumnDescending(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Alice", 25}, {"Bob", 30}, {"Charlie", 35}}

	table.RequestSort(1, SortAddFirst(Descending))

	// Charlie(2:35), Bob(1:30), Alice(0:25)
	require.Equal(t, []int{2, 1, 0}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_multiColumnPriority(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Alice", 30}, {"Bob", 25}, {"Alice", 25}, {"Bob", 30}}

	// age becomes the secondary key after name is added first
	table.RequestSort(1, SortAddFirst(Ascending))
	table.RequestSort(0, SortAddFirst(Ascending))

	// Alice,25(2) Alice,30(0) Bob,25(1) Bob,30(3)
	require.Equal(t, []int{2, 0, 1, 3}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_sortIsStable(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Alice", 30}, {"Alice", 25}, {"Alice", 35}}

	table.RequestSort(0, SortAddFirst(Ascending))

	// equal names keep their original relative order
	require.Equal(t, []int{0, 1, 2}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_partialFilter(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{minAge: 30})
	rows := []person{{"Bob", 25}, {"Alice", 30}, {"Charlie", 35}}

	// Alice(1:30), Charlie(2:35) in original order, Bob(0:25) dropped
	require.Equal(t, []int{1, 2}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_allFilteredOut(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{minAge: 50})
	rows := []person{{"Alice", 30}, {"Bob", 25}, {"Charlie", 35}}
	require.Empty(t, table.RowIndices(rows))
}

func TestTableContext_RowIndices_filterWithMultiColumnSort(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{minAge: 25})
	rows := []person{{"Alice", 30}, {"Bob", 20}, {"Charlie", 35}, {"David", 25}, {"Alice", 28}}

	table.RequestSort(1, SortAddFirst(Ascending))
	table.RequestSort(0, SortAddFirst(Ascending))

	// after filter: Alice(0:30), Charlie(2:35), David(3:25), Alice(4:28)
	// sorted by name then age: Alice,28(4) Alice,30(0) Charlie(2) David(3)
	require.Equal(t, []int{4, 0, 2, 3}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_hiddenColumnStillFiltersAndSorts(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{minAge: 28})
	rows := []person{{"Charlie", 35}, {"Alice", 30}, {"Bob", 25}}

	table.HideColumn(1)
	table.RequestSort(1, SortAddFirst(Descending))

	// Bob dropped by the hidden age filter,
	// survivors sorted by the hidden age column
	require.Equal(t, []int{0, 1}, table.RowIndices(rows))
}

func TestTableContext_RowIndices_emptyDataset(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	table.RequestSort(0, SortAddFirst(Ascending))
	require.Empty(t, table.RowIndices(nil))
}

func TestTableContext_Rows(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Charlie", 35}, {"Alice", 30}, {"Bob", 25}}

	table.RequestSort(0, SortAddFirst(Ascending))

	data := table.Rows(rows)
	require.Len(t, data, 3)
	require.Equal(t, 1, data[0].Index())
	require.Equal(t, person{"Alice", 30}, data[0].Row())
	require.Equal(t, "Alice_30", data[0].Key())

	cells := data[0].Cells()
	require.Len(t, cells, 2)
	require.Equal(t, 0, cells[0].ColumnIndex())
	require.Equal(t, 1, cells[1].ColumnIndex())
	require.Equal(t, 1, cells[1].DisplayIndex())
	require.Equal(t, 1, cells[0].RowIndex())
	require.Equal(t, person{"Alice", 30}, cells[0].Row())
}

func TestTableContext_Rows_cellsFollowDisplayOrder(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	rows := []person{{"Alice", 30}}

	table.SwapColumns(0, 1)

	cells := table.Rows(rows)[0].Cells()
	require.Len(t, cells, 2)
	require.Equal(t, 1, cells[0].ColumnIndex())
	require.Equal(t, 0, cells[1].ColumnIndex())

	table.HideColumn(0)
	cells = table.Rows(rows)[0].Cells()
	require.Len(t, cells, 1)
	require.Equal(t, 1, cells[0].ColumnIndex())
}

func TestTableContext_RequestSort_outOfRangeIsNoop(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	table.RequestSort(-1, SortAddFirst(Ascending))
	table.RequestSort(2, SortAddFirst(Ascending))
	require.Empty(t, table.SortRecords())
}

func TestTableContext_SortInfo(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})

	_, _, ok := table.SortInfo(0)
	require.False(t, ok)

	table.RequestSort(0, SortAddFirst(Descending))
	table.RequestSort(1, SortAddLast(Ascending))

	priority, direction, ok := table.SortInfo(0)
	require.True(t, ok)
	require.Equal(t, 0, priority)
	require.Equal(t, Descending, direction)

	priority, direction, ok = table.SortInfo(1)
	require.True(t, ok)
	require.Equal(t, 1, priority)
	require.Equal(t, Ascending, direction)
}

func TestTableContext_Version(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})
	require.Equal(t, uint64(0), table.Version())

	table.RequestSort(0, SortAddFirst(Ascending))
	require.Equal(t, uint64(1), table.Version())

	// ineffective gestures don't bump the version
	table.RequestSort(1, SortToggle())
	table.RequestSort(1, SortCancel())
	require.Equal(t, uint64(1), table.Version())

	table.HideColumn(0)
	require.Equal(t, uint64(2), table.Version())

	// hiding a hidden column changes nothing
	table.HideColumn(0)
	require.Equal(t, uint64(2), table.Version())
}

func TestTableContext_SetOnChange(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})

	var calls int
	table.SetOnChange(func() { calls++ })

	table.RequestSort(0, SortAddFirst(Ascending))
	table.SwapColumns(0, 1)
	table.RequestSort(0, SortCancel())
	require.Equal(t, 3, calls)

	table.SetOnChange(nil)
	table.RequestSort(0, SortAddFirst(Ascending))
	require.Equal(t, 3, calls)
}

func TestTableContext_ColumnAccessors(t *testing.T) {
	table := newPersonTable(nameColumn{}, ageColumn{})

	require.Equal(t, nameColumn{}, table.Column(0))
	require.Equal(t, ageColumn{}, table.Column(1))
	require.Nil(t, table.Column(-1))
	require.Nil(t, table.Column(2))

	columns := table.Columns()
	require.Len(t, columns, 2)
	require.Equal(t, []string{"name", "age"}, columns.Titles())
}
