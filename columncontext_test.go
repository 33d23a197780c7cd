package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// priorityColumn renders a static attribute without
// filter, compare, or serialization behavior.
type priorityColumn struct{}

func (priorityColumn) Title() string { return "Priority" }

func newTitledPersonTable() *TableContext[person] {
	return NewTableContext[person](
		FuncColumn[person]{
			ColumnTitle: "Name",
			Compare:     nameColumn{}.CompareRows,
			Serialize:   func(row person) any { return row.Name },
		},
		FuncColumn[person]{
			ColumnTitle: "Age",
			Compare:     ageColumn{}.CompareRows,
			Serialize:   func(row person) any { return row.Age },
		},
		priorityColumn{},
	)
}

func headerTitles[R Row](headers []HeaderData[R]) []string {
	titles := make([]string, len(headers))
	for i, h := range headers {
		titles[i] = h.Title()
	}
	return titles
}

func TestColumnContext_swapAndSort(t *testing.T) {
	table := NewTableContext[person](nameColumn{}, ageColumn{})
	rows := []person{{"Charlie", 35}, {"Bob", 25}, {"Alice", 30}}

	// swap the display positions, then sort by the original column 0
	table.ColumnContext(0).SwapWith(1)
	table.ColumnContext(0).RequestSort(SortAddFirst(Ascending))

	var sortedNames []string
	for _, row := range table.Rows(rows) {
		sortedNames = append(sortedNames, row.Row().Name)
	}
	// display reordering must not change which data the sort key addresses
	require.Equal(t, []string{"Alice", "Bob", "Charlie"}, sortedNames)
}

func TestColumnContext_hide(t *testing.T) {
	table := newTitledPersonTable()
	require.Len(t, table.Headers(), 3)

	table.ColumnContext(0).Hide()

	require.Equal(t, []string{"Age", "Priority"}, headerTitles(table.Headers()))
	require.False(t, table.ColumnContext(0).IsVisible())
}

func TestColumnContext_showAppendsAtEnd(t *testing.T) {
	table := newTitledPersonTable()
	table.ColumnContext(0).Hide()
	require.Equal(t, []string{"Age", "Priority"}, headerTitles(table.Headers()))

	table.ColumnContext(0).Show()

	// a re-shown column joins at the end, not at its original position
	require.Equal(t, []string{"Age", "Priority", "Name"}, headerTitles(table.Headers()))
	require.True(t, table.ColumnContext(0).IsVisible())
}

func TestColumnContext_showAt(t *testing.T) {
	table := newTitledPersonTable()
	table.ColumnContext(1).Hide()

	table.ColumnContext(1).ShowAt(0)

	require.Equal(t, []string{"Age", "Name", "Priority"}, headerTitles(table.Headers()))
}

func TestColumnContext_moveTo(t *testing.T) {
	table := newTitledPersonTable()
	require.Len(t, table.Headers(), 3)

	table.ColumnContext(2).MoveTo(0)

	require.Equal(t, []string{"Priority", "Name", "Age"}, headerTitles(table.Headers()))
}

func TestColumnContext_moveForwardBackward(t *testing.T) {
	table := newTitledPersonTable()

	table.ColumnContext(1).MoveForward()
	require.Equal(t, []string{"Age", "Name", "Priority"}, headerTitles(table.Headers()))

	table.ColumnContext(1).MoveBackward()
	require.Equal(t, []string{"Name", "Age", "Priority"}, headerTitles(table.Headers()))

	// boundary moves are no-ops
	table.ColumnContext(0).MoveForward()
	table.ColumnContext(2).MoveBackward()
	require.Equal(t, []string{"Name", "Age", "Priority"}, headerTitles(table.Headers()))
}

func TestAllHeaders_includesHidden(t *testing.T) {
	table := newTitledPersonTable()

	table.ColumnContext(1).Hide()

	require.Equal(t, []string{"Name", "Priority"}, headerTitles(table.Headers()))

	// all headers keep the declaration order and include hidden columns
	all := table.AllHeaders()
	require.Equal(t, []string{"Name", "Age", "Priority"}, headerTitles(all))
	require.False(t, all[1].ColumnContext().IsVisible())
	require.Equal(t, -1, all[1].DisplayIndex())
	require.True(t, all[0].ColumnContext().IsVisible())
	require.Equal(t, 0, all[0].DisplayIndex())
	require.Equal(t, 1, all[2].DisplayIndex())
}

func TestColumnContext_hiddenColumnSort(t *testing.T) {
	table := NewTableContext[person](nameColumn{}, ageColumn{})
	rows := []person{{"Charlie", 35}, {"Bob", 25}, {"Alice", 30}}

	ageContext := table.ColumnContext(1)
	ageContext.Hide()
	ageContext.RequestSort(SortAddFirst(Ascending))

	// sorting by the hidden age column still works
	require.Equal(t, []int{1, 2, 0}, table.RowIndices(rows))
	require.Equal(t, []string{"name"}, headerTitles(table.Headers()))
}

func TestColumnContext_swapThenSortHidden(t *testing.T) {
	table := newTitledPersonTable()
	rows := []person{{"Charlie", 35}, {"Bob", 25}, {"Alice", 30}}

	table.ColumnContext(0).SwapWith(1)
	table.ColumnContext(1).Hide()
	table.ColumnContext(1).RequestSort(SortAddFirst(Descending))

	// ages descending: Charlie(0:35), Alice(2:30), Bob(1:25)
	require.Equal(t, []int{0, 2, 1}, table.RowIndices(rows))
	require.Equal(t, []string{"Name", "Priority"}, headerTitles(table.Headers()))
}

func TestColumnContext_sortInfoAndIdentity(t *testing.T) {
	table := newTitledPersonTable()

	nameContext := table.ColumnContext(0)
	require.Equal(t, 0, nameContext.Index())
	require.Equal(t, "Name", nameContext.Title())
	require.Equal(t, "Name", nameContext.Column().Title())

	_, _, ok := nameContext.SortInfo()
	require.False(t, ok)

	nameContext.RequestSort(SortAddFirst(Descending))
	priority, direction, ok := nameContext.SortInfo()
	require.True(t, ok)
	require.Equal(t, 0, priority)
	require.Equal(t, Descending, direction)

	nameContext.RequestSort(SortToggle())
	_, direction, _ = nameContext.SortInfo()
	require.Equal(t, Ascending, direction)
}

func TestColumnContext_position(t *testing.T) {
	table := newTitledPersonTable()

	pos, ok := table.ColumnContext(2).Position()
	require.True(t, ok)
	require.Equal(t, 2, pos)

	table.ColumnContext(2).MoveTo(0)
	pos, ok = table.ColumnContext(2).Position()
	require.True(t, ok)
	require.Equal(t, 0, pos)

	table.ColumnContext(2).Hide()
	_, ok = table.ColumnContext(2).Position()
	require.False(t, ok)
}

func TestColumnContext_resetOrder(t *testing.T) {
	table := newTitledPersonTable()

	table.ColumnContext(0).Hide()
	table.ColumnContext(2).MoveTo(0)
	require.Equal(t, []string{"Priority", "Age"}, headerTitles(table.Headers()))

	table.ColumnContext(1).ResetOrder()
	require.Equal(t, []string{"Name", "Age", "Priority"}, headerTitles(table.Headers()))
}

func TestColumnContext_saturatedConstruction(t *testing.T) {
	table := newTitledPersonTable()

	require.Equal(t, 2, table.ColumnContext(100).Index())
	require.Equal(t, 0, table.ColumnContext(-3).Index())
}
