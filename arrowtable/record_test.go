package arrowtable

import (
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/ryo33/go-tabular"
)

func TestExportRecordFromRecord(t *testing.T) {
	joined := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	columns, rows := tabular.NewValuesTable(
		[]string{"Name", "Age", "Score", "Active", "Joined", "Data", "Note"},
		[][]any{
			{"Alice", 30, 1.5, true, joined, []byte{1, 2}, "x"},
			{"Bob", 25, 2.5, false, joined.Add(time.Hour), []byte{3}, nil},
		},
	)
	table := tabular.NewTableContext(columns...)

	rec, err := ExportRecord(context.Background(), table, rows, nil)
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(2), rec.NumRows())
	schema := rec.Schema()
	require.Equal(t, []string{"Name", "Age", "Score", "Active", "Joined", "Data", "Note"}, fieldNames(schema))
	require.Equal(t, arrow.BinaryTypes.String, schema.Field(0).Type)
	require.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(1).Type)
	require.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(2).Type)
	require.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(3).Type)
	require.Equal(t, arrow.FixedWidthTypes.Timestamp_us, schema.Field(4).Type)
	require.Equal(t, arrow.BinaryTypes.Binary, schema.Field(5).Type)
	require.Equal(t, arrow.BinaryTypes.String, schema.Field(6).Type)

	gotTable, gotRows := FromRecord(rec)
	require.Equal(t, []string{"Name", "Age", "Score", "Active", "Joined", "Data", "Note"}, gotTable.ColumnNames())
	require.Equal(t, []tabular.ValuesRow{
		{RowKey: "0", Values: []any{"Alice", int64(30), 1.5, true, joined, []byte{1, 2}, "x"}},
		{RowKey: "1", Values: []any{"Bob", int64(25), 2.5, false, joined.Add(time.Hour), []byte{3}, nil}},
	}, gotRows)
}

func TestExportRecord_projection(t *testing.T) {
	columns, rows := tabular.NewValuesTable(
		[]string{"Name", "Age", "Secret"},
		[][]any{
			{"Bob", 30, "hush"},
			{"Alice", 25, "shh"},
		},
	)
	table := tabular.NewTableContext(columns...)
	table.HideColumn(2)
	table.RequestSort(1, tabular.SortAddFirst(tabular.Ascending))

	rec, err := ExportRecord(context.Background(), table, rows, memory.NewGoAllocator())
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, []string{"Name", "Age"}, fieldNames(rec.Schema()))
	names := rec.Column(0).(*array.String)
	require.Equal(t, "Alice", names.Value(0))
	require.Equal(t, "Bob", names.Value(1))
	ages := rec.Column(1).(*array.Int64)
	require.Equal(t, int64(25), ages.Value(0))
	require.Equal(t, int64(30), ages.Value(1))
}

func TestExportRecord_mixedColumn(t *testing.T) {
	columns, rows := tabular.NewValuesTable(
		[]string{"Value"},
		[][]any{{1}, {"two"}},
	)
	table := tabular.NewTableContext(columns...)

	_, err := ExportRecord(context.Background(), table, rows, nil)
	require.ErrorContains(t, err, `cannot append "two"`)
}

func TestExportRecord_canceledContext(t *testing.T) {
	columns, rows := tabular.NewValuesTable([]string{"Name"}, [][]any{{"Alice"}})
	table := tabular.NewTableContext(columns...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExportRecord(ctx, table, rows, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFromRecord_nativeTypes(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "ratio", Type: arrow.PrimitiveTypes.Float32, Nullable: true},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{7, 8}, nil)
	b.Field(1).(*array.Float32Builder).Append(0.5)
	b.Field(1).(*array.Float32Builder).AppendNull()
	b.Field(2).(*array.Date32Builder).Append(arrow.Date32FromTime(day))
	b.Field(2).(*array.Date32Builder).AppendNull()
	rec := b.NewRecord()
	defer rec.Release()

	table, rows := FromRecord(rec)
	require.Equal(t, []string{"id", "ratio", "day"}, table.ColumnNames())
	require.Equal(t, []tabular.ValuesRow{
		{RowKey: "0", Values: []any{int32(7), float32(0.5), day}},
		{RowKey: "1", Values: []any{int32(8), nil, nil}},
	}, rows)

	// Wrapped rows sort like any other table
	table.RequestSort(1, tabular.SortAddFirst(tabular.Ascending))
	require.Equal(t, []int{1, 0}, table.RowIndices(rows))
}
