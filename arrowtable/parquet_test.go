package arrowtable

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ryo33/go-tabular"
)

func TestParquetRoundTrip(t *testing.T) {
	ctx := context.Background()
	joined := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	columns, rows := tabular.NewValuesTable(
		[]string{"Name", "Age", "Score", "Active", "Joined", "Data"},
		[][]any{
			{"Alice", 30, 1.5, true, joined, []byte{1, 2}},
			{"Bob", 25, 2.5, false, joined.Add(time.Hour), nil},
		},
	)
	table := tabular.NewTableContext(columns...)

	var buf bytes.Buffer
	err := ExportParquet(ctx, &buf, table, rows)
	require.NoError(t, err)

	gotTable, gotRows, err := ReadParquet(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Age", "Score", "Active", "Joined", "Data"}, gotTable.ColumnNames())
	require.Equal(t, []tabular.ValuesRow{
		{RowKey: "0", Values: []any{"Alice", int64(30), 1.5, true, joined, []byte{1, 2}}},
		{RowKey: "1", Values: []any{"Bob", int64(25), 2.5, false, joined.Add(time.Hour), nil}},
	}, gotRows)
}

func TestParquetRoundTrip_projection(t *testing.T) {
	ctx := context.Background()
	columns, rows := tabular.NewValuesTable(
		[]string{"Name", "Age", "Secret"},
		[][]any{
			{"Bob", 30, "hush"},
			{"Alice", 25, "shh"},
			{"Carol", 35, "psst"},
		},
	)
	table := tabular.NewTableContext(columns...)
	table.HideColumn(2)
	table.RequestSort(1, tabular.SortAddFirst(tabular.Descending))

	var buf bytes.Buffer
	err := ExportParquet(ctx, &buf, table, rows)
	require.NoError(t, err)

	gotTable, gotRows, err := ReadParquet(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Age"}, gotTable.ColumnNames())
	require.Equal(t, []tabular.ValuesRow{
		{RowKey: "0", Values: []any{"Carol", int64(35)}},
		{RowKey: "1", Values: []any{"Bob", int64(30)}},
		{RowKey: "2", Values: []any{"Alice", int64(25)}},
	}, gotRows)
}

func TestReadParquet_invalidData(t *testing.T) {
	_, _, err := ReadParquet(context.Background(), bytes.NewReader([]byte("not a parquet file")))
	require.Error(t, err)
}

func TestExportParquet_canceledContext(t *testing.T) {
	columns, rows := tabular.NewValuesTable([]string{"Name"}, [][]any{{"Alice"}})
	table := tabular.NewTableContext(columns...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := ExportParquet(ctx, &buf, table, rows)
	require.ErrorIs(t, err, context.Canceled)
}
