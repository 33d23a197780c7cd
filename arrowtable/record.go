// Package arrowtable converts between Apache Arrow data
// and tables.
//
// Arrow records and tables can be wrapped as tables of generic
// value rows, projected tables can be exported as Arrow records
// and written as Parquet files.
package arrowtable

import (
	"bytes"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ryo33/go-tabular"
)

// FromRecord wraps an Arrow record as a table of generic value
// rows with the row number as key.
//
// The schema field names become the column titles.
// Cell values are converted to their native Go types,
// see ArrayValue.
func FromRecord(rec arrow.Record) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow) {
	titles := fieldNames(rec.Schema())
	rows := make([][]any, rec.NumRows())
	for row := range rows {
		values := make([]any, rec.NumCols())
		for col, arr := range rec.Columns() {
			values[col] = ArrayValue(arr, row)
		}
		rows[row] = values
	}
	columns, valuesRows := tabular.NewValuesTable(titles, rows)
	return tabular.NewTableContext(columns...), valuesRows
}

// FromTable wraps an Arrow table as a table of generic value
// rows, reading all chunks of the passed table.
// See FromRecord.
func FromTable(table arrow.Table) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow, error) {
	titles := fieldNames(table.Schema())
	var rows [][]any
	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for row := 0; row < int(rec.NumRows()); row++ {
			values := make([]any, rec.NumCols())
			for col, arr := range rec.Columns() {
				values[col] = ArrayValue(arr, row)
			}
			rows = append(rows, values)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, err
	}
	columns, valuesRows := tabular.NewValuesTable(titles, rows)
	return tabular.NewTableContext(columns...), valuesRows, nil
}

func fieldNames(schema *arrow.Schema) []string {
	names := make([]string, schema.NumFields())
	for i := range names {
		names[i] = schema.Field(i).Name
	}
	return names
}

// ArrayValue returns the value of an Arrow array at the passed
// position converted to its native Go type, or nil for null.
//
// Integers, floats, booleans, and strings convert to their Go
// counterparts, binary values are copied out of the Arrow buffer,
// dates and timestamps convert to time.Time.
// Everything else is formatted as a string.
func ArrayValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	switch col.DataType().ID() {
	case arrow.STRING:
		return col.(*array.String).Value(pos)
	case arrow.LARGE_STRING:
		return col.(*array.LargeString).Value(pos)
	case arrow.BINARY:
		return bytes.Clone(col.(*array.Binary).Value(pos))
	case arrow.LARGE_BINARY:
		return bytes.Clone(col.(*array.LargeBinary).Value(pos))
	case arrow.BOOL:
		return col.(*array.Boolean).Value(pos)
	case arrow.INT8:
		return col.(*array.Int8).Value(pos)
	case arrow.INT16:
		return col.(*array.Int16).Value(pos)
	case arrow.INT32:
		return col.(*array.Int32).Value(pos)
	case arrow.INT64:
		return col.(*array.Int64).Value(pos)
	case arrow.UINT8:
		return col.(*array.Uint8).Value(pos)
	case arrow.UINT16:
		return col.(*array.Uint16).Value(pos)
	case arrow.UINT32:
		return col.(*array.Uint32).Value(pos)
	case arrow.UINT64:
		return col.(*array.Uint64).Value(pos)
	case arrow.FLOAT16:
		return col.(*array.Float16).Value(pos).Float32()
	case arrow.FLOAT32:
		return col.(*array.Float32).Value(pos)
	case arrow.FLOAT64:
		return col.(*array.Float64).Value(pos)
	case arrow.DATE32:
		return col.(*array.Date32).Value(pos).ToTime()
	case arrow.DATE64:
		return col.(*array.Date64).Value(pos).ToTime()
	case arrow.TIMESTAMP:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.(*array.Timestamp).Value(pos).ToTime(unit)
	default:
		return col.ValueStr(pos)
	}
}
