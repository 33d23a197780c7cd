package sqltable

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/ryo33/go-tabular"
)

// ScanTable scans all remaining rows of a query result set
// into a table of generic value rows with the row number as key.
// The rows are closed before returning.
//
// Cell values keep the driver types like int64, float64,
// string, []byte, time.Time, and nil.
func ScanTable(ctx context.Context, rows Rows) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var valuesRows []tabular.ValuesRow
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		err = rows.Scan(valueScanners...)
		if err != nil {
			return nil, nil, err
		}
		valuesRows = append(valuesRows, tabular.ValuesRow{
			RowKey: strconv.Itoa(len(valuesRows)),
			Values: scannedValues,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	tableColumns := make(tabular.Columns[tabular.ValuesRow], len(columns))
	for i, column := range columns {
		tableColumns[i] = tabular.NewValueColumn(i, column)
	}
	return tabular.NewTableContext(tableColumns...), valuesRows, nil
}

// QueryTable queries db and scans the result into a table
// of generic value rows. See ScanTable.
func QueryTable(ctx context.Context, db *sql.DB, query string, args ...any) (*tabular.TableContext[tabular.ValuesRow], []tabular.ValuesRow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	return ScanTable(ctx, rows)
}
