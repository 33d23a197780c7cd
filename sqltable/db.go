// Package sqltable connects projected tables with database/sql:
// outbound it serves table snapshots as a read-only SQL driver,
// inbound it scans SQL query results into tables.
package sqltable

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"slices"

	"github.com/ryo33/go-tabular"
)

// Table is an immutable snapshot of a projected table
// that can be served by the SQL driver.
// Use Snapshot to create one.
type Table struct {
	columns []string
	rows    [][]any
}

// Columns returns the snapshot's column names in display order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// NumRows returns the number of projected rows in the snapshot.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Snapshot materializes the current projection of the passed table:
// the visible exportable columns in display order and the
// filtered rows in sort order.
//
// The snapshot is decoupled from the table, later changes of
// column order, visibility, sorting, or filtering don't affect it.
func Snapshot[R tabular.Row](ctx context.Context, table *tabular.TableContext[R], rows []R) (*Table, error) {
	e := new(snapshotExporter)
	err := tabular.Export(ctx, e, table, rows)
	if err != nil {
		return nil, err
	}
	return &Table{columns: e.columns, rows: e.rows}, nil
}

var _ tabular.Exporter = new(snapshotExporter)

type snapshotExporter struct {
	columns []string
	rows    [][]any
}

func (e *snapshotExporter) SerializeHeader(ctx context.Context, col int, title string) error {
	e.columns = append(e.columns, title)
	return nil
}

func (e *snapshotExporter) SerializeCell(ctx context.Context, row, col int, value any) error {
	if row == len(e.rows) {
		e.rows = append(e.rows, make([]any, 0, len(e.columns)))
	}
	e.rows[row] = append(e.rows[row], value)
	return nil
}

// NewTablesDB returns a read-only sql.DB querying
// the passed table snapshots by name.
//
// Supported are simple SELECT queries over a single table
// with optional column projection, LIMIT, and OFFSET.
func NewTablesDB(tables map[string]*Table) *sql.DB {
	return sql.OpenDB(database{tables: tables})
}

// NewTableDB returns a read-only sql.DB querying
// the passed table snapshot as table name.
func NewTableDB(name string, table *Table) *sql.DB {
	return NewTablesDB(map[string]*Table{
		name: table,
	})
}

// database implements driver.Driver, driver.Connector, driver.Conn,
// and driver.Tx in one stateless value over the served tables.
type database struct {
	tables map[string]*Table
}

func (db database) Connect(context.Context) (driver.Conn, error) {
	return db, nil
}

func (db database) Driver() driver.Driver {
	return db
}

func (db database) Open(string) (driver.Conn, error) {
	return db, nil
}

func (db database) OpenConnector(string) (driver.Connector, error) {
	return db, nil
}

func (db database) Prepare(query string) (driver.Stmt, error) {
	return newStmt(db.tables, query)
}

func (database) Close() error {
	return nil
}

func (db database) Begin() (driver.Tx, error) {
	return db, nil
}

func (database) Commit() error {
	return nil
}

func (database) Rollback() error {
	return nil
}
