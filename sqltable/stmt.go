package sqltable

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var _ driver.Stmt = new(stmt)

// stmt implements driver.Stmt for a parsed SELECT query
// over a table snapshot.
//
// The query is parsed and resolved at preparation time:
// selected columns are mapped to snapshot columns and
// OFFSET/LIMIT are clamped to the snapshot's row bounds.
type stmt struct {
	table   *Table
	mapping []int // nil selects all columns in snapshot order
	begin   int
	end     int
}

// newStmt parses a SQL query and resolves it
// against the passed tables map.
//
// Query grammar:
//   - SELECT * FROM tablename
//   - SELECT col1, col2 FROM tablename
//   - with optional LIMIT n and OFFSET n clauses
//   - column and table names can be quoted with double quotes
//   - trailing semicolons are allowed
func newStmt(tables map[string]*Table, query string) (*stmt, error) {
	queryColumns, tableName, offset, limit, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	table := tables[tableName]
	if table == nil {
		return nil, fmt.Errorf("table %q not found", tableName)
	}

	var mapping []int
	if !(len(queryColumns) == 1 && queryColumns[0] == "*") {
		mapping = make([]int, len(queryColumns))
		for i, queryColumn := range queryColumns {
			mapping[i] = slices.Index(table.columns, queryColumn)
			if mapping[i] == -1 {
				return nil, fmt.Errorf("column %q not found", queryColumn)
			}
		}
	}

	begin := min(offset, len(table.rows))
	end := len(table.rows)
	if limit > 0 {
		end = min(begin+limit, len(table.rows))
	}
	return &stmt{table: table, mapping: mapping, begin: begin, end: end}, nil
}

func (s *stmt) Close() error {
	return nil
}

// NumInput implements driver.Stmt.
// Parameterized queries are not supported.
func (s *stmt) NumInput() int {
	return 0
}

// Exec implements driver.Stmt.
// The driver is read-only, Exec always fails.
func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("Exec not implemented")
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return &driverRows{
		table:    s.table,
		mapping:  s.mapping,
		rowIndex: s.begin,
		end:      s.end,
	}, nil
}

var _ driver.Rows = new(driverRows)

// driverRows implements driver.Rows iterating
// the resolved row range of a table snapshot.
type driverRows struct {
	table    *Table
	mapping  []int
	rowIndex int
	end      int
}

func (r *driverRows) Columns() []string {
	if r.mapping == nil {
		return r.table.columns
	}
	columns := make([]string, len(r.mapping))
	for i, sourceCol := range r.mapping {
		columns[i] = r.table.columns[sourceCol]
	}
	return columns
}

func (r *driverRows) Close() error {
	r.rowIndex = -1
	return nil
}

// Next implements driver.Rows.
// It returns io.EOF after the last row of the resolved range.
func (r *driverRows) Next(dest []driver.Value) (err error) {
	if r.rowIndex < 0 || r.rowIndex >= r.end {
		return io.EOF
	}
	row := r.table.rows[r.rowIndex]
	for col := range dest {
		sourceCol := col
		if r.mapping != nil {
			sourceCol = r.mapping[col]
		}
		dest[col], err = driverValue(row[sourceCol])
		if err != nil {
			return err
		}
	}
	r.rowIndex++
	return nil
}

// driverValue converts a snapshot cell value into a driver.Value.
// driver.Valuer implementations are unwrapped and values
// with non driver.Value types like int or float32 are
// converted to their 64 bit driver representations.
func driverValue(val any) (driver.Value, error) {
	if valuer, ok := val.(driver.Valuer); ok {
		return valuer.Value()
	}
	if driver.IsValue(val) {
		return val, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(val)
}

var queryRegexp = regexp.MustCompile(`^(?:SELECT|select)\s+(\*|(?:[a-zA-Z]\w*|"[a-zA-Z]\w*")(?:\s*,\s*[a-zA-Z]\w*|\s*,\s*"[a-zA-Z]\w*")*)\s+(?:FROM|from)\s+([a-zA-Z][\w.]*|"[a-zA-Z][\w.]*")(?:\s+(?:LIMIT|limit)\s+(\d+))?(?:\s+(?:OFFSET|offset)\s+(\d+))?(?:\s*;)*$`)

// parseQuery parses a SELECT query and returns the selected
// column names (or a single "*"), the unquoted table name,
// and the values of the optional OFFSET and LIMIT clauses.
func parseQuery(query string) (columns []string, table string, offset, limit int, err error) {
	query = strings.TrimSpace(query)
	m := queryRegexp.FindStringSubmatch(query)
	if m == nil {
		return nil, "", 0, 0, fmt.Errorf("invalid query %q", query)
	}
	columns = strings.Split(m[1], ",")
	for i := range columns {
		columns[i] = unquote(strings.TrimSpace(columns[i]))
	}
	table = unquote(m[2])
	if m[3] != "" {
		limit, err = strconv.Atoi(m[3])
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("invalid LIMIT in query %q: %w", query, err)
		}
	}
	if m[4] != "" {
		offset, err = strconv.Atoi(m[4])
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("invalid OFFSET in query %q: %w", query, err)
		}
	}
	return columns, table, offset, limit, nil
}

func unquote(str string) string {
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		return str[1 : len(str)-1]
	}
	return str
}
