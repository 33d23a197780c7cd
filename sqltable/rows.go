package sqltable

import (
	"database/sql"
	"slices"
)

var _ Rows = &sql.Rows{}

// Rows abstracts the methods of sql.Rows needed to scan
// a query result set, so tables can be built from real
// database queries as well as fakes in tests.
//
// Usage follows the sql.Rows pattern:
// iterate with Next, read with Scan, check Err after the loop,
// and Close when done.
type Rows interface {
	// Columns returns the names of the result set columns.
	Columns() ([]string, error)

	// Scan copies the column values of the current row
	// into the variables pointed to by dest.
	Scan(dest ...any) error

	// Close closes the Rows, preventing further enumeration.
	Close() error

	// Next prepares the next row for reading with Scan.
	// It returns false after the last row or on error.
	Next() bool

	// Err returns the error, if any,
	// that was encountered during iteration.
	Err() error
}

var _ sql.Scanner = valueScanner{}

// valueScanner captures a driver value as is.
type valueScanner struct {
	dest *any
}

func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy bytes because they won't be valid after this method call
		src = slices.Clone(b)
	}
	*s.dest = src
	return nil
}
