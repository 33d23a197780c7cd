package tabular

import (
	"fmt"
	"slices"
)

// SortDirection of a single sort key.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// String implements the fmt.Stringer interface for SortDirection.
func (d SortDirection) String() string {
	switch d {
	case Ascending:
		return "Ascending"
	case Descending:
		return "Descending"
	default:
		return fmt.Sprintf("SortDirection(%d)", int(d))
	}
}

// Reversed returns the opposite SortDirection.
func (d SortDirection) Reversed() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// SortRecord is one column's participation in the active multi-key sort.
// The position of a record within the sort record list is its priority,
// position 0 is the primary sort key.
type SortRecord struct {
	Column    int
	Direction SortDirection
}

// String implements the fmt.Stringer interface for SortRecord.
func (r SortRecord) String() string {
	return fmt.Sprintf("SortRecord{Column: %d, Direction: %s}", r.Column, r.Direction)
}

type gestureKind int

const (
	gestureCancel gestureKind = iota
	gestureAddFirst
	gestureAddLast
	gestureToggle
)

// SortGesture describes how a user interaction changes the
// sort record of one column. Use the constructor functions
// SortCancel, SortAddFirst, SortAddLast, and SortToggle.
type SortGesture struct {
	kind      gestureKind
	direction SortDirection
}

// SortCancel drops the column's sort record if there is one.
// The relative order of the remaining records is preserved.
func SortCancel() SortGesture {
	return SortGesture{kind: gestureCancel}
}

// SortAddFirst makes the column the primary sort key:
// an existing record for the column is dropped, then a record
// with the passed direction is inserted at priority 0,
// shifting all other records one priority lower.
func SortAddFirst(direction SortDirection) SortGesture {
	return SortGesture{kind: gestureAddFirst, direction: direction}
}

// SortAddLast makes the column the lowest priority sort key:
// an existing record for the column is dropped, then a record
// with the passed direction is appended at the end.
func SortAddLast(direction SortDirection) SortGesture {
	return SortGesture{kind: gestureAddLast, direction: direction}
}

// SortToggle flips the direction of the column's sort record in place,
// keeping its priority. If the column has no record, SortToggle
// is a no-op, it never creates a record.
func SortToggle() SortGesture {
	return SortGesture{kind: gestureToggle}
}

// String implements the fmt.Stringer interface for SortGesture.
func (g SortGesture) String() string {
	switch g.kind {
	case gestureCancel:
		return "Cancel"
	case gestureAddFirst:
		return fmt.Sprintf("AddFirst(%s)", g.direction)
	case gestureAddLast:
		return fmt.Sprintf("AddLast(%s)", g.direction)
	case gestureToggle:
		return "Toggle"
	default:
		return fmt.Sprintf("SortGesture(%d)", int(g.kind))
	}
}

// applySortGesture returns the sort record list resulting from
// applying a gesture for a column. The passed slice is modified in place
// and reported as changed when the gesture had an effect.
func applySortGesture(records []SortRecord, col int, gesture SortGesture) (result []SortRecord, changed bool) {
	existing := slices.IndexFunc(records, func(r SortRecord) bool {
		return r.Column == col
	})
	switch gesture.kind {
	case gestureCancel:
		if existing < 0 {
			return records, false
		}
		return slices.Delete(records, existing, existing+1), true

	case gestureAddFirst:
		if existing >= 0 {
			records = slices.Delete(records, existing, existing+1)
		}
		return slices.Insert(records, 0, SortRecord{Column: col, Direction: gesture.direction}), true

	case gestureAddLast:
		if existing >= 0 {
			records = slices.Delete(records, existing, existing+1)
		}
		return append(records, SortRecord{Column: col, Direction: gesture.direction}), true

	case gestureToggle:
		if existing < 0 {
			return records, false
		}
		records[existing].Direction = records[existing].Direction.Reversed()
		return records, true

	default:
		return records, false
	}
}
