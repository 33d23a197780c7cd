package tabular

import (
	"fmt"
	"reflect"
)

// StructFieldColumn is a Column over struct rows addressing one
// exported struct field by its flat field index, counting the
// inlined fields of anonymously embedded structs.
// It compares rows with CompareValues of the field values
// and serializes the raw field value.
type StructFieldColumn[R Row] struct {
	FieldIndex  int
	ColumnTitle string
}

func (c StructFieldColumn[R]) Title() string { return c.ColumnTitle }

func (c StructFieldColumn[R]) CompareRows(a, b R) int {
	return CompareValues(c.fieldValue(a), c.fieldValue(b))
}

func (c StructFieldColumn[R]) SerializeCell(row R) any {
	return c.fieldValue(row)
}

func (c StructFieldColumn[R]) fieldValue(row R) any {
	rowValue := reflect.ValueOf(row)
	if rowValue.Kind() == reflect.Ptr {
		if rowValue.IsNil() {
			return nil
		}
		rowValue = rowValue.Elem()
	}
	values := StructFieldValues(rowValue)
	if c.FieldIndex < 0 || c.FieldIndex >= len(values) {
		return nil
	}
	value := values[c.FieldIndex]
	if ValueIsNil(value) {
		return nil
	}
	return value.Interface()
}

// NewStructColumns derives a column per exported, not ignored field
// of the struct row type R, in field declaration order, including the
// inlined fields of anonymously embedded structs.
//
// Column titles come from the passed naming,
// nil uses the plain field names.
// The derived columns compare rows with CompareValues of the
// field values and serialize the raw field value, so a slice of R
// is sortable and exportable without writing any column by hand.
func NewStructColumns[R Row](naming *StructFieldNaming) (Columns[R], error) {
	structType := reflect.TypeOf((*R)(nil)).Elem()
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct row type, got %s", structType)
	}
	fields := StructFieldTypes(structType)
	columns := make(Columns[R], 0, len(fields))
	for i, field := range fields {
		column := naming.StructFieldColumn(field)
		if naming.IsIgnored(column) {
			continue
		}
		columns = append(columns, StructFieldColumn[R]{FieldIndex: i, ColumnTitle: column})
	}
	if err := columns.Validate(); err != nil {
		return nil, fmt.Errorf("can't derive columns from %s: %w", structType, err)
	}
	return columns, nil
}

// MustStructColumns derives a column per exported, not ignored field
// of the struct row type R. It panics on errors. See NewStructColumns.
func MustStructColumns[R Row](naming *StructFieldNaming) Columns[R] {
	columns, err := NewStructColumns[R](naming)
	if err != nil {
		panic(err)
	}
	return columns
}
