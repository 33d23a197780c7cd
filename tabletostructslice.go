package tabular

import (
	"context"
	"fmt"
	"reflect"
	"slices"
)

// TableToStructSlice converts table rows to a slice of structs of
// type T, mapping the table's columns to struct fields with the
// passed naming. T can be a struct or a pointer to struct type.
//
// Cell values are taken from every column implementing
// CellSerializer in declaration order, display order and
// visibility don't matter for the conversion.
// Columns without a matching struct field and struct fields without
// a matching column are ignored, except for requiredCols which must
// be present as column and as struct field, else an error is returned.
//
// SmartAssign converts the serialized cell values to the struct
// field types using the passed scanner and formatter.
//
// After a successful assignment a non-nil validate function is
// called with the struct field value. The first validation error
// aborts the conversion. CallValidateMethod can be passed as
// validate function to call Validate() methods of the field values.
//
// The arguments naming, scanner, formatter, and validate can be nil.
func TableToStructSlice[T any, R Row](ctx context.Context, table *TableContext[R], rows []R, naming *StructFieldNaming, requiredCols []string, scanner Scanner, formatter ValueFormatter, validate func(reflect.Value) error) ([]T, error) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct && (structType.Kind() != reflect.Pointer || structType.Elem().Kind() != reflect.Struct) {
		return nil, fmt.Errorf("slice element type %s is not a struct or pointer to struct", structType)
	}

	columnNames := table.ColumnNames()

	if len(requiredCols) > 0 {
		var v reflect.Value
		if structType.Kind() == reflect.Pointer {
			v = reflect.New(structType.Elem()).Elem()
		} else {
			v = reflect.New(structType).Elem()
		}
		for _, requiredCol := range requiredCols {
			if !slices.Contains(columnNames, requiredCol) {
				return nil, fmt.Errorf("required column %q not found in table columns", requiredCol)
			}
			if !naming.ColumnStructFieldValue(v, requiredCol).IsValid() {
				return nil, fmt.Errorf("required column %q not found as struct field", requiredCol)
			}
		}
	}

	columns := table.Columns()
	structs := make([]T, len(rows))
	for rowIndex, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowStruct := reflect.ValueOf(&structs[rowIndex]).Elem()
		if structType.Kind() == reflect.Pointer {
			rowStruct.Set(reflect.New(structType.Elem())) // Set allocated struct pointer for row
			rowStruct = rowStruct.Elem()                  // Continue with struct value instead of pointer
		}
		for colIndex, column := range columns {
			serializer, ok := column.(CellSerializer[R])
			if !ok {
				continue
			}
			dst := naming.ColumnStructFieldValue(rowStruct, columnNames[colIndex])
			if !dst.IsValid() {
				continue
			}
			src := reflect.ValueOf(serializer.SerializeCell(row))
			if !src.IsValid() {
				continue
			}
			err := SmartAssign(ctx, dst, src, scanner, formatter)
			if err == nil && validate != nil {
				err = validate(dst)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return structs, nil
}

// CallValidateMethod calls the `Validate() error` or `Valid() bool`
// method on v.Interface() if available and v is not nil.
func CallValidateMethod(v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	switch x := v.Interface().(type) {
	case interface{ Validate() error }:
		return x.Validate()
	case interface{ Valid() bool }:
		if !x.Valid() {
			return fmt.Errorf("value %[1]#v of type %[1]T is not valid", v.Interface())
		}
	}
	return nil
}
