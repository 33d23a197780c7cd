package tabular

import (
	"fmt"
	"reflect"
	"strings"
)

// StructFieldNaming defines how struct fields are mapped
// to column titles as used by NewStructColumns.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column title.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column title.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore will exclude fields with that column title
	// from the derived columns.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a title in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column title for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored reports if a column title is configured to be ignored.
func (n *StructFieldNaming) IsIgnored(column string) bool {
	return n != nil && n.Ignore != "" && column == n.Ignore
}

// Columns returns the column titles derived from the exported,
// not ignored fields of a struct, including the inlined fields
// of any anonymously embedded structs.
// The passed strct can be a struct, a struct pointer,
// or a reflect.Type of one of those.
func (n *StructFieldNaming) Columns(strct any) []string {
	structType, ok := strct.(reflect.Type)
	if !ok {
		structType = reflect.TypeOf(strct)
	}
	fields := StructFieldTypes(structType)
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		column := n.StructFieldColumn(field)
		if n.IsIgnored(column) {
			continue
		}
		columns = append(columns, column)
	}
	return columns
}

// ColumnStructFieldValue returns the reflect.Value of the struct field
// that is mapped to the passed column title,
// or an invalid reflect.Value if no field maps to the title.
func (n *StructFieldNaming) ColumnStructFieldValue(strct reflect.Value, column string) reflect.Value {
	strctType := strct.Type()
	for i := 0; i < strctType.NumField(); i++ {
		field := strctType.Field(i)
		if field.Anonymous {
			if v := n.ColumnStructFieldValue(strct.Field(i), column); v.IsValid() {
				return v
			}
			continue
		}
		if n.StructFieldColumn(field) == column {
			return strct.Field(i)
		}
	}
	return reflect.Value{}
}
