package tabular

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructFieldNaming_Columns(t *testing.T) {
	type StructWithFloat struct {
		Float float64 `col:"float"`
	}
	tests := []struct {
		name   string
		naming *StructFieldNaming
		strct  any
		want   []string
	}{
		{
			name:   "empty struct, nil naming",
			naming: nil,
			strct:  struct{}{},
			want:   []string{},
		},
		{
			name:   "exported names, nil naming",
			naming: nil,
			strct: struct {
				Int  int
				Bool bool
			}{},
			want: []string{"Int", "Bool"},
		},
		{
			name:   "exported and private names, nil naming",
			naming: nil,
			strct: struct {
				Int    int
				Bool   bool
				hidden string
			}{},
			want: []string{"Int", "Bool"},
		},
		{
			name:   "mixed, nil naming",
			naming: nil,
			strct: struct {
				Int int
				StructWithFloat
				Struct struct {
					Sub bool
				}
				hidden string
			}{},
			want: []string{"Int", "Float", "Struct"},
		},

		{
			name:   "empty struct, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct:  struct{}{},
			want:   []string{},
		},
		{
			name:   "exported names, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				Int  int
				Bool bool `col:"boolean"`
			}{},
			want: []string{"Int", "boolean"},
		},
		{
			name:   "exported and private names, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				Int        int  `col:"Integer"`
				Bool       bool `col:"-"`
				hidden     string
				HelloWorld string
			}{},
			want: []string{"Integer", "Hello World"},
		},
		{
			name:   "mixed, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				hidden string `col:"-"`
				Int    int
				StructWithFloat
				Struct struct {
					Sub bool
				}
			}{},
			want: []string{"Int", "float", "Struct"},
		},
		{
			name:   "struct pointer",
			naming: &DefaultStructFieldNaming,
			strct:  &StructWithFloat{},
			want:   []string{"float"},
		},
		{
			name:   "reflect.Type",
			naming: &DefaultStructFieldNaming,
			strct:  reflect.TypeOf(StructWithFloat{}),
			want:   []string{"float"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.naming.Columns(tt.strct)
			require.Equal(t, tt.want, got, "StructFieldNaming.Columns()")
		})
	}
}

func TestStructFieldNaming_StructFieldColumn(t *testing.T) {
	fields := StructFieldTypes(reflect.TypeOf(struct {
		Plain      string
		Tagged     string `col:"tagged"`
		WithOption string `col:"with option,omitempty"`
		EmptyTag   string `col:",omitempty"`
	}{}))
	require.Len(t, fields, 4)

	naming := &StructFieldNaming{Tag: "col"}
	require.Equal(t, "Plain", naming.StructFieldColumn(fields[0]))
	require.Equal(t, "tagged", naming.StructFieldColumn(fields[1]))
	require.Equal(t, "with option", naming.StructFieldColumn(fields[2]))
	// an empty tag name falls back to the field name
	require.Equal(t, "EmptyTag", naming.StructFieldColumn(fields[3]))

	var nilNaming *StructFieldNaming
	require.Equal(t, "Tagged", nilNaming.StructFieldColumn(fields[1]))
}

func TestStructFieldNaming_ColumnStructFieldValue(t *testing.T) {
	type Embedded struct {
		Inner string `col:"inner"`
	}
	strct := struct {
		Embedded
		Outer int `col:"outer"`
	}{
		Embedded: Embedded{Inner: "nested"},
		Outer:    1,
	}
	naming := &StructFieldNaming{Tag: "col"}

	v := naming.ColumnStructFieldValue(reflect.ValueOf(strct), "outer")
	require.True(t, v.IsValid())
	require.Equal(t, 1, v.Interface())

	// embedded struct fields are found by recursion
	v = naming.ColumnStructFieldValue(reflect.ValueOf(strct), "inner")
	require.True(t, v.IsValid())
	require.Equal(t, "nested", v.Interface())

	v = naming.ColumnStructFieldValue(reflect.ValueOf(strct), "missing")
	require.False(t, v.IsValid())
}

func TestStructFieldNaming_IsIgnored(t *testing.T) {
	require.True(t, DefaultStructFieldNaming.IsIgnored("-"))
	require.False(t, DefaultStructFieldNaming.IsIgnored("Int"))

	var nilNaming *StructFieldNaming
	require.False(t, nilNaming.IsIgnored("-"))
}
