package arrowtable

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ryo33/go-tabular"
)

var _ tabular.Exporter = &Exporter{}

// Exporter collects a table as rows of cell values
// and builds an Arrow record from them.
//
// The Arrow type of each column is inferred from its first
// non-nil value: integers map to int64, unsigned integers
// to uint64, floats to float64, time.Time to a microsecond
// UTC timestamp, []byte to binary, and everything else
// to string.
type Exporter struct {
	mem   memory.Allocator
	names []string
	rows  [][]any
}

// NewExporter returns an Exporter allocating with mem,
// or memory.DefaultAllocator if mem is nil.
func NewExporter(mem memory.Allocator) *Exporter {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &Exporter{mem: mem}
}

// SerializeHeader implements the tabular.Exporter interface.
func (e *Exporter) SerializeHeader(ctx context.Context, col int, title string) error {
	e.names = append(e.names, title)
	return nil
}

// SerializeCell implements the tabular.Exporter interface.
func (e *Exporter) SerializeCell(ctx context.Context, row, col int, value any) error {
	if row == len(e.rows) {
		e.rows = append(e.rows, make([]any, 0, len(e.names)))
	}
	e.rows[row] = append(e.rows[row], value)
	return nil
}

// NewRecord builds an Arrow record from the collected rows.
// The returned record has to be released by the caller.
func (e *Exporter) NewRecord() (arrow.Record, error) {
	fields := make([]arrow.Field, len(e.names))
	for col, name := range e.names {
		fields[col] = arrow.Field{Name: name, Type: e.columnType(col), Nullable: true}
	}
	b := array.NewRecordBuilder(e.mem, arrow.NewSchema(fields, nil))
	defer b.Release()
	for _, row := range e.rows {
		for col, fb := range b.Fields() {
			var value any
			if col < len(row) {
				value = row[col]
			}
			if err := appendValue(fb, e.names[col], value); err != nil {
				return nil, err
			}
		}
	}
	return b.NewRecord(), nil
}

func (e *Exporter) columnType(col int) arrow.DataType {
	for _, row := range e.rows {
		if col >= len(row) {
			continue
		}
		v := reflect.ValueOf(row[col])
		if tabular.ValueIsNil(v) {
			continue
		}
		for v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if _, ok := v.Interface().(time.Time); ok {
			return arrow.FixedWidthTypes.Timestamp_us
		}
		switch v.Kind() {
		case reflect.Bool:
			return arrow.FixedWidthTypes.Boolean
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return arrow.PrimitiveTypes.Int64
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return arrow.PrimitiveTypes.Uint64
		case reflect.Float32, reflect.Float64:
			return arrow.PrimitiveTypes.Float64
		case reflect.Slice:
			if v.Type().Elem().Kind() == reflect.Uint8 {
				return arrow.BinaryTypes.Binary
			}
		}
		return arrow.BinaryTypes.String
	}
	return arrow.BinaryTypes.String
}

func appendValue(builder array.Builder, columnName string, value any) error {
	v := reflect.ValueOf(value)
	if tabular.ValueIsNil(v) {
		builder.AppendNull()
		return nil
	}
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	switch b := builder.(type) {
	case *array.StringBuilder:
		if v.Kind() == reflect.String {
			b.Append(v.String())
		} else {
			b.Append(fmt.Sprint(v.Interface()))
		}
		return nil

	case *array.BooleanBuilder:
		if v.Kind() == reflect.Bool {
			b.Append(v.Bool())
			return nil
		}

	case *array.Int64Builder:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			b.Append(v.Int())
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			b.Append(int64(v.Uint()))
			return nil
		}

	case *array.Uint64Builder:
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			b.Append(v.Uint())
			return nil
		}

	case *array.Float64Builder:
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			b.Append(v.Float())
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			b.Append(float64(v.Int()))
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			b.Append(float64(v.Uint()))
			return nil
		}

	case *array.TimestampBuilder:
		if t, ok := v.Interface().(time.Time); ok {
			b.AppendTime(t)
			return nil
		}

	case *array.BinaryBuilder:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			b.Append(v.Bytes())
			return nil
		}
	}
	return fmt.Errorf("cannot append %#v to %s column %q", value, builder.Type(), columnName)
}

// ExportRecord exports the projected table as an Arrow record,
// allocating with mem or memory.DefaultAllocator if mem is nil.
// The returned record has to be released by the caller.
func ExportRecord[R tabular.Row](ctx context.Context, table *tabular.TableContext[R], rows []R, mem memory.Allocator) (arrow.Record, error) {
	exporter := NewExporter(mem)
	err := tabular.Export(ctx, exporter, table, rows)
	if err != nil {
		return nil, err
	}
	return exporter.NewRecord()
}
