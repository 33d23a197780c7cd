package tabular

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ValueFormatter formats exported cell values as strings
// for text based export formats.
type ValueFormatter interface {
	// FormatValue formats a cell value as string.
	// The raw result reports if str is already in the raw format
	// of the export target and must not be escaped.
	// Formatters return an error wrapping errors.ErrUnsupported
	// for values they don't support so that callers
	// can fall back to other formatters.
	FormatValue(ctx context.Context, value any) (str string, raw bool, err error)
}

// ValueFormatterFunc implements ValueFormatter for a function.
type ValueFormatterFunc func(ctx context.Context, value any) (str string, raw bool, err error)

func (f ValueFormatterFunc) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	return f(ctx, value)
}

// PrintfValueFormatter implements ValueFormatter by calling
// fmt.Sprintf with this type's string value as format.
type PrintfValueFormatter string

func (format PrintfValueFormatter) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), value), false, nil
}

// PrintfRawValueFormatter implements ValueFormatter by calling
// fmt.Sprintf with this type's string value as format.
// The result will be indicated to be a raw value.
type PrintfRawValueFormatter string

func (format PrintfRawValueFormatter) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), value), true, nil
}

// SprintValueFormatter implements ValueFormatter
// with fmt.Sprint for values of any type.
type SprintValueFormatter struct{}

func (SprintValueFormatter) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	return fmt.Sprint(value), false, nil
}

// LayoutValueFormatter formats time.Time values with
// this type's string value as time layout.
type LayoutValueFormatter string

func (layout LayoutValueFormatter) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	switch t := value.(type) {
	case time.Time:
		return t.Format(string(layout)), false, nil
	case *time.Time:
		if t != nil {
			return t.Format(string(layout)), false, nil
		}
	}
	return "", false, errors.ErrUnsupported
}

var (
	typeOfContext = reflect.TypeOf((*context.Context)(nil)).Elem()
	typeOfError   = reflect.TypeOf((*error)(nil)).Elem()
	typeOfString  = reflect.TypeOf("")
)

// ReflectValueFormatterFunc wraps a formatter function as ValueFormatter
// for the type of the function's value argument.
//
// The passed function must have one of the following signatures
// where V is the formatted value type, also returned as valueType:
//
//	func(V) string
//	func(V) (string, error)
//	func(context.Context, V) string
//	func(context.Context, V) (string, error)
//
// The returned formatter reports rawResult as raw result
// and errors.ErrUnsupported for values not assignable to V.
func ReflectValueFormatterFunc(function any, rawResult bool) (formatter ValueFormatter, valueType reflect.Type, err error) {
	fv := reflect.ValueOf(function)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("expected formatter function but got %T", function)
	}
	ft := fv.Type()
	withCtx := false
	switch {
	case ft.NumIn() == 1:
	case ft.NumIn() == 2 && ft.In(0) == typeOfContext:
		withCtx = true
	default:
		return nil, nil, fmt.Errorf("invalid formatter function arguments: %s", ft)
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0) == typeOfString:
	case ft.NumOut() == 2 && ft.Out(0) == typeOfString && ft.Out(1) == typeOfError:
	default:
		return nil, nil, fmt.Errorf("invalid formatter function results: %s", ft)
	}
	valueType = ft.In(ft.NumIn() - 1)
	formatter = ValueFormatterFunc(func(ctx context.Context, value any) (string, bool, error) {
		v := reflect.ValueOf(value)
		if !v.IsValid() || !v.Type().AssignableTo(valueType) {
			return "", false, fmt.Errorf("%w value type %T", errors.ErrUnsupported, value)
		}
		args := make([]reflect.Value, 0, 2)
		if withCtx {
			if ctx == nil {
				ctx = context.Background()
			}
			args = append(args, reflect.ValueOf(ctx))
		}
		args = append(args, v)
		results := fv.Call(args)
		if len(results) == 2 && !results[1].IsNil() {
			return "", false, results[1].Interface().(error)
		}
		return results[0].String(), rawResult, nil
	})
	return formatter, valueType, nil
}
