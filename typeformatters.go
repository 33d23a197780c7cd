package tabular

import (
	"context"
	"errors"
	"reflect"
)

// Ensure that TypeFormatters implements ValueFormatter
var _ ValueFormatter = new(TypeFormatters)

// TypeFormatters implements ValueFormatter by routing to other
// formatters based on the exact type, an implemented interface,
// or the reflect.Kind of the formatted value.
//
// A pointer value without a matching formatter is dereferenced
// and matched again. Other is the fallback for values without
// any match, without it errors.ErrUnsupported is returned.
// A nil *TypeFormatters is valid and doesn't support any value.
type TypeFormatters struct {
	Types          map[reflect.Type]ValueFormatter
	InterfaceTypes map[reflect.Type]ValueFormatter
	Kinds          map[reflect.Kind]ValueFormatter
	Other          ValueFormatter
}

func (f *TypeFormatters) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	if f == nil || value == nil {
		return "", false, errors.ErrUnsupported
	}
	str, raw, err = f.formatTyped(ctx, value)
	if !errors.Is(err, errors.ErrUnsupported) {
		return str, raw, err
	}
	// If a pointer type had no formatter
	// try again with the dereferenced value
	if val := reflect.ValueOf(value); val.Kind() == reflect.Pointer && !val.IsNil() {
		str, raw, err = f.formatTyped(ctx, val.Elem().Interface())
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	if f.Other != nil {
		return f.Other.FormatValue(ctx, value)
	}
	return "", false, errors.ErrUnsupported
}

func (f *TypeFormatters) formatTyped(ctx context.Context, value any) (str string, raw bool, err error) {
	typ := reflect.TypeOf(value)
	if tf, ok := f.Types[typ]; ok {
		str, raw, err := tf.FormatValue(ctx, value)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
		// Continue after errors.ErrUnsupported
	}
	for interfaceType, interfaceFmt := range f.InterfaceTypes {
		if typ.Implements(interfaceType) {
			str, raw, err := interfaceFmt.FormatValue(ctx, value)
			if !errors.Is(err, errors.ErrUnsupported) {
				return str, raw, err
			}
			// Continue after errors.ErrUnsupported
		}
	}
	if kf, ok := f.Kinds[typ.Kind()]; ok {
		str, raw, err := kf.FormatValue(ctx, value)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
		// Continue after errors.ErrUnsupported
	}
	return "", false, errors.ErrUnsupported
}

func (f *TypeFormatters) cloneOrNew() *TypeFormatters {
	if f == nil {
		return new(TypeFormatters)
	}
	c := &TypeFormatters{Other: f.Other}
	if len(f.Types) > 0 {
		c.Types = make(map[reflect.Type]ValueFormatter, len(f.Types))
		for key, val := range f.Types {
			c.Types[key] = val
		}
	}
	if len(f.InterfaceTypes) > 0 {
		c.InterfaceTypes = make(map[reflect.Type]ValueFormatter, len(f.InterfaceTypes))
		for key, val := range f.InterfaceTypes {
			c.InterfaceTypes[key] = val
		}
	}
	if len(f.Kinds) > 0 {
		c.Kinds = make(map[reflect.Kind]ValueFormatter, len(f.Kinds))
		for key, val := range f.Kinds {
			c.Kinds[key] = val
		}
	}
	return c
}

func (f *TypeFormatters) SetTypeFormatter(typ reflect.Type, fmt ValueFormatter) {
	if f.Types == nil {
		f.Types = make(map[reflect.Type]ValueFormatter)
	}
	f.Types[typ] = fmt
}

func (f *TypeFormatters) WithTypeFormatter(typ reflect.Type, fmt ValueFormatter) *TypeFormatters {
	mod := f.cloneOrNew()
	mod.SetTypeFormatter(typ, fmt)
	return mod
}

// WithTypeFormatterReflectFunc adds a formatter function for the type
// of the function's value argument using ReflectValueFormatterFunc
// and panics in case of an invalid function signature.
func (f *TypeFormatters) WithTypeFormatterReflectFunc(function any) *TypeFormatters {
	fmt, typ, err := ReflectValueFormatterFunc(function, false)
	if err != nil {
		panic(err)
	}
	return f.WithTypeFormatter(typ, fmt)
}

// WithTypeFormatterReflectRawFunc adds a raw result formatter function
// for the type of the function's value argument using ReflectValueFormatterFunc
// and panics in case of an invalid function signature.
func (f *TypeFormatters) WithTypeFormatterReflectRawFunc(function any) *TypeFormatters {
	fmt, typ, err := ReflectValueFormatterFunc(function, true)
	if err != nil {
		panic(err)
	}
	return f.WithTypeFormatter(typ, fmt)
}

func (f *TypeFormatters) SetInterfaceTypeFormatter(typ reflect.Type, fmt ValueFormatter) {
	if f.InterfaceTypes == nil {
		f.InterfaceTypes = make(map[reflect.Type]ValueFormatter)
	}
	f.InterfaceTypes[typ] = fmt
}

func (f *TypeFormatters) WithInterfaceTypeFormatter(typ reflect.Type, fmt ValueFormatter) *TypeFormatters {
	mod := f.cloneOrNew()
	mod.SetInterfaceTypeFormatter(typ, fmt)
	return mod
}

func (f *TypeFormatters) SetKindFormatter(kind reflect.Kind, fmt ValueFormatter) {
	if f.Kinds == nil {
		f.Kinds = make(map[reflect.Kind]ValueFormatter)
	}
	f.Kinds[kind] = fmt
}

func (f *TypeFormatters) WithKindFormatter(kind reflect.Kind, fmt ValueFormatter) *TypeFormatters {
	mod := f.cloneOrNew()
	mod.SetKindFormatter(kind, fmt)
	return mod
}

func (f *TypeFormatters) SetOtherFormatter(fmt ValueFormatter) {
	f.Other = fmt
}

func (f *TypeFormatters) WithOtherFormatter(fmt ValueFormatter) *TypeFormatters {
	mod := f.cloneOrNew()
	mod.SetOtherFormatter(fmt)
	return mod
}
