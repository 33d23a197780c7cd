package tabular

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// SmartAssign assigns src to dst converting types as needed.
//
// The conversion strategies are tried in order:
//
//  1. If src has an IsNull() bool method reporting true,
//     dst is set to its zero value.
//  2. Direct conversion if the src type is convertible to the dst
//     type, excluding integer to string conversions which would
//     produce the string of the code point instead of the number.
//  3. A nil src pointer sets dst to its zero value.
//  4. A non-nil scanner converts src strings to the dst type.
//  5. A non-nil formatter converts src values to a string dst.
//  6. The text of an encoding.TextMarshaler src is assigned recursively.
//  7. The string of a fmt.Stringer src is assigned recursively.
//  8. Src strings are parsed with ParseTime for a time.Time
//     or *time.Time dst.
//  9. Non-nil src pointers are dereferenced and assigned recursively.
//  10. A struct{} src sets dst to its zero value.
//  11. Src bools convert to 0 / 1 numbers or "true" / "false" strings,
//     and numbers and strings convert to a bool dst.
//  12. Src strings are parsed for integer and float dst types.
//  13. Any src value converts to a string dst with fmt.Sprint.
//  14. For a pointer dst a new instance is allocated and
//     assigned recursively.
//
// dst must be settable. scanner and formatter can be nil.
// An error wrapping errors.ErrUnsupported is returned if no
// strategy could convert src to dst.
func SmartAssign(ctx context.Context, dst, src reflect.Value, scanner Scanner, formatter ValueFormatter) (err error) {
	if !dst.IsValid() {
		return errors.New("dst value is invalid")
	}
	if !dst.CanSet() {
		return errors.New("cannot set dst value")
	}
	if !src.IsValid() {
		return errors.New("src value is invalid")
	}
	var (
		srcType = src.Type()
		srcKind = srcType.Kind()
		dstType = dst.Type()
		dstKind = dstType.Kind()
	)

	// Assign zero value in case of IsNull.
	// Conversions further down might assign something
	// different than the zero value dependent on the
	// underlying type.
	if nullable, ok := src.Interface().(interface{ IsNull() bool }); ok && nullable.IsNull() {
		dst.Set(reflect.Zero(dstType))
		return nil
	}

	// Convert assigns directly if possible.
	// Integer to string is excluded because the conversion
	// produces the string of the code point, not the number.
	if srcType.ConvertibleTo(dstType) && !(dstKind == reflect.String && isIntegerKind(srcKind)) {
		// Check because conversion can panic
		if srcKind == reflect.Slice && dstKind == reflect.Pointer && dstType.Elem().Kind() == reflect.Array && dstType.Elem().Len() > src.Len() {
			return fmt.Errorf("cannot convert slice of length %d to array pointer with length %d", src.Len(), dstType.Elem().Len())
		}
		dst.Set(src.Convert(dstType))
		return nil
	}

	// Assign zero value in case of a nil pointer
	if srcKind == reflect.Pointer && src.IsNil() {
		dst.Set(reflect.Zero(dstType))
		return nil
	}

	// Try the scanner for string source values
	if srcKind == reflect.String && scanner != nil {
		err = scanner.ScanString(dst, src.String())
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// Try the formatter for a string destination
	if dstKind == reflect.String && formatter != nil {
		str, _, err := formatter.FormatValue(ctx, src.Interface())
		if err == nil {
			dst.SetString(str)
			return nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return err
		}
		// Continue after errors.ErrUnsupported
	}

	// Try assigning string from MarshalText method
	if m, ok := src.Interface().(encoding.TextMarshaler); ok {
		txt, err := m.MarshalText()
		if err != nil {
			return err
		}
		err = SmartAssign(ctx, dst, reflect.ValueOf(string(txt)), scanner, formatter)
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// Try assigning string from String method
	if m, ok := src.Interface().(fmt.Stringer); ok {
		err = SmartAssign(ctx, dst, reflect.ValueOf(m.String()), scanner, formatter)
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// Try converting string to time.Time
	if srcKind == reflect.String && (dstType == typeOfTime || dstKind == reflect.Pointer && dstType.Elem() == typeOfTime) {
		if t, _, err := ParseTime(src.String()); err == nil {
			if dstType == typeOfTime {
				dst.Set(reflect.ValueOf(t))
			} else {
				dst.Set(reflect.ValueOf(&t))
			}
			return nil
		}
	}

	// Try assigning the dereferenced value
	if srcKind == reflect.Pointer && !src.IsNil() {
		err = SmartAssign(ctx, dst, src.Elem(), scanner, formatter)
		if !errors.Is(err, errors.ErrUnsupported) {
			return err // nil or other than errors.ErrUnsupported
		}
		// Continue after errors.ErrUnsupported
	}

	// A pure empty struct represents the zero value
	if srcType == typeOfEmptyStruct {
		dst.Set(reflect.Zero(dstType))
		return nil
	}

	// Convert bool to 0 / 1 numbers, or "true" / "false" strings
	if srcKind == reflect.Bool {
		switch dstKind {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if src.Bool() {
				dst.SetInt(1)
			} else {
				dst.SetInt(0)
			}
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if src.Bool() {
				dst.SetUint(1)
			} else {
				dst.SetUint(0)
			}
			return nil
		case reflect.Float32, reflect.Float64:
			if src.Bool() {
				dst.SetFloat(1)
			} else {
				dst.SetFloat(0)
			}
			return nil
		case reflect.String:
			dst.SetString(strconv.FormatBool(src.Bool()))
			return nil
		}
	}

	switch dstKind {

	// Convert 0 / 1 numbers, or "true" / "false" strings to bool
	case reflect.Bool:
		switch srcKind {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			dst.SetBool(src.Int() != 0)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			dst.SetBool(src.Uint() != 0)
			return nil
		case reflect.Float32, reflect.Float64:
			dst.SetBool(src.Float() != 0)
			return nil
		case reflect.String:
			b, err := strconv.ParseBool(src.String())
			if err == nil {
				dst.SetBool(b)
				return nil
			}
		}

	// Convert string to integers
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if srcKind == reflect.String {
			if i, e := strconv.ParseInt(src.String(), 10, 64); e == nil {
				dst.SetInt(i)
				return nil
			}
		}

	// Convert string to unsigned integers
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if srcKind == reflect.String {
			if u, e := strconv.ParseUint(src.String(), 10, 64); e == nil {
				dst.SetUint(u)
				return nil
			}
		}

	case reflect.Float32, reflect.Float64:
		if srcKind == reflect.String {
			if f, e := strconv.ParseFloat(src.String(), 64); e == nil {
				dst.SetFloat(f)
				return nil
			}
		}

	// Convert any type to string with fmt.Sprint
	case reflect.String:
		dst.SetString(fmt.Sprint(src.Interface()))
		return nil

	// If all other failed and dst is a pointer,
	// try to create a new instance and assign to that,
	// then assign the pointer to the new instance.
	case reflect.Pointer:
		newDst := reflect.New(dstType.Elem())
		err = SmartAssign(ctx, newDst.Elem(), src, scanner, formatter)
		if err != nil && !errors.Is(err, errors.ErrUnsupported) {
			return err
		}
		if err == nil {
			dst.Set(newDst)
			return nil
		}
		// Continue after errors.ErrUnsupported
	}

	return fmt.Errorf("%w: assigning %s %#v to %s", errors.ErrUnsupported, srcType, src, dstType)
}

func isIntegerKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
