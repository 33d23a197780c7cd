package tabular

import (
	"errors"
	"fmt"
	"reflect"
)

// Scanner is the interface for assigning the parsed value
// of a source string to a destination value.
//
// Scanners return an error wrapping errors.ErrUnsupported
// for destination types they don't support so that callers
// can fall back to other conversions.
type Scanner interface {
	// ScanString assigns the parsed value of str to dest.
	ScanString(dest reflect.Value, str string) error
}

// ScannerFunc implements the Scanner interface for a function.
type ScannerFunc func(dest reflect.Value, str string) error

func (f ScannerFunc) ScanString(dest reflect.Value, str string) error {
	return f(dest, str)
}

// NewParsingScanner returns a Scanner that converts strings
// with the passed parser.
//
// Supported destination types are string, bool, the integer,
// unsigned integer, and float types, time.Time, and time.Duration.
// Pointer destinations are allocated as needed.
// Other destination types are reported with an error
// wrapping errors.ErrUnsupported.
//
// If the parser has an IsNilString(string) bool method reporting
// true for str, then dest is set to its zero value.
func NewParsingScanner(parser Parser) Scanner {
	return ScannerFunc(func(dest reflect.Value, str string) error {
		return scanString(dest, str, parser)
	})
}

func scanString(dest reflect.Value, str string, parser Parser) error {
	if !dest.IsValid() {
		return errors.New("scan destination is invalid")
	}
	if !dest.CanSet() {
		return errors.New("cannot set scan destination")
	}
	if nilStrings, ok := parser.(interface{ IsNilString(string) bool }); ok && nilStrings.IsNilString(str) {
		dest.Set(reflect.Zero(dest.Type()))
		return nil
	}
	if dest.Kind() == reflect.Pointer {
		ptr := reflect.New(dest.Type().Elem())
		err := scanString(ptr.Elem(), str, parser)
		if err != nil {
			return err
		}
		dest.Set(ptr)
		return nil
	}

	switch dest.Type() {
	case typeOfTime:
		t, err := parser.ParseTime(str)
		if err != nil {
			return err
		}
		dest.Set(reflect.ValueOf(t))
		return nil

	case typeOfDuration:
		d, err := parser.ParseDuration(str)
		if err != nil {
			return err
		}
		dest.Set(reflect.ValueOf(d))
		return nil
	}

	switch dest.Kind() {
	case reflect.String:
		dest.SetString(str)
		return nil

	case reflect.Bool:
		b, err := parser.ParseBool(str)
		if err != nil {
			return err
		}
		dest.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := parser.ParseInt(str)
		if err != nil {
			return err
		}
		if dest.OverflowInt(i) {
			return fmt.Errorf("value %d overflows %s", i, dest.Type())
		}
		dest.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := parser.ParseUint(str)
		if err != nil {
			return err
		}
		if dest.OverflowUint(u) {
			return fmt.Errorf("value %d overflows %s", u, dest.Type())
		}
		dest.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := parser.ParseFloat(str)
		if err != nil {
			return err
		}
		dest.SetFloat(f)
		return nil
	}

	return fmt.Errorf("%w: scanning string into %s", errors.ErrUnsupported, dest.Type())
}
