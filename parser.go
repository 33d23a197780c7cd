package tabular

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Parser is the interface for parsing strings into primitive Go values,
// the counterpart to formatting.
//
// A Parser centralizes locale and convention dependent decisions like
// the recognized boolean strings, time formats, and decimal separators.
type Parser interface {
	ParseInt(string) (int64, error)
	ParseUint(string) (uint64, error)
	ParseFloat(string) (float64, error)
	ParseBool(string) (bool, error)
	ParseTime(string) (time.Time, error)
	ParseDuration(string) (time.Duration, error)
}

// Ensure that StringParser implements Parser
var _ Parser = new(StringParser)

// StringParser is a configurable Parser implementation.
// Use NewStringParser to get a parser with default configuration,
// the fields can be modified before first use.
type StringParser struct {
	// TrueStrings lists the strings parsed as boolean true.
	TrueStrings []string `json:"trueStrings"`

	// FalseStrings lists the strings parsed as boolean false.
	FalseStrings []string `json:"falseStrings"`

	// NilStrings lists the strings representing a nil value,
	// reported by IsNilString.
	NilStrings []string `json:"nilStrings"`

	// TimeFormats lists the time layouts tried in order by ParseTime.
	TimeFormats []string `json:"timeFormats"`
}

// NewStringParser returns a StringParser with default configuration:
// "true"/"yes"/"1" style boolean strings, common nil strings,
// and the package's default time formats.
func NewStringParser() *StringParser {
	return &StringParser{
		TrueStrings:  []string{"true", "True", "TRUE", "yes", "Yes", "YES", "1"},
		FalseStrings: []string{"false", "False", "FALSE", "no", "No", "NO", "0"},
		NilStrings:   []string{"", "nil", "<nil>", "null", "NULL"},
		TimeFormats:  timeFormats,
	}
}

func (p *StringParser) ParseInt(str string) (int64, error) {
	return strconv.ParseInt(str, 10, 64)
}

func (p *StringParser) ParseUint(str string) (uint64, error) {
	return strconv.ParseUint(str, 10, 64)
}

// ParseFloat parses str as 64-bit floating point number,
// also accepting a single comma as decimal separator
// if str contains no period.
func (p *StringParser) ParseFloat(str string) (float64, error) {
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		numDot := strings.Count(str, ".")
		numComma := strings.Count(str, ",")
		if numComma == 1 && numDot == 0 {
			f, e := strconv.ParseFloat(strings.ReplaceAll(str, ",", "."), 64)
			if e != nil {
				return 0, err // return original error
			}
			return f, nil
		}
		// TODO support thousands separators like "1.234,56"
		return 0, err
	}
	return f, nil
}

// ParseBool parses str as bool if it matches one of the
// configured TrueStrings or FalseStrings.
func (p *StringParser) ParseBool(str string) (bool, error) {
	if slices.Contains(p.TrueStrings, str) {
		return true, nil
	}
	if slices.Contains(p.FalseStrings, str) {
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as bool", str)
}

// ParseTime parses str by trying the configured TimeFormats in order.
func (p *StringParser) ParseTime(str string) (time.Time, error) {
	for _, format := range p.TimeFormats {
		t, err := time.Parse(format, str)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", str)
}

func (p *StringParser) ParseDuration(str string) (time.Duration, error) {
	return time.ParseDuration(str)
}

// IsNilString reports if str matches one of the configured NilStrings.
func (p *StringParser) IsNilString(str string) bool {
	return slices.Contains(p.NilStrings, str)
}

// ParseTime parses str by trying the package's default time formats
// and also returns the format that parsed successfully.
func ParseTime(str string) (t time.Time, format string, err error) {
	for _, format := range timeFormats {
		t, err = time.Parse(format, str)
		if err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("cannot parse %q as time", str)
}

// timeFormats are the default time layouts tried in order when
// parsing times, ISO and RFC formats before common local formats.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	formatBrowserLocalTime,
	time.RFC1123Z,
	time.RFC850,
	time.RFC1123,
	time.RubyDate,
	time.UnixDate,
	time.ANSIC,
	time.RFC822Z,
	time.RFC822,
	time.StampNano,
	time.StampMicro,
	time.StampMilli,
	time.Stamp,
	formatTimeString,
	time.DateTime,
	formatDateTimeMinute,
	time.DateOnly,
	formatDateTimeGerman,
	formatDateGerman,
}

const (
	formatDateTimeMinute   = "2006-01-02 15:04"
	formatDateTimeGerman   = "02.01.2006 15:04:05"
	formatDateGerman       = "02.01.2006"
	formatTimeString       = "2006-01-02 15:04:05.999999999 -0700 MST"
	formatBrowserLocalTime = "2006-01-02T15:04"
)
