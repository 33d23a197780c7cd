// Package csvtable exports projected tables as CSV
// and parses CSV data into tables.
//
// Parsing handles the common real world deviations from RFC 4180:
// different charset encodings, separators, and line endings,
// quoted fields with embedded newlines, separators, and quotes,
// "sep=X" header lines, and automatic format detection.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format describes the encoding and structural format of CSV data.
type Format struct {
	// Encoding is the charset encoding name, like "UTF-8" or "Windows 1252".
	Encoding string `json:"encoding"`

	// Separator is the field separator and must be a single character.
	Separator string `json:"separator"`

	// Newline must be one of "\n", "\r\n", or "\n\r".
	Newline string `json:"newline"`
}

// NewFormat returns a Format with the passed separator,
// UTF-8 encoding, and "\r\n" line endings.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error in case of an invalid
// or nil Format receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures the charset detection
// of ParseDetectFormat.
type FormatDetectionConfig struct {
	// Encodings are the charset encoding names to test, in priority order.
	Encodings []string `json:"encodings"`

	// EncodingTests are strings with characters that encode differently
	// across the tested encodings, used to pick the right one.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for western European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä",
			"Ä",
			"ö",
			"Ö",
			"ü",
			"Ü",
			"ß",
			"§",
			"€",
			"д",
			"Д",
			"ъ",
			"Ъ",
			"б",
			"Б",
			"л",
			"Л",
			"и",
			"И",
			"ж",
		},
	}
}

// EscapeQuotes escapes double quotes by doubling them
// according to RFC 4180.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
