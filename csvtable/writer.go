package csvtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	fs "github.com/ungerik/go-fs"

	"github.com/ryo33/go-tabular"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// PassthroughEncoder returns an Encoder that returns the passed data unchanged.
func PassthroughEncoder() Encoder {
	return EncoderFunc(func(data []byte) ([]byte, error) {
		return data, nil
	})
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer holds the configuration for writing
// projected tables as CSV.
//
// Writers are immutable, the With methods
// return modified clones so a configured
// Writer can be shared and reused.
type Writer[R tabular.Row] struct {
	columnFormatters map[int]tabular.ValueFormatter
	formatters       *tabular.TypeFormatters
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

func NewWriter[R tabular.Row]() *Writer[R] {
	return &Writer[R]{
		columnFormatters: make(map[int]tabular.ValueFormatter),
		formatters:       nil, // OK to use nil *tabular.TypeFormatters
		padding:          NoPadding,
		headerRow:        false,
		quoteAllFields:   false,
		quoteEmptyFields: false,
		escapeQuotes:     `""`,
		nilValue:         "",
		delimiter:        ';',
		newLine:          "\r\n",
		encoder:          nil,
	}
}

func (w *Writer[R]) clone() *Writer[R] {
	c := new(Writer[R])
	*c = *w
	return c
}

// Write exports the projected table to dest as CSV.
func (w *Writer[R]) Write(ctx context.Context, dest io.Writer, table *tabular.TableContext[R], rows []R) error {
	e := w.NewExporter(dest)
	err := tabular.Export(ctx, e, table, rows)
	if err != nil {
		return err
	}
	return e.Finish()
}

// WriteFile exports the projected table to file as CSV.
func (w *Writer[R]) WriteFile(ctx context.Context, file fs.File, table *tabular.TableContext[R], rows []R) error {
	var buf bytes.Buffer
	err := w.Write(ctx, &buf, table, rows)
	if err != nil {
		return err
	}
	return file.WriteAllContext(ctx, buf.Bytes())
}

// NewExporter returns a tabular.Exporter writing
// CSV to dest with the writer's configuration.
//
// Without padding every completed row is written
// to dest as soon as the next row begins, else
// all rows are collected and written by Finish
// padded to the width of the widest column cell.
// Finish must be called after the last cell
// to complete the output.
func (w *Writer[R]) NewExporter(dest io.Writer) *Exporter[R] {
	return &Exporter[R]{
		w:      w,
		dest:   dest,
		rowBuf: bytes.NewBuffer(make([]byte, 0, 1024)),
		curRow: -1,
	}
}

func (w *Writer[R]) cellString(ctx context.Context, col int, value any) (string, error) {
	if colFormatter, ok := w.columnFormatters[col]; ok {
		str, raw, err := colFormatter.FormatValue(ctx, value)
		if err == nil {
			return w.escapeString(str, raw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// Continue after errors.ErrUnsupported
	}

	str, raw, err := w.formatters.FormatValue(ctx, value)
	if err == nil {
		return w.escapeString(str, raw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}
	// Continue after errors.ErrUnsupported

	// Use fallback methods for formatting
	v := reflect.ValueOf(value)
	if tabular.ValueIsNil(v) {
		return w.escapeString(w.nilValue, false), nil
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return w.escapeString(fmt.Sprint(v.Interface()), false), nil
}

func (w *Writer[R]) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// Just in case remove all \r,
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return strings.ReplaceAll(str, `"`, w.escapeQuotes)
}

func (w *Writer[R]) WithHeaderRow(headerRow bool) *Writer[R] {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// If nil is passed as formatter, then a previous registered column formatter is removed.
// The columnIndex addresses the renumbered display position of an exported column.
func (w *Writer[R]) WithColumnFormatter(columnIndex int, formatter tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.columnFormatters = make(map[int]tabular.ValueFormatter)
	for key, val := range w.columnFormatters {
		mod.columnFormatters[key] = val
	}
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

// WithColumnFormatterFunc returns a new writer with the passed formatterFunc registered for columnIndex.
// If nil is passed as formatterFunc, then a previous registered column formatter is removed.
func (w *Writer[R]) WithColumnFormatterFunc(columnIndex int, formatterFunc tabular.ValueFormatterFunc) *Writer[R] {
	if formatterFunc == nil {
		return w.WithColumnFormatter(columnIndex, nil)
	}
	return w.WithColumnFormatter(columnIndex, formatterFunc)
}

func (w *Writer[R]) WithTypeFormatters(formatters *tabular.TypeFormatters) *Writer[R] {
	mod := w.clone()
	mod.formatters = formatters
	return mod
}

func (w *Writer[R]) WithTypeFormatter(typ reflect.Type, fmt tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.formatters = w.formatters.WithTypeFormatter(typ, fmt)
	return mod
}

func (w *Writer[R]) WithTypeFormatterFunc(typ reflect.Type, fmt tabular.ValueFormatterFunc) *Writer[R] {
	mod := w.clone()
	mod.formatters = w.formatters.WithTypeFormatter(typ, fmt)
	return mod
}

func (w *Writer[R]) WithInterfaceTypeFormatter(typ reflect.Type, fmt tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.formatters = w.formatters.WithInterfaceTypeFormatter(typ, fmt)
	return mod
}

func (w *Writer[R]) WithInterfaceTypeFormatterFunc(typ reflect.Type, fmt tabular.ValueFormatterFunc) *Writer[R] {
	mod := w.clone()
	mod.formatters = w.formatters.WithInterfaceTypeFormatter(typ, fmt)
	return mod
}

func (w *Writer[R]) WithTypeFormatterReflectFunc(function any) *Writer[R] {
	fmt, typ, err := tabular.ReflectValueFormatterFunc(function, false)
	if err != nil {
		panic(err)
	}
	return w.WithTypeFormatter(typ, fmt)
}

func (w *Writer[R]) WithTypeFormatterReflectRawFunc(function any) *Writer[R] {
	fmt, typ, err := tabular.ReflectValueFormatterFunc(function, true)
	if err != nil {
		panic(err)
	}
	return w.WithTypeFormatter(typ, fmt)
}

func (w *Writer[R]) WithKindFormatter(kind reflect.Kind, fmt tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.formatters = w.formatters.WithKindFormatter(kind, fmt)
	return mod
}

func (w *Writer[R]) WithKindFormatterFunc(kind reflect.Kind, fmt tabular.ValueFormatterFunc) *Writer[R] {
	mod := w.clone()
	mod.formatters = w.formatters.WithKindFormatter(kind, fmt)
	return mod
}

func (w *Writer[R]) WithPadding(padding Padding) *Writer[R] {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer[R]) WithQuoteAllFields(quoteAllFields bool) *Writer[R] {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer[R]) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer[R] {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer[R]) WithNilValue(nilValue string) *Writer[R] {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer[R]) WithEscapeQuotes(escapeQuotes string) *Writer[R] {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer[R]) WithDelimiter(delimiter rune) *Writer[R] {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer[R]) WithNewLine(newLine string) *Writer[R] {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer[R]) WithEncoder(encoder Encoder) *Writer[R] {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer[R]) HeaderRow() bool {
	return w.headerRow
}

func (w *Writer[R]) Padding() Padding {
	return w.padding
}

func (w *Writer[R]) QuoteAllFields() bool {
	return w.quoteAllFields
}

func (w *Writer[R]) QuoteEmptyFields() bool {
	return w.quoteEmptyFields
}

func (w *Writer[R]) Delimiter() rune {
	return w.delimiter
}

func (w *Writer[R]) EscapeQuotes() string {
	return w.escapeQuotes
}

func (w *Writer[R]) NilValue() string {
	return w.nilValue
}

func (w *Writer[R]) NewLine() string {
	return w.newLine
}

func (w *Writer[R]) Encoder() Encoder {
	return w.encoder
}

// Ensure that Exporter implements tabular.Exporter
var _ tabular.Exporter = new(Exporter[tabular.ValuesRow])

// Exporter writes the header and cell sequence
// of a projected table to dest as CSV.
// Use Writer.NewExporter to create one.
type Exporter[R tabular.Row] struct {
	w    *Writer[R]
	dest io.Writer

	headers       []string
	headerWritten bool
	curRow        int
	cells         []string
	rows          [][]string
	rowBuf        *bytes.Buffer
}

func (e *Exporter[R]) SerializeHeader(ctx context.Context, col int, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.headers = append(e.headers, title)
	return nil
}

func (e *Exporter[R]) SerializeCell(ctx context.Context, row, col int, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	str, err := e.w.cellString(ctx, col, value)
	if err != nil {
		return err
	}
	if row != e.curRow {
		err = e.finishRow()
		if err != nil {
			return err
		}
		e.curRow = row
	}
	e.cells = append(e.cells, str)
	return nil
}

// Finish completes the CSV output after the last serialized cell.
// Without padding it flushes the final buffered row, else it
// writes all collected rows with cells padded per column.
func (e *Exporter[R]) Finish() error {
	err := e.finishRow()
	if err != nil {
		return err
	}
	if e.w.padding == NoPadding {
		return nil
	}

	rows := e.rows
	if e.w.headerRow && len(e.headers) > 0 {
		rows = append([][]string{e.escapedHeaders()}, rows...)
	}
	colWidths := tabular.StringColumnWidths(rows, len(e.headers))
	for _, cells := range rows {
		err = e.writeLinePadded(cells, colWidths)
		if err != nil {
			return err
		}
	}
	return nil
}

// finishRow completes the current row: written to dest
// without padding, else collected for Finish.
// The header line is streamed out before the first row.
func (e *Exporter[R]) finishRow() error {
	if e.w.padding != NoPadding {
		if e.curRow >= 0 {
			e.rows = append(e.rows, e.cells)
			e.cells = nil
		}
		return nil
	}

	if !e.headerWritten {
		e.headerWritten = true
		if e.w.headerRow && len(e.headers) > 0 {
			err := e.writeLine(e.escapedHeaders())
			if err != nil {
				return err
			}
		}
	}
	if e.curRow < 0 {
		return nil
	}
	err := e.writeLine(e.cells)
	e.cells = e.cells[:0]
	return err
}

func (e *Exporter[R]) escapedHeaders() []string {
	cells := make([]string, len(e.headers))
	for col, title := range e.headers {
		cells[col] = e.w.escapeString(title, false)
	}
	return cells
}

func (e *Exporter[R]) writeLine(cells []string) error {
	e.rowBuf.Reset()
	for col, str := range cells {
		if col > 0 {
			e.rowBuf.WriteRune(e.w.delimiter)
		}
		e.rowBuf.WriteString(str)
	}
	e.rowBuf.WriteString(e.w.newLine)
	return e.flushLine()
}

func (e *Exporter[R]) writeLinePadded(cells []string, colWidths []int) error {
	e.rowBuf.Reset()
	for col, str := range cells {
		if col > 0 {
			e.rowBuf.WriteRune(e.w.delimiter)
		}
		var (
			padTotal = colWidths[col] - utf8.RuneCountInString(str)
			padLeft  = 0
			padRight = 0
		)
		switch e.w.padding {
		case AlignLeft:
			padRight = padTotal
		case AlignRight:
			padLeft = padTotal
		case AlignCenter:
			padLeft = padTotal / 2
			padRight = (padTotal + 1) / 2
		}
		for i := 0; i < padLeft; i++ {
			e.rowBuf.WriteByte(' ')
		}
		e.rowBuf.WriteString(str)
		for i := 0; i < padRight; i++ {
			e.rowBuf.WriteByte(' ')
		}
	}
	e.rowBuf.WriteString(e.w.newLine)
	return e.flushLine()
}

func (e *Exporter[R]) flushLine() error {
	line := e.rowBuf.Bytes()
	if e.w.encoder != nil {
		var err error
		line, err = e.w.encoder.Bytes(line)
		if err != nil {
			return err
		}
	}
	_, err := e.dest.Write(line)
	return err
}
