// Package htmltable exports projected tables as HTML table elements.
//
// The package is built around the Writer type which renders the
// visible columns and projected rows of a table with support for:
//   - Custom CSS classes and captions
//   - Column-specific formatters
//   - Type-based formatters
//   - Raw HTML output where needed
//   - Customizable templates
//   - Header rows
//
// By default all cell values are HTML-escaped for safety.
// Formatters can return trusted HTML markup by setting
// their raw result to true.
package htmltable

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"reflect"
	"strings"

	"github.com/ryo33/go-tabular"
)

// Writer holds the configuration for writing projected
// tables as HTML tables.
//
// Writers are immutable, the With methods return modified
// clones so a configured Writer can be shared and reused.
//
// Every cell value is formatted through a cascade:
//  1. the formatter registered for the cell's display column
//  2. the type-based formatters
//  3. the nil value for nil-like cells
//  4. fmt.Sprint of the cell value
//
// Formatted values are HTML-escaped unless the formatter
// declares its result as raw HTML.
type Writer[R tabular.Row] struct {
	tableClass       string
	columnFormatters map[int]tabular.ValueFormatter
	typeFormatters   *tabular.TypeFormatters
	nilValue         template.HTML
	headerRow        bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter returns a Writer with no table class, no formatters,
// an empty string for nil values, no header row,
// and the default HTML table templates.
func NewWriter[R tabular.Row]() *Writer[R] {
	return &Writer[R]{
		tableClass:       "",
		columnFormatters: make(map[int]tabular.ValueFormatter),
		typeFormatters:   nil, // OK to use nil *tabular.TypeFormatters
		nilValue:         "",
		headerRow:        false,
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

func (w *Writer[R]) clone() *Writer[R] {
	c := new(Writer[R])
	*c = *w
	return c
}

// Write exports the projected table to dest as an HTML table.
// The optional caption strings are joined with a space and
// rendered as the table caption.
//
// Example:
//
//	writer := htmltable.NewWriter[Person]().WithHeaderRow(true)
//	err := writer.Write(ctx, &buf, table, people, "Employee List")
func (w *Writer[R]) Write(ctx context.Context, dest io.Writer, table *tabular.TableContext[R], rows []R, caption ...string) error {
	e := w.NewExporter(dest, strings.Join(caption, " "))
	err := tabular.Export(ctx, e, table, rows)
	if err != nil {
		return err
	}
	return e.Finish()
}

// NewExporter returns a tabular.Exporter writing an HTML table
// to dest with the writer's configuration.
// Finish must be called after the last cell to complete the output.
func (w *Writer[R]) NewExporter(dest io.Writer, caption string) *Exporter[R] {
	return &Exporter[R]{
		w:    w,
		dest: dest,
		templData: &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableClass: w.tableClass,
				Caption:    caption,
			},
		},
		curRow: -1,
	}
}

func (w *Writer[R]) cellHTML(ctx context.Context, col int, value any) (template.HTML, error) {
	if colFormatter, ok := w.columnFormatters[col]; ok {
		str, raw, err := colFormatter.FormatValue(ctx, value)
		if err == nil {
			return escapeHTML(str, raw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// Continue after errors.ErrUnsupported
	}

	str, raw, err := w.typeFormatters.FormatValue(ctx, value)
	if err == nil {
		return escapeHTML(str, raw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}
	// Continue after errors.ErrUnsupported

	// Use fallback methods for formatting
	v := reflect.ValueOf(value)
	if tabular.ValueIsNil(v) {
		return w.nilValue, nil
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return escapeHTML(fmt.Sprint(v.Interface()), false), nil
}

func escapeHTML(str string, isRaw bool) template.HTML {
	if !isRaw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str) //#nosec G203
}

// WithHeaderRow returns a new writer that renders the column
// titles as a first row of <th> elements.
func (w *Writer[R]) WithHeaderRow(headerRow bool) *Writer[R] {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithTableClass returns a new writer with the passed CSS class
// for the table element, rendered as <table class='tableClass'>.
func (w *Writer[R]) WithTableClass(tableClass string) *Writer[R] {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// Column formatters take precedence over type formatters.
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

// WithRawColumn returns a new writer that interprets the
// cell values of a display column as raw HTML strings
// that won't be escaped.
//
// Warning: Only use this for trusted content
// to avoid XSS vulnerabilities.
func (w *Writer[R]) WithRawColumn(columnIndex int) *Writer[R] {
	return w.WithColumnFormatter(columnIndex, tabular.PrintfRawValueFormatter("%v"))
}

// WithTypeFormatters returns a new writer with the passed
// formatters replacing all type-based formatters.
func (w *Writer[R]) WithTypeFormatters(formatters *tabular.TypeFormatters) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = formatters
	return mod
}

// WithTypeFormatter returns a new writer with fmt registered
// as formatter for values of the exact type typ.
//
// Example:
//
//	writer := htmltable.NewWriter[Event]().
//	    WithTypeFormatter(
//	        reflect.TypeOf(time.Time{}),
//	        tabular.LayoutValueFormatter("2006-01-02"),
//	    )
func (w *Writer[R]) WithTypeFormatter(typ reflect.Type, fmt tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithTypeFormatter(typ, fmt)
	return mod
}

// WithTypeFormatterFunc returns a new writer with fmt registered
// as formatter for values of the exact type typ.
func (w *Writer[R]) WithTypeFormatterFunc(typ reflect.Type, fmt tabular.ValueFormatterFunc) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithTypeFormatter(typ, fmt)
	return mod
}

// WithInterfaceTypeFormatter returns a new writer with fmt registered
// as formatter for values implementing the interface type typ.
func (w *Writer[R]) WithInterfaceTypeFormatter(typ reflect.Type, fmt tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithInterfaceTypeFormatter(typ, fmt)
	return mod
}

// WithInterfaceTypeFormatterFunc returns a new writer with fmt registered
// as formatter for values implementing the interface type typ.
func (w *Writer[R]) WithInterfaceTypeFormatterFunc(typ reflect.Type, fmt tabular.ValueFormatterFunc) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithInterfaceTypeFormatter(typ, fmt)
	return mod
}

// WithTypeFormatterReflectFunc returns a new writer with function
// registered as formatter for the type of the function's value argument.
// It panics in case of an invalid function signature.
func (w *Writer[R]) WithTypeFormatterReflectFunc(function any) *Writer[R] {
	fmt, typ, err := tabular.ReflectValueFormatterFunc(function, false)
	if err != nil {
		panic(err)
	}
	return w.WithTypeFormatter(typ, fmt)
}

// WithTypeFormatterReflectRawFunc returns a new writer with function
// registered as raw result formatter for the type of the function's
// value argument. It panics in case of an invalid function signature.
func (w *Writer[R]) WithTypeFormatterReflectRawFunc(function any) *Writer[R] {
	fmt, typ, err := tabular.ReflectValueFormatterFunc(function, true)
	if err != nil {
		panic(err)
	}
	return w.WithTypeFormatter(typ, fmt)
}

// WithKindFormatter returns a new writer with fmt registered
// as formatter for values of the reflect.Kind kind.
func (w *Writer[R]) WithKindFormatter(kind reflect.Kind, fmt tabular.ValueFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithKindFormatter(kind, fmt)
	return mod
}

// WithKindFormatterFunc returns a new writer with fmt registered
// as formatter for values of the reflect.Kind kind.
func (w *Writer[R]) WithKindFormatterFunc(kind reflect.Kind, fmt tabular.ValueFormatterFunc) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithKindFormatter(kind, fmt)
	return mod
}

// WithNilValue returns a new writer with the passed HTML
// rendered for nil-like cell values that no formatter supported.
//
// Example:
//
//	writer := htmltable.NewWriter[Person]().
//	    WithNilValue(template.HTML("<em>N/A</em>"))
func (w *Writer[R]) WithNilValue(nilValue template.HTML) *Writer[R] {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer with custom templates
// for complete control over the rendered HTML:
// tableTemplate renders the opening table tag and optional caption
// from a TemplateContext, rowTemplate every row from a
// RowTemplateContext, and footerTemplate the closing table tag.
// See templates.go for the default templates.
func (w *Writer[R]) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer[R] {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

func (w *Writer[R]) HeaderRow() bool {
	return w.headerRow
}

func (w *Writer[R]) TableClass() string {
	return w.tableClass
}

func (w *Writer[R]) NilValue() template.HTML {
	return w.nilValue
}

// Ensure that Exporter implements tabular.Exporter
var _ tabular.Exporter = new(Exporter[tabular.ValuesRow])

// Exporter writes the header and cell sequence of a projected
// table to dest as an HTML table.
// Use Writer.NewExporter to create one.
type Exporter[R tabular.Row] struct {
	w    *Writer[R]
	dest io.Writer

	templData *RowTemplateContext
	headers   []string
	tableOpen bool
	curRow    int
	cells     []template.HTML
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
	cell, err := e.w.cellHTML(ctx, col, value)
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
	e.cells = append(e.cells, cell)
	return nil
}

// Finish completes the HTML output after the last serialized cell
// by flushing the final buffered row and rendering the footer template.
// A table without any exportable columns renders as an empty table.
func (e *Exporter[R]) Finish() error {
	err := e.finishRow()
	if err != nil {
		return err
	}
	return e.w.footerTemplate.Execute(e.dest, e.templData.TemplateContext)
}

// finishRow renders the buffered row with the row template.
// The table header template and optional header row are
// rendered before the first row.
func (e *Exporter[R]) finishRow() error {
	if !e.tableOpen {
		e.tableOpen = true
		err := e.w.headerTemplate.Execute(e.dest, e.templData.TemplateContext)
		if err != nil {
			return err
		}
		if e.w.headerRow && len(e.headers) > 0 {
			e.templData.IsHeaderRow = true
			e.templData.RawCells = make([]template.HTML, len(e.headers))
			for col, title := range e.headers {
				e.templData.RawCells[col] = escapeHTML(title, false)
			}
			err = e.w.rowTemplate.Execute(e.dest, e.templData)
			if err != nil {
				return err
			}
			e.templData.IsHeaderRow = false
			e.templData.RowIndex++
		}
	}
	if e.curRow < 0 {
		return nil
	}
	e.templData.RawCells = e.cells
	err := e.w.rowTemplate.Execute(e.dest, e.templData)
	if err != nil {
		return err
	}
	e.templData.RowIndex++
	e.cells = nil
	return nil
}
