package htmltable

import "html/template"

// Default templates used by NewWriter.
// See Writer.WithTemplate for replacing them.
var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .RawCells}}<th>{{$cell}}</th>{{end}}</tr>\n" +
		"{{else}}" +
		"  <tr>{{range $cell := .RawCells}}<td>{{$cell}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>\n",
	))
)

// TemplateContext is the data for the table header
// and footer templates.
type TemplateContext struct {
	TableClass string
	Caption    string
}

// RowTemplateContext is the data for the row template.
// RowIndex counts rendered rows including a header row,
// RawCells holds the formatted cells already escaped
// or explicitly raw HTML.
type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	RawCells    []template.HTML
}
