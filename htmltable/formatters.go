package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/ryo33/go-tabular"
)

var (
	// HTMLPreFormatter renders the escaped value within an HTML pre element.
	HTMLPreFormatter tabular.ValueFormatterFunc = func(ctx context.Context, value any) (str string, raw bool, err error) {
		return "<pre>" + template.HTMLEscapeString(fmt.Sprint(value)) + "</pre>", true, nil
	}

	// HTMLCodeFormatter renders the escaped value within an HTML code element.
	HTMLCodeFormatter tabular.ValueFormatterFunc = func(ctx context.Context, value any) (str string, raw bool, err error) {
		return "<code>" + template.HTMLEscapeString(fmt.Sprint(value)) + "</code>", true, nil
	}

	// ValueAsHTMLAnchorFormatter formats the value using fmt.Sprint,
	// escapes it for HTML and returns an HTML anchor element with the
	// value as id and inner text.
	ValueAsHTMLAnchorFormatter tabular.ValueFormatterFunc = func(ctx context.Context, value any) (str string, raw bool, err error) {
		escaped := template.HTMLEscapeString(fmt.Sprint(value))
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", escaped), true, nil
	}

	_ tabular.ValueFormatter = JSONFormatter("")
	_ tabular.ValueFormatter = HTMLSpanClassFormatter("")
)

// JSONFormatter renders JSON values within an HTML pre element,
// re-indented with the string value of the formatter as indentation,
// or compacted to a single line if the formatter string is empty.
//
// Strings, byte slices, and json.RawMessage values are used directly
// as JSON source, all other values are marshalled first.
// Empty values render as an empty string without the pre element.
type JSONFormatter string

func (indent JSONFormatter) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	var data []byte
	switch x := value.(type) {
	case nil:
		return "", false, nil
	case json.RawMessage:
		data = x
	case []byte:
		data = x
	case string:
		data = []byte(x)
	default:
		data, err = json.Marshal(value)
		if err != nil {
			return "", false, err
		}
	}
	if len(data) == 0 {
		return "", false, nil
	}
	buf := bytes.NewBufferString("<pre>")
	if indent == "" {
		err = json.Compact(buf, data)
	} else {
		err = json.Indent(buf, data, "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassFormatter renders the escaped value within an HTML
// span element with the string value of the formatter as class.
type HTMLSpanClassFormatter string

func (class HTMLSpanClassFormatter) FormatValue(ctx context.Context, value any) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(fmt.Sprint(value))
	return fmt.Sprintf("<span class='%s'>%s</span>", class, text), true, nil
}
