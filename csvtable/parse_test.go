package csvtable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryo33/go-tabular"
)

func TestParseDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantFormat Format
		wantRows   [][]string
	}{
		{
			name:       "comma separated",
			csv:        "Name,Age\nAlice,30\nBob,25",
			wantFormat: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			wantRows:   [][]string{{"Name", "Age"}, {"Alice", "30"}, {"Bob", "25"}},
		},
		{
			name:       "semicolon crlf",
			csv:        "Name;Age\r\nAlice;30\r\n",
			wantFormat: Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"},
			wantRows:   [][]string{{"Name", "Age"}, {"Alice", "30"}, nil},
		},
		{
			name:       "tab separated",
			csv:        "Name\tAge\nAlice\t30",
			wantFormat: Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"},
			wantRows:   [][]string{{"Name", "Age"}, {"Alice", "30"}},
		},
		{
			name:       "sep header line",
			csv:        "sep=,\nName,Age\nAlice,30",
			wantFormat: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			wantRows:   [][]string{{"Name", "Age"}, {"Alice", "30"}},
		},
		{
			name:       "umlauts",
			csv:        "Straße;Größe\r\nfoo;bar",
			wantFormat: Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"},
			wantRows:   [][]string{{"Straße", "Größe"}, {"foo", "bar"}},
		},
		{
			name:       "quoted field with separator",
			csv:        "Name,Note\nAlice,\"likes, commas\"",
			wantFormat: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			wantRows:   [][]string{{"Name", "Note"}, {"Alice", "likes, commas"}},
		},
		{
			name:       "quoted field with newline",
			csv:        "Name,Note\nAlice,\"line1\nline2\"\nBob,b",
			wantFormat: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			wantRows:   [][]string{{"Name", "Note"}, {"Alice", "line1\nline2"}, nil, {"Bob", "b"}},
		},
		{
			name:       "escaped quotes",
			csv:        "A\n\"say \"\"hi\"\"\"",
			wantFormat: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			wantRows:   [][]string{{"A"}, {`say "hi"`}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, format, err := ParseDetectFormat([]byte(tt.csv), nil)
			require.NoError(t, err)
			require.Equal(t, &tt.wantFormat, format)
			require.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestParseWithFormat(t *testing.T) {
	rows, err := ParseWithFormat([]byte("A;B\r\nfoo;bar"), NewFormat(";"))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A", "B"}, {"foo", "bar"}}, rows)

	// UTF-8 BOM is trimmed
	rows, err = ParseWithFormat([]byte("\xef\xbb\xbfA;B"), NewFormat(";"))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A", "B"}}, rows)

	// Matching "sep=" header line is stripped
	rows, err = ParseWithFormat([]byte("sep=;\r\nA;B"), NewFormat(";"))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"A", "B"}}, rows)

	_, err = ParseWithFormat([]byte("sep=,\r\nA;B"), NewFormat(";"))
	require.ErrorContains(t, err, "separator ',' in header line is different")

	_, err = ParseWithFormat([]byte("A;B"), nil)
	require.Error(t, err)
}

func TestFormat_Validate(t *testing.T) {
	require.NoError(t, NewFormat(";").Validate())
	require.NoError(t, (&Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"}).Validate())

	var nilFormat *Format
	require.Error(t, nilFormat.Validate())
	require.Error(t, (&Format{Separator: ";", Newline: "\n"}).Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Newline: "\n"}).Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Separator: ";;", Newline: "\n"}).Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Separator: ";"}).Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Separator: ";", Newline: "|"}).Validate())
}

func TestNewTable(t *testing.T) {
	table, rows := NewTable([][]string{{"Name", "Age"}, {"Alice", "30"}}, true)
	require.Equal(t, []string{"Name", "Age"}, table.ColumnNames())
	require.Equal(t, []tabular.ValuesRow{{RowKey: "0", Values: []any{"Alice", "30"}}}, rows)

	// Empty and duplicate titles are made unique
	table, _ = NewTable([][]string{{"A", "A", "", "A"}}, true)
	require.Equal(t, []string{"A", "A 2", "Column 3", "A 3"}, table.ColumnNames())

	// Without a header row all titles are generated
	table, rows = NewTable([][]string{{"x", "y"}}, false)
	require.Equal(t, []string{"Column 1", "Column 2"}, table.ColumnNames())
	require.Len(t, rows, 1)

	// Rows wider than the header row extend the column count
	table, rows = NewTable([][]string{{"A"}, {"1", "2"}}, true)
	require.Equal(t, []string{"A", "Column 2"}, table.ColumnNames())
	require.Equal(t, "2", rows[0].Value(1))

	// Titles are trimmed
	table, _ = NewTable([][]string{{" Name "}}, true)
	require.Equal(t, []string{"Name"}, table.ColumnNames())
}

func TestRemoveEmptyRows(t *testing.T) {
	rows := [][]string{
		nil,
		{"", ""},
		{"a"},
		{},
		{"", "b"},
	}
	require.Equal(t, [][]string{{"a"}, {"", "b"}}, RemoveEmptyRows(rows))
}

func TestEscapeQuotes(t *testing.T) {
	require.Equal(t, `a""b`, EscapeQuotes(`a"b`))
	require.Equal(t, "plain", EscapeQuotes("plain"))
}

func TestParseDetectFormatAsStructSlice(t *testing.T) {
	type person struct {
		Name string
		Age  int
		Note string
	}
	csv := "Name;Age;Note\r\n" +
		"Alice;30;\"likes; semicolons\"\r\n" +
		"\r\n" +
		"Bob;25;ok"

	scanner := tabular.NewParsingScanner(tabular.NewStringParser())
	persons, err := ParseDetectFormatAsStructSlice[person](context.Background(), []byte(csv), nil, &tabular.DefaultStructFieldNaming, []string{"Name", "Age"}, scanner, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []person{
		{Name: "Alice", Age: 30, Note: "likes; semicolons"},
		{Name: "Bob", Age: 25, Note: "ok"},
	}, persons)

	_, err = ParseDetectFormatAsStructSlice[person](context.Background(), []byte(csv), nil, &tabular.DefaultStructFieldNaming, []string{"Missing"}, scanner, nil, nil)
	require.ErrorContains(t, err, `required column "Missing"`)
}
