package tabular

import "context"

// Exporter is implemented by export backends consuming
// the header and cell sequence of a projected table.
//
// Column positions passed to an Exporter are renumbered
// display positions from 0 to the number of exported columns,
// not declaration indices. Row positions are renumbered
// projection positions, not original row indices.
type Exporter interface {
	// SerializeHeader is called once per exported column
	// in display order before any cell is serialized.
	SerializeHeader(ctx context.Context, col int, title string) error

	// SerializeCell is called once per cell,
	// row by row in projection order,
	// cells in display order within a row.
	SerializeCell(ctx context.Context, row, col int, value any) error
}

// exportColumn pairs a column's serializer with its export header.
type exportColumn[R Row] struct {
	serializer CellSerializer[R]
	header     string
}

// exportColumns returns the exportable columns in display order:
// visible columns that implement CellSerializer and
// don't exclude themselves via ExportIncluder.
func exportColumns[R Row](table *TableContext[R]) []exportColumn[R] {
	visible := table.order.Columns()
	columns := make([]exportColumn[R], 0, len(visible))
	for _, col := range visible {
		serializer, ok := table.columns[col].(CellSerializer[R])
		if !ok {
			continue
		}
		if includer, ok := table.columns[col].(ExportIncluder); ok && !includer.IncludeInExport() {
			continue
		}
		header := table.names[col]
		if headerer, ok := table.columns[col].(ExportHeaderer); ok {
			header = headerer.ExportHeader()
		}
		columns = append(columns, exportColumn[R]{serializer: serializer, header: header})
	}
	return columns
}

// Export serializes the projected table to dest:
// first one header per exported column in display order,
// then the cells of every projected row.
//
// Exported are the visible columns that implement CellSerializer
// and don't exclude themselves via ExportIncluder. Hidden columns
// are omitted. A table with no exportable columns exports nothing
// and returns nil.
//
// The first error from dest or ctx aborts the export immediately
// and is returned without retry or partial output guarantee.
func Export[R Row](ctx context.Context, dest Exporter, table *TableContext[R], rows []R) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	columns := exportColumns(table)
	if len(columns) == 0 {
		return nil
	}
	for col, c := range columns {
		if err := dest.SerializeHeader(ctx, col, c.header); err != nil {
			return err
		}
	}
	for row, rowIndex := range table.RowIndices(rows) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for col, c := range columns {
			if err := dest.SerializeCell(ctx, row, col, c.serializer.SerializeCell(rows[rowIndex])); err != nil {
				return err
			}
		}
	}
	return nil
}
