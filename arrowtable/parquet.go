package arrowtable

import (
	"context"
	"errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ryo33/go-tabular"
)

// WriteParquet writes the Arrow record to dest as a Snappy
// compressed Parquet file with the Arrow schema stored in
// the file metadata.
func WriteParquet(dest io.Writer, rec arrow.Record) (err error) {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	writer, err := pqarrow.NewFileWriter(rec.Schema(), dest, props, arrowProps)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, writer.Close())
	}()
	return writer.Write(rec)
}

// ExportParquet exports the projected table to dest as a
// Parquet file. See WriteParquet.
func ExportParquet[R tabular.Row](ctx context.Context, dest io.Writer, table *tabular.TableContext[R], rows []R) error {
	rec, err := ExportRecord(ctx, table, rows, nil)
	if err != nil {
		return err
	}
	defer rec.Release()
	return WriteParquet(dest, rec)
}

// ReadParquet reads a Parquet file as a table of generic
// value rows. See FromTable for the value conversion.
func ReadParquet(ctx context.Context, src parquet.ReaderAtSeeker) (table *tabular.TableContext[tabular.ValuesRow], rows []tabular.ValuesRow, err error) {
	pf, err := file.NewParquetReader(src)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		err = errors.Join(err, pf.Close())
	}()
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, nil, err
	}
	arrowTable, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer arrowTable.Release()
	return FromTable(arrowTable)
}
