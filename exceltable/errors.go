package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet indicates that a sheet has no data left
// after removing empty rows and columns.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist indicates that a sheet with the requested
// name does not exist in the workbook.
type ErrSheetNotExist = excelize.ErrSheetNotExist
