package parsers

import (
	"os"

	"github.com/xuri/excelize/v2"

	"soa-reconciliation-service/pkg/errors"
)

// readExcel reads all rows of one worksheet, header included. The
// configured sheet name is used when set, otherwise the first sheet.
func (rl *RecordLoader) readExcel(path string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.FileError(errors.CodeFileNotFound, path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileUnreadable, path, err)
	}
	defer f.Close()

	sheet := rl.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.SchemaError(errors.CodeEmptyHeader, path, "")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileUnreadable, path, err)
	}

	return rows, nil
}

// SheetNames lists the worksheets of an Excel workbook. CSV files have
// no sheets and return an empty list.
func SheetNames(path string) ([]string, error) {
	if detectKind(path) != kindExcel {
		return nil, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileUnreadable, path, err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
