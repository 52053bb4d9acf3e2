package parsers

import (
	"encoding/csv"
	"io"
	"os"

	"soa-reconciliation-service/pkg/errors"
)

// readCSV reads all rows of a CSV file, header included. Rows with a
// varying number of fields are tolerated; short rows pad to empty cells
// during record construction.
func (rl *RecordLoader) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFileUnreadable, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if rl.config.Delimiter != 0 {
		reader.Comma = rl.config.Delimiter
	}

	var rows [][]string
	line := 0
	for {
		cells, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ParseError(errors.CodeMalformedRow, path, line, "", "", err)
		}
		rows = append(rows, cells)
	}

	return rows, nil
}
