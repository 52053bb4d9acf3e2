package parsers

import (
	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/pkg/errors"
	"soa-reconciliation-service/pkg/logger"
)

// RecordLoader loads tabular files into normalized records.
type RecordLoader struct {
	config *LoaderConfig
	logger logger.Logger
}

// NewRecordLoader creates a loader with the given configuration.
func NewRecordLoader(config *LoaderConfig) *RecordLoader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &RecordLoader{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("record_loader"),
	}
}

// LoadRecords reads a file and produces one Record per data row, in
// file order. The source name tags every record for match-source
// annotation. Required columns missing from the header fail with a
// schema error before any record is built.
func (rl *RecordLoader) LoadRecords(path, sourceName string, required []string) ([]*models.Record, *LoadStats, error) {
	var rows [][]string
	var err error

	switch detectKind(path) {
	case kindCSV:
		rows, err = rl.readCSV(path)
	case kindExcel:
		rows, err = rl.readExcel(path)
	default:
		return nil, nil, errors.FileError(errors.CodeUnsupportedType, path, nil)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, errors.SchemaError(errors.CodeEmptyHeader, path, "")
	}

	headers := normalizeHeader(rows[0])
	if err := validateHeader(path, headers, required); err != nil {
		return nil, nil, err
	}

	stats := &LoadStats{File: path, Columns: headers}
	records := make([]*models.Record, 0, len(rows)-1)

	for _, cells := range rows[1:] {
		if rl.config.SkipEmptyRows && rowIsEmpty(cells) {
			stats.SkippedRows++
			continue
		}

		values := make(map[string]models.Value, len(headers))
		for i, col := range headers {
			if col == "" {
				continue
			}
			if i < len(cells) {
				values[col] = models.CoerceCell(cells[i])
			} else {
				values[col] = models.EmptyValue()
			}
		}

		records = append(records, models.NewRecord(sourceName, len(records), headers, values))
	}

	stats.RecordCount = len(records)
	rl.logger.WithFields(logger.Fields{
		"file":    path,
		"source":  sourceName,
		"records": stats.RecordCount,
		"skipped": stats.SkippedRows,
	}).Debug("Loaded records")

	return records, stats, nil
}
