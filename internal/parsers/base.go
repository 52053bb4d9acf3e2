// Package parsers turns raw tabular files into normalized records.
//
// It handles the two file families the reconciliation tool is fed, CSV
// and Excel workbooks, and normalizes them into the same Record shape:
// columns keyed by trimmed header text, cell values coerced to one of
// string, number, date or empty. An empty cell is an explicit empty
// value, never the string "", so matching downstream cannot confuse
// "no data" with an empty-string match.
package parsers

import (
	"path/filepath"
	"strings"

	"soa-reconciliation-service/pkg/errors"
)

// LoaderConfig holds options for loading one tabular file.
type LoaderConfig struct {
	// Delimiter applies to CSV files. Zero means comma.
	Delimiter rune
	// SheetName selects a worksheet for Excel files. Empty means the
	// first sheet.
	SheetName string
	// SkipEmptyRows drops rows whose cells are all empty.
	SkipEmptyRows bool
}

// DefaultLoaderConfig returns the configuration used when none is given.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Delimiter:     ',',
		SkipEmptyRows: true,
	}
}

// LoadStats describes what happened while loading one file.
type LoadStats struct {
	File        string   `json:"file"`
	Columns     []string `json:"columns"`
	RecordCount int      `json:"record_count"`
	SkippedRows int      `json:"skipped_rows"`
}

// normalizeHeader trims each header cell, preserving case.
func normalizeHeader(cells []string) []string {
	headers := make([]string, len(cells))
	for i, c := range cells {
		headers[i] = strings.TrimSpace(c)
	}
	return headers
}

// validateHeader checks that every required column is present in the
// header. The header must also be non-empty.
func validateHeader(file string, headers []string, required []string) error {
	nonEmpty := false
	index := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		if h != "" {
			nonEmpty = true
			index[h] = struct{}{}
		}
	}
	if !nonEmpty {
		return errors.SchemaError(errors.CodeEmptyHeader, file, "")
	}

	for _, col := range required {
		if _, ok := index[col]; !ok {
			return errors.SchemaError(errors.CodeMissingColumn, file, col)
		}
	}
	return nil
}

// fileKind classifies a path by extension.
type fileKind int

const (
	kindUnknown fileKind = iota
	kindCSV
	kindExcel
)

func detectKind(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return kindCSV
	case ".xlsx", ".xls":
		return kindExcel
	default:
		return kindUnknown
	}
}

func rowIsEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
