package reporter

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/reconciler"
	"soa-reconciliation-service/pkg/errors"
)

const (
	detailSheet  = "Reconciliation"
	summarySheet = "Summary"
)

// amountHighlightTolerance matches the ambiguity epsilon: differences at
// or below one cent are not flagged in the workbook.
var amountHighlightTolerance = decimal.RequireFromString("0.01")

// WriteXLSX writes a formatted workbook: a detail sheet in the shared
// tabular layout plus a summary sheet. Amount differences beyond the
// tolerance get the mismatch highlight, as do unmatched and ambiguous
// category cells.
func (r *Reporter) WriteXLSX(path string, results []*models.Result, summary *reconciler.Summary, soaColumns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", detailSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"404040"}, Pattern: 1},
	})
	if err != nil {
		return errors.ReportError(path, err)
	}
	mismatchStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return errors.ReportError(path, err)
	}

	header := headerRow(soaColumns)
	if err := writeRow(f, detailSheet, 1, header); err != nil {
		return errors.ReportError(path, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(detailSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return errors.ReportError(path, err)
	}

	diffCol := len(soaColumns) + 3 // Age Bucket + SOA columns + Match Source, then the diff
	categoryCol := diffCol + 1

	for i, result := range results {
		rowNum := i + 2
		if err := writeRow(f, detailSheet, rowNum, recordRow(result, soaColumns)); err != nil {
			return errors.ReportError(path, err)
		}
		if highlightAmount(result) {
			if err := styleCell(f, detailSheet, diffCol, rowNum, mismatchStyle); err != nil {
				return errors.ReportError(path, err)
			}
		}
		if result.Category == models.CategoryUnmatched || result.Category == models.CategoryAmbiguousMatch {
			if err := styleCell(f, detailSheet, categoryCol, rowNum, mismatchStyle); err != nil {
				return errors.ReportError(path, err)
			}
		}
	}

	f.SetPanes(detailSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
	f.SetColWidth(detailSheet, "A", lastCol, 16)

	if err := r.writeSummarySheet(f, summary, headerStyle); err != nil {
		return errors.ReportError(path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ReportError(path, err)
	}

	r.logger.WithField("path", path).Info("Wrote XLSX report")
	return nil
}

func (r *Reporter) writeSummarySheet(f *excelize.File, summary *reconciler.Summary, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	rows := [][]string{
		{"Metric", "Value"},
		{"Run ID", r.runID},
		{"Generated", r.generatedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Total records", fmt.Sprintf("%d", summary.TotalRecords)},
		{"Full matches", fmt.Sprintf("%d", summary.FullMatches)},
		{"Partial matches", fmt.Sprintf("%d", summary.PartialMatches)},
		{"Ambiguous matches", fmt.Sprintf("%d", summary.AmbiguousMatches)},
		{"Unmatched", fmt.Sprintf("%d", summary.Unmatched)},
		{"Match rate", fmt.Sprintf("%.1f%%", summary.MatchRate()*100)},
		{"Records with data notes", fmt.Sprintf("%d", summary.FlaggedRecords)},
	}
	for _, bucket := range models.AgeBuckets {
		if count, ok := summary.ByBucket[bucket]; ok {
			rows = append(rows, []string{"Age " + string(bucket), fmt.Sprintf("%d", count)})
		}
	}
	for _, source := range sortedKeys(summary.BySource) {
		rows = append(rows, []string{"Matches via " + source, fmt.Sprintf("%d", summary.BySource[source])})
	}

	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	f.SetColWidth(summarySheet, "A", "A", 26)
	f.SetColWidth(summarySheet, "B", "B", 40)
	return nil
}

func highlightAmount(result *models.Result) bool {
	return result.AmountDifference != nil &&
		result.AmountDifference.Abs().GreaterThan(amountHighlightTolerance)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func styleCell(f *excelize.File, sheet string, col, rowNum, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, rowNum)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}
