package reporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"sort"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/reconciler"
	"soa-reconciliation-service/pkg/errors"
)

// WriteJSON writes the full report envelope as indented JSON.
func (r *Reporter) WriteJSON(path string, results []*models.Result, summary *reconciler.Summary, soaColumns []string) error {
	rpt := report{
		RunID:       r.runID,
		GeneratedAt: r.generatedAt,
		Summary:     summary,
		Records:     make([]reportRecord, 0, len(results)),
	}
	for _, result := range results {
		rpt.Records = append(rpt.Records, toReportRecord(result, soaColumns))
	}

	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return errors.ReportError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.ReportError(path, err)
	}

	r.logger.WithField("path", path).Info("Wrote JSON report")
	return nil
}

// WriteCSV writes the tabular report as CSV.
func (r *Reporter) WriteCSV(path string, results []*models.Result, soaColumns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.ReportError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headerRow(soaColumns)); err != nil {
		return errors.ReportError(path, err)
	}
	for _, result := range results {
		if err := w.Write(recordRow(result, soaColumns)); err != nil {
			return errors.ReportError(path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.ReportError(path, err)
	}

	r.logger.WithField("path", path).Info("Wrote CSV report")
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
