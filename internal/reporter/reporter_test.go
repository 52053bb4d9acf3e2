package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/reconciler"
)

var testColumns = []string{"Invoice No", "Amount"}

func createTestResults() []*models.Result {
	makeRecord := func(row int, invoice, amount string) *models.Record {
		return models.NewRecord("soa", row, testColumns, map[string]models.Value{
			"Invoice No": models.StringValue(invoice),
			"Amount":     models.CoerceCell(amount),
		})
	}

	zero := decimal.Zero
	five := decimal.RequireFromString("5.00")
	age10 := 10
	age46 := 46

	return []*models.Result{
		{
			Record:           makeRecord(0, "INV-001", "100.00"),
			Category:         models.CategoryFullMatch,
			MatchSources:     []string{"ledger"},
			AgeDays:          &age10,
			AgeBucket:        models.Bucket0to15,
			AmountDifference: &zero,
		},
		{
			Record:           makeRecord(1, "INV-002", "105.00"),
			Category:         models.CategoryPartialMatch,
			MatchSources:     []string{"ledger", "gl"},
			AgeDays:          &age46,
			AgeBucket:        models.Bucket31to60,
			AmountDifference: &five,
			Annotations:      []string{"amount rounded"},
		},
		{
			Record:   makeRecord(2, "INV-999", "42.00"),
			Category: models.CategoryUnmatched,
		},
	}
}

func TestHeaderRowLayout(t *testing.T) {
	header := headerRow(testColumns)
	assert.Equal(t, []string{
		"Age Bucket", "Invoice No", "Amount",
		"Match Source", "Amount Difference", "Category", "Notes",
	}, header)
}

func TestRecordRow(t *testing.T) {
	results := createTestResults()

	row := recordRow(results[1], testColumns)
	assert.Equal(t, "31-60", row[0])
	assert.Equal(t, "INV-002", row[1])
	assert.Equal(t, "ledger, gl", row[3])
	assert.Equal(t, "5.00", row[4])
	assert.Equal(t, "PartialMatch", row[5])
	assert.Equal(t, "amount rounded", row[6])

	// No bucket, no difference, no sources on an unmatched record.
	row = recordRow(results[2], testColumns)
	assert.Equal(t, "", row[0])
	assert.Equal(t, "", row[3])
	assert.Equal(t, "", row[4])
	assert.Equal(t, "Unmatched", row[5])
}

func TestWriteConsole(t *testing.T) {
	results := createTestResults()
	summary := reconciler.Summarize(results)

	var buf bytes.Buffer
	require.NoError(t, New().WriteConsole(&buf, summary))

	out := buf.String()
	assert.Contains(t, out, "Total records: 3")
	assert.Contains(t, out, "Full matches:")
	assert.Contains(t, out, "Unmatched:")
	assert.Contains(t, out, "0-15")
	assert.Contains(t, out, "ledger")
	assert.Contains(t, out, "Records with data notes: 1")
	assert.Contains(t, out, "SOA RECONCILIATION SUMMARY")
}

func TestWriteCSV(t *testing.T) {
	results := createTestResults()
	path := filepath.Join(t.TempDir(), "report.csv")

	require.NoError(t, New().WriteCSV(path, results, testColumns))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 records
	assert.Equal(t, "Age Bucket", rows[0][0])
	assert.Equal(t, "INV-001", rows[1][1])
	assert.Equal(t, "Unmatched", rows[3][5])
}

func TestWriteJSON(t *testing.T) {
	results := createTestResults()
	summary := reconciler.Summarize(results)
	path := filepath.Join(t.TempDir(), "report.json")

	rpt := New()
	require.NoError(t, rpt.WriteJSON(path, results, summary, testColumns))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, rpt.RunID(), decoded.RunID)
	assert.Equal(t, 3, decoded.Summary.TotalRecords)
	require.Len(t, decoded.Records, 3)
	assert.Equal(t, "FullMatch", decoded.Records[0].Category)
	assert.Equal(t, "INV-001", decoded.Records[0].Fields["Invoice No"])
	require.NotNil(t, decoded.Records[1].AmountDifference)
	assert.Equal(t, "5.00", *decoded.Records[1].AmountDifference)
	assert.Nil(t, decoded.Records[2].AmountDifference)
}

func TestWriteXLSX(t *testing.T) {
	results := createTestResults()
	summary := reconciler.Summarize(results)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, New().WriteXLSX(path, results, summary, testColumns))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{detailSheet, summarySheet}, f.GetSheetList())

	cell, err := f.GetCellValue(detailSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Age Bucket", cell)

	cell, err = f.GetCellValue(detailSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "INV-001", cell)

	cell, err = f.GetCellValue(detailSheet, "F4")
	require.NoError(t, err)
	assert.Equal(t, "Unmatched", cell)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"console", FormatConsole, false},
		{"", FormatConsole, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		format, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, format)
	}
}
