// Package reporter renders reconciliation results as console summaries
// or as JSON, CSV and XLSX report files.
//
// Every tabular format shares one layout: the Age Bucket leads, the
// original SOA columns follow unchanged, and the reconciliation columns
// (Match Source, Amount Difference, Category, Notes) trail. Rows appear
// in the original SOA order.
package reporter

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/reconciler"
	"soa-reconciliation-service/pkg/errors"
	"soa-reconciliation-service/pkg/logger"
)

// Format selects the report output format.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatConsole, Format(""):
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", errors.New(errors.CategoryReport, errors.CodeWriteFailed,
			"unknown report format: "+s).
			WithSuggestion("supported formats are console, json, csv and xlsx")
	}
}

const (
	columnAgeBucket        = "Age Bucket"
	columnMatchSource      = "Match Source"
	columnAmountDifference = "Amount Difference"
	columnCategory         = "Category"
	columnNotes            = "Notes"
)

// Reporter writes reconciliation output. A Reporter is cheap and
// carries no state between writes beyond its run identity.
type Reporter struct {
	runID       string
	generatedAt time.Time
	logger      logger.Logger
}

// New creates a Reporter with a fresh run ID.
func New() *Reporter {
	return &Reporter{
		runID:       uuid.New().String(),
		generatedAt: time.Now().UTC(),
		logger:      logger.GetGlobalLogger().WithComponent("reporter"),
	}
}

// RunID returns the identity stamped on this reporter's output.
func (r *Reporter) RunID() string {
	return r.runID
}

// headerRow builds the shared tabular header from the SOA columns.
func headerRow(soaColumns []string) []string {
	header := make([]string, 0, len(soaColumns)+5)
	header = append(header, columnAgeBucket)
	header = append(header, soaColumns...)
	header = append(header,
		columnMatchSource, columnAmountDifference, columnCategory, columnNotes)
	return header
}

// recordRow renders one result into the shared tabular layout.
func recordRow(result *models.Result, soaColumns []string) []string {
	row := make([]string, 0, len(soaColumns)+5)
	row = append(row, string(result.AgeBucket))

	for _, column := range soaColumns {
		value, _ := result.Record.Get(column)
		row = append(row, value.Text())
	}

	row = append(row, strings.Join(result.MatchSources, ", "))
	if result.AmountDifference != nil {
		row = append(row, result.AmountDifference.StringFixed(2))
	} else {
		row = append(row, "")
	}
	row = append(row, string(result.Category))
	row = append(row, strings.Join(result.Annotations, "; "))
	return row
}

// report is the serializable envelope for JSON output.
type report struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     *reconciler.Summary `json:"summary"`
	Records     []reportRecord      `json:"records"`
}

type reportRecord struct {
	Row              int               `json:"row"`
	AgeBucket        string            `json:"age_bucket,omitempty"`
	AgeDays          *int              `json:"age_days,omitempty"`
	Fields           map[string]string `json:"fields"`
	MatchSources     []string          `json:"match_sources,omitempty"`
	AmountDifference *string           `json:"amount_difference,omitempty"`
	Category         string            `json:"category"`
	Notes            []string          `json:"notes,omitempty"`
}

func toReportRecord(result *models.Result, soaColumns []string) reportRecord {
	fields := make(map[string]string, len(soaColumns))
	for _, column := range soaColumns {
		value, _ := result.Record.Get(column)
		fields[column] = value.Text()
	}

	record := reportRecord{
		Row:          result.Record.Row(),
		AgeBucket:    string(result.AgeBucket),
		AgeDays:      result.AgeDays,
		Fields:       fields,
		MatchSources: result.MatchSources,
		Category:     string(result.Category),
		Notes:        result.Annotations,
	}
	if result.AmountDifference != nil {
		diff := result.AmountDifference.StringFixed(2)
		record.AmountDifference = &diff
	}
	return record
}
