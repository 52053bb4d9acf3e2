// Package errors defines the typed error taxonomy for the reconciliation
// service.
//
// Structural problems (missing mapped columns, invalid mapping sets) are
// fatal and abort a run before any record is processed. Per-cell data
// problems are recovered locally and surface as record annotations, never
// as errors from the engine.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Category groups errors by the subsystem that produced them.
type Category string

const (
	CategoryFile          Category = "file"
	CategorySchema        Category = "schema"
	CategoryParse         Category = "parse"
	CategoryConfiguration Category = "configuration"
	CategoryTemplate      Category = "template"
	CategoryReport        Category = "report"
	CategoryInternal      Category = "internal"
)

// Code identifies a specific failure within a category.
type Code string

const (
	// File errors
	CodeFileNotFound    Code = "file_not_found"
	CodeFileUnreadable  Code = "file_unreadable"
	CodeUnsupportedType Code = "unsupported_file_type"

	// Schema errors
	CodeMissingColumn Code = "missing_column"
	CodeEmptyHeader   Code = "empty_header"

	// Parse errors
	CodeInvalidAmount Code = "invalid_amount"
	CodeInvalidDate   Code = "invalid_date"
	CodeMalformedRow  Code = "malformed_row"

	// Configuration errors
	CodeDuplicateMapping Code = "duplicate_mapping"
	CodeUnknownColumn    Code = "unknown_column"
	CodeInvalidThreshold Code = "invalid_threshold"
	CodeNoSources        Code = "no_reference_sources"
	CodeNoMappings       Code = "no_field_mappings"

	// Template errors
	CodeTemplateNotFound Code = "template_not_found"
	CodeTemplateInvalid  Code = "template_invalid"

	// Report errors
	CodeWriteFailed Code = "report_write_failed"

	// Internal errors
	CodeUnexpected Code = "unexpected_error"
)

// ReconError is the error type returned by every package in this module.
type ReconError struct {
	Category   Category          `json:"category"`
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context carries structured detail about where an error occurred.
type Context map[string]interface{}

func (e *ReconError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ReconError) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error category to a process exit code.
func (e *ReconError) ExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategorySchema, CategoryParse:
		return 3
	case CategoryConfiguration, CategoryTemplate:
		return 4
	case CategoryReport, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext attaches a key/value pair to the error.
func (e *ReconError) WithContext(key string, value interface{}) *ReconError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion attaches a remediation hint.
func (e *ReconError) WithSuggestion(suggestion string) *ReconError {
	e.Suggestion = suggestion
	return e
}

// New creates a ReconError with a captured stack trace.
func New(category Category, code Code, message string) *ReconError {
	return &ReconError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap attaches category and code to an existing error.
func Wrap(err error, category Category, code Code, message string) *ReconError {
	if err == nil {
		return nil
	}
	return &ReconError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError reports a problem accessing or recognizing an input file.
func FileError(code Code, path string, err error) *ReconError {
	var message, suggestion string
	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check that the path is correct and the file exists"
	case CodeFileUnreadable:
		message = fmt.Sprintf("cannot read file: %s", path)
		suggestion = "check file permissions"
	case CodeUnsupportedType:
		message = fmt.Sprintf("unsupported file type: %s", path)
		suggestion = "supported extensions are .csv, .xlsx and .xls"
	default:
		message = fmt.Sprintf("file error: %s", path)
	}

	result := build(err, CategoryFile, code, message)
	return result.WithSuggestion(suggestion).WithContext("path", path)
}

// SchemaError reports a required mapped column missing from a file header.
// Surfaced before any matching begins; the run does not start.
func SchemaError(code Code, file, column string) *ReconError {
	var message, suggestion string
	switch code {
	case CodeMissingColumn:
		message = fmt.Sprintf("required column '%s' is missing from %s", column, file)
		suggestion = "verify the header row matches the configured mappings"
	case CodeEmptyHeader:
		message = fmt.Sprintf("file %s has no header row", file)
		suggestion = "the first row must contain column names"
	default:
		message = fmt.Sprintf("schema error in %s", file)
	}

	return New(CategorySchema, code, message).
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("column", column)
}

// ParseError reports a cell value that cannot be coerced to its expected
// type. These are recoverable: the engine degrades the field to absent.
func ParseError(code Code, file string, row int, column, value string, err error) *ReconError {
	var message, suggestion string
	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in %s row %d, column '%s': '%s'", file, row, column, value)
		suggestion = "amounts must be decimal numbers, currency symbols are stripped automatically"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in %s row %d, column '%s': '%s'", file, row, column, value)
		suggestion = "use a recognized date format such as YYYY-MM-DD or DD/MM/YYYY"
	case CodeMalformedRow:
		message = fmt.Sprintf("malformed row %d in %s", row, file)
		suggestion = "check for unbalanced quotes or a wrong delimiter"
	default:
		message = fmt.Sprintf("parse error in %s row %d", file, row)
	}

	result := build(err, CategoryParse, code, message)
	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("row", row).
		WithContext("column", column).
		WithContext("value", value)
}

// ConfigurationError reports an invalid mapping set or engine configuration.
// Validation runs before processing; the whole run fails atomically.
func ConfigurationError(code Code, detail string) *ReconError {
	var message, suggestion string
	switch code {
	case CodeDuplicateMapping:
		message = fmt.Sprintf("duplicate mapping: %s", detail)
		suggestion = "at most one active mapping is allowed per SOA column and reference file pair"
	case CodeUnknownColumn:
		message = fmt.Sprintf("mapping references unknown column: %s", detail)
		suggestion = "mappings must reference columns present in both files"
	case CodeInvalidThreshold:
		message = fmt.Sprintf("invalid fuzzy threshold: %s", detail)
		suggestion = "thresholds must be between 0 and 1"
	case CodeNoSources:
		message = "no reference sources configured"
		suggestion = "configure at least one reference file with mappings"
	case CodeNoMappings:
		message = fmt.Sprintf("reference source has no field mappings: %s", detail)
		suggestion = "every reference source needs at least one mapping"
	default:
		message = fmt.Sprintf("invalid configuration: %s", detail)
	}

	return New(CategoryConfiguration, code, message).
		WithSuggestion(suggestion).
		WithContext("detail", detail)
}

// TemplateError reports a problem loading or saving a mapping template.
func TemplateError(code Code, name string, err error) *ReconError {
	var message, suggestion string
	switch code {
	case CodeTemplateNotFound:
		message = fmt.Sprintf("template not found: %s", name)
		suggestion = "run 'soarecon template list' to see saved templates"
	case CodeTemplateInvalid:
		message = fmt.Sprintf("template is invalid: %s", name)
		suggestion = "the template file may be corrupted; re-save it"
	default:
		message = fmt.Sprintf("template error: %s", name)
	}

	result := build(err, CategoryTemplate, code, message)
	return result.WithSuggestion(suggestion).WithContext("template", name)
}

// ReportError reports a failure writing reconciliation output.
func ReportError(destination string, err error) *ReconError {
	return build(err, CategoryReport, CodeWriteFailed,
		fmt.Sprintf("failed to write report to %s", destination)).
		WithContext("destination", destination)
}

// InternalError reports an unexpected failure inside the engine.
func InternalError(operation string, err error) *ReconError {
	return build(err, CategoryInternal, CodeUnexpected,
		fmt.Sprintf("unexpected error during %s", operation)).
		WithSuggestion("this is likely a bug, please report it").
		WithContext("operation", operation)
}

func build(err error, category Category, code Code, message string) *ReconError {
	if err != nil {
		return Wrap(err, category, code, message)
	}
	return New(category, code, message)
}

// IsCategory reports whether err is a ReconError of the given category.
func IsCategory(err error, category Category) bool {
	re, ok := AsReconError(err)
	return ok && re.Category == category
}

// IsCode reports whether err is a ReconError with the given code.
func IsCode(err error, code Code) bool {
	re, ok := AsReconError(err)
	return ok && re.Code == code
}

// AsReconError extracts a ReconError from an error chain.
func AsReconError(err error) (*ReconError, bool) {
	var re *ReconError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Summary aggregates recoverable errors collected during a run.
type Summary struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"by_category"`
	ByCode     map[Code]int     `json:"by_code"`
	Samples    []*ReconError    `json:"samples,omitempty"`
}

const maxSamples = 5

// NewSummary builds a Summary from a slice of errors.
func NewSummary(errs []*ReconError) *Summary {
	s := &Summary{
		Total:      len(errs),
		ByCategory: make(map[Category]int),
		ByCode:     make(map[Code]int),
	}
	for _, e := range errs {
		s.ByCategory[e.Category]++
		s.ByCode[e.Code]++
	}
	if len(errs) > maxSamples {
		s.Samples = errs[:maxSamples]
	} else {
		s.Samples = errs
	}
	return s
}

func (s *Summary) Error() string {
	if s.Total == 0 {
		return "no errors"
	}
	if s.Total == 1 && len(s.Samples) == 1 {
		return s.Samples[0].Error()
	}
	var parts []string
	for category, count := range s.ByCategory {
		parts = append(parts, fmt.Sprintf("%s: %d", category, count))
	}
	return fmt.Sprintf("%d errors occurred (%s)", s.Total, strings.Join(parts, ", "))
}
