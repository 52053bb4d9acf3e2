package errors

import (
	"fmt"
	"testing"
)

func TestErrorMessageIncludesSuggestion(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/missing.csv", nil)

	msg := err.Error()
	if msg == "" {
		t.Fatal("expected a message")
	}
	if err.Suggestion == "" {
		t.Error("file-not-found should carry a suggestion")
	}
	if err.Context["path"] != "/tmp/missing.csv" {
		t.Errorf("expected path in context, got %v", err.Context)
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err      *ReconError
		expected int
	}{
		{FileError(CodeFileNotFound, "x", nil), 2},
		{SchemaError(CodeMissingColumn, "x.csv", "Amount"), 3},
		{ParseError(CodeInvalidDate, "x.csv", 4, "Date", "??", nil), 3},
		{ConfigurationError(CodeNoSources, ""), 4},
		{TemplateError(CodeTemplateNotFound, "t", nil), 4},
		{ReportError("out.xlsx", fmt.Errorf("disk full")), 5},
		{InternalError("reconcile", fmt.Errorf("boom")), 5},
	}

	for _, tt := range tests {
		if got := tt.err.ExitCode(); got != tt.expected {
			t.Errorf("%s: exit code %d, expected %d", tt.err.Code, got, tt.expected)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryFile, CodeFileUnreadable, "cannot read")

	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
	if len(err.StackTrace) == 0 {
		t.Error("expected a captured stack trace")
	}
}

func TestIsCategoryAndIsCode(t *testing.T) {
	err := SchemaError(CodeMissingColumn, "x.csv", "Amount")

	if !IsCategory(err, CategorySchema) {
		t.Error("expected schema category")
	}
	if IsCategory(err, CategoryParse) {
		t.Error("did not expect parse category")
	}
	if !IsCode(err, CodeMissingColumn) {
		t.Error("expected missing_column code")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsCode(wrapped, CodeMissingColumn) {
		t.Error("expected code to survive wrapping")
	}

	if IsCode(fmt.Errorf("plain"), CodeMissingColumn) {
		t.Error("plain errors must not match")
	}
}

func TestSummary(t *testing.T) {
	var errs []*ReconError
	for i := 0; i < 8; i++ {
		errs = append(errs, ParseError(CodeInvalidAmount, "x.csv", i, "Amount", "bad", nil))
	}
	errs = append(errs, SchemaError(CodeMissingColumn, "y.csv", "Ref"))

	s := NewSummary(errs)
	if s.Total != 9 {
		t.Errorf("expected 9 errors, got %d", s.Total)
	}
	if s.ByCategory[CategoryParse] != 8 {
		t.Errorf("expected 8 parse errors, got %d", s.ByCategory[CategoryParse])
	}
	if len(s.Samples) != maxSamples {
		t.Errorf("expected %d samples, got %d", maxSamples, len(s.Samples))
	}
	if s.Error() == "" {
		t.Error("expected a non-empty summary message")
	}
}
