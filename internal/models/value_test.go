package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"100.50", "100.5", false},
		{"$1,234.56", "1234.56", false},
		{"-250.00", "-250", false},
		{"  42  ", "42", false},
		{"0", "0", false},
		{"", "", true},
		{"abc", "", true},
		{"12.34.56", "", true},
	}

	for _, tt := range tests {
		result, err := ParseAmount(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %s", tt.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error: %v", tt.input, err)
			continue
		}
		expected := decimal.RequireFromString(tt.expected)
		if !result.Equal(expected) {
			t.Errorf("ParseAmount(%q) = %s, expected %s", tt.input, result, expected)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), false},
		{"Jan 2, 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"not-a-date", time.Time{}, true},
	}

	for _, tt := range tests {
		result, err := ParseDate(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error, got %v", tt.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !result.Equal(tt.expected) {
			t.Errorf("ParseDate(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestParseDateDayFirst(t *testing.T) {
	// Slash dates are read day-first when both readings are possible.
	result, err := ParseDate("03/04/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("ParseDate(03/04/2024) = %v, expected %v", result, expected)
	}
}

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		input    string
		expected ValueKind
	}{
		{"", KindEmpty},
		{"   ", KindEmpty},
		{"100.50", KindNumber},
		{"$1,234.56", KindNumber},
		{"2024-01-15", KindDate},
		{"INV-001", KindString},
		{"'00123", KindString},
	}

	for _, tt := range tests {
		value := CoerceCell(tt.input)
		if value.Kind != tt.expected {
			t.Errorf("CoerceCell(%q).Kind = %s, expected %s", tt.input, value.Kind, tt.expected)
		}
	}
}

func TestCoerceCellKeepsRawText(t *testing.T) {
	value := CoerceCell("$1,234.56")
	if value.Text() != "$1,234.56" {
		t.Errorf("expected raw text to be preserved, got %q", value.Text())
	}

	amount, ok := value.Amount()
	if !ok {
		t.Fatal("expected a numeric value")
	}
	if !amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("expected 1234.56, got %s", amount)
	}
}

func TestEmptyValueDistinctFromEmptyString(t *testing.T) {
	empty := EmptyValue()
	blank := StringValue("")

	if !empty.IsEmpty() {
		t.Error("EmptyValue should report empty")
	}
	if blank.IsEmpty() {
		t.Error("a string value must never report empty, even when blank")
	}
}

func TestValueAccessorsRejectWrongKind(t *testing.T) {
	s := StringValue("hello")
	if _, ok := s.Amount(); ok {
		t.Error("string value should not yield an amount")
	}
	if _, ok := s.Time(); ok {
		t.Error("string value should not yield a time")
	}
}
