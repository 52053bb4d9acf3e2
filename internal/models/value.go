package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind discriminates the coerced type of a cell value.
type ValueKind int

const (
	// KindEmpty marks a cell with no data. Distinct from an empty string
	// so matching never treats "no data" as a match on "".
	KindEmpty ValueKind = iota
	KindString
	KindNumber
	KindDate
)

// String returns the name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a single coerced cell. The raw text form is always retained
// for matching and report rendering.
type Value struct {
	Kind ValueKind
	Raw  string
	Num  decimal.Decimal
	Date time.Time
}

// EmptyValue returns the canonical empty value.
func EmptyValue() Value {
	return Value{Kind: KindEmpty}
}

// StringValue builds a string-kinded value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Raw: s}
}

// NumberValue builds a number-kinded value keeping its raw text form.
func NumberValue(raw string, d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Raw: raw, Num: d}
}

// DateValue builds a date-kinded value keeping its raw text form.
func DateValue(raw string, t time.Time) Value {
	return Value{Kind: KindDate, Raw: raw, Date: t}
}

// IsEmpty reports whether the cell held no data.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// Text returns the raw text form used for key matching.
func (v Value) Text() string {
	return v.Raw
}

// Amount returns the value as a decimal if it is numeric.
func (v Value) Amount() (decimal.Decimal, bool) {
	if v.Kind != KindNumber {
		return decimal.Zero, false
	}
	return v.Num, true
}

// Time returns the value as a time if it is a date.
func (v Value) Time() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.Date, true
}

func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return "<empty>"
	case KindNumber:
		return v.Num.String()
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Raw
	}
}

// ParseAmount parses a decimal amount from raw cell text. Currency
// symbols and thousand separators are stripped first.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}
	return d, nil
}

// dateFormats lists the formats tried when coercing date cells, most
// specific first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a date from raw cell text using the supported formats.
// Day-first formats are tried before month-first, matching the source
// spreadsheets this tool is fed.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	var lastErr error
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// CoerceCell converts raw cell text into a typed Value. Empty text
// becomes KindEmpty; numeric text becomes KindNumber; recognizable dates
// become KindDate; everything else stays a string.
func CoerceCell(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EmptyValue()
	}
	if d, err := ParseAmount(trimmed); err == nil {
		return NumberValue(trimmed, d)
	}
	if t, err := ParseDate(trimmed); err == nil {
		return DateValue(trimmed, t)
	}
	return StringValue(trimmed)
}
