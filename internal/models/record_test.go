package models

import (
	"testing"
)

func TestNewRecordFillsMissingColumns(t *testing.T) {
	columns := []string{"Invoice", "Amount", "Date"}
	record := NewRecord("soa", 0, columns, map[string]Value{
		"Invoice": StringValue("INV-001"),
	})

	value, ok := record.Get("Amount")
	if !ok {
		t.Fatal("expected Amount column to exist")
	}
	if !value.IsEmpty() {
		t.Error("unsupplied column should hold the empty value")
	}
}

func TestRecordIgnoresUnknownValues(t *testing.T) {
	record := NewRecord("soa", 0, []string{"Invoice"}, map[string]Value{
		"Invoice": StringValue("INV-001"),
		"Extra":   StringValue("dropped"),
	})

	if record.HasColumn("Extra") {
		t.Error("values outside the column list must be ignored")
	}
}

func TestRecordColumnsCopied(t *testing.T) {
	columns := []string{"A", "B"}
	record := NewRecord("soa", 3, columns, nil)

	columns[0] = "mutated"
	if record.Columns()[0] != "A" {
		t.Error("record must not share the caller's column slice")
	}

	got := record.Columns()
	got[1] = "mutated"
	if record.Columns()[1] != "B" {
		t.Error("Columns() must return a copy")
	}

	if record.Source() != "soa" || record.Row() != 3 {
		t.Errorf("unexpected identity: %s row %d", record.Source(), record.Row())
	}
}
