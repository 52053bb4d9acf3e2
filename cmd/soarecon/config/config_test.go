package config

import (
	"testing"
	"time"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/reconciler"
	"soa-reconciliation-service/pkg/errors"
)

func TestSourceName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"ledger.csv", "ledger"},
		{"/data/2024/ap_ledger.xlsx", "ap_ledger"},
		{"gl", "gl"},
	}

	for _, tt := range tests {
		if got := SourceName(tt.path); got != tt.expected {
			t.Errorf("SourceName(%q) = %q, expected %q", tt.path, got, tt.expected)
		}
	}
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		raw       string
		source    string
		soaCol    string
		refCol    string
		mode      models.MatchMode
		threshold float64
		wantErr   bool
	}{
		{
			raw:    "ledger:Invoice No=InvoiceNumber",
			source: "ledger", soaCol: "Invoice No", refCol: "InvoiceNumber",
			mode: models.MatchModeExact,
		},
		{
			raw:    "ledger:Invoice No=Inv:fuzzy",
			source: "ledger", soaCol: "Invoice No", refCol: "Inv",
			mode: models.MatchModeFuzzy,
		},
		{
			raw:    "gl:Ref=DocNo:fuzzy:0.9",
			source: "gl", soaCol: "Ref", refCol: "DocNo",
			mode: models.MatchModeFuzzy, threshold: 0.9,
		},
		{raw: "no-equals-sign", wantErr: true},
		{raw: "NoSource=Ref", wantErr: true},
		{raw: "s:A=B:fuzzy:high", wantErr: true},
		{raw: "s:A=B:fuzzy:0.9:extra", wantErr: true},
		{raw: "s:A=B:soundex", wantErr: true},
		{raw: "s:A=B:fuzzy:1.5", wantErr: true},
	}

	for _, tt := range tests {
		source, mapping, err := ParseMapping(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMapping(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMapping(%q): unexpected error: %v", tt.raw, err)
			continue
		}
		if source != tt.source || mapping.SOAColumn != tt.soaCol ||
			mapping.RefColumn != tt.refCol || mapping.Mode != tt.mode ||
			mapping.Threshold != tt.threshold {
			t.Errorf("ParseMapping(%q) = %s %+v", tt.raw, source, mapping)
		}
	}
}

func TestBuildTemplate(t *testing.T) {
	opts := &ReconcileOptions{
		SOAFile:         "soa.xlsx",
		SOADateColumn:   "Invoice Date",
		SOAAmountColumn: "Amount",
		RefFiles:        []string{"/data/ledger.csv", "/data/gl.xlsx"},
		Mappings: []string{
			"ledger:Invoice No=InvoiceNumber",
			"gl:Invoice No=DocNo:fuzzy:0.9",
		},
		RefSheets:  []string{"gl:Postings"},
		RefAmounts: []string{"ledger:Total"},
	}

	tmpl, err := BuildTemplate("monthly", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tmpl.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(tmpl.Sources))
	}
	if tmpl.Sources[0].Name != "ledger" || tmpl.Sources[1].Name != "gl" {
		t.Errorf("sources must keep file order, got %s, %s",
			tmpl.Sources[0].Name, tmpl.Sources[1].Name)
	}
	if tmpl.Sources[0].AmountColumn != "Total" {
		t.Errorf("expected ledger amount column Total, got %q", tmpl.Sources[0].AmountColumn)
	}
	if tmpl.Sources[1].Sheet != "Postings" {
		t.Errorf("expected gl sheet Postings, got %q", tmpl.Sources[1].Sheet)
	}
	if len(tmpl.Sources[1].Mappings) != 1 || tmpl.Sources[1].Mappings[0].Threshold != 0.9 {
		t.Errorf("unexpected gl mappings: %+v", tmpl.Sources[1].Mappings)
	}
}

func TestBuildTemplateUnknownSource(t *testing.T) {
	opts := &ReconcileOptions{
		RefFiles: []string{"ledger.csv"},
		Mappings: []string{"nope:A=B"},
	}

	_, err := BuildTemplate("bad", opts)
	if err == nil {
		t.Fatal("expected an error for a mapping against an unknown source")
	}
	if !errors.IsCategory(err, errors.CategoryConfiguration) {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestBuildTemplateNoMappings(t *testing.T) {
	opts := &ReconcileOptions{RefFiles: []string{"ledger.csv"}}

	_, err := BuildTemplate("bad", opts)
	if !errors.IsCode(err, errors.CodeNoMappings) {
		t.Errorf("expected no_field_mappings, got %v", err)
	}
}

func TestBuildTemplateDuplicateSourceNames(t *testing.T) {
	opts := &ReconcileOptions{
		RefFiles: []string{"/a/ledger.csv", "/b/ledger.csv"},
		Mappings: []string{"ledger:A=B"},
	}

	_, err := BuildTemplate("bad", opts)
	if !errors.IsCode(err, errors.CodeDuplicateMapping) {
		t.Errorf("expected duplicate_mapping, got %v", err)
	}
}

func TestParseRunDate(t *testing.T) {
	anchor, err := ParseRunDate("2024-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !anchor.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected anchor: %v", anchor)
	}

	anchor, err = ParseRunDate("")
	if err != nil || !anchor.IsZero() {
		t.Errorf("empty run date should be zero, got %v, %v", anchor, err)
	}

	if _, err := ParseRunDate("30/06/2024"); err == nil {
		t.Error("expected an error for a non-ISO run date")
	}
}

func TestCreateEngineConfig(t *testing.T) {
	cfg := CreateEngineConfig(0)
	if cfg.Workers != reconciler.DefaultWorkers {
		t.Errorf("expected default workers, got %d", cfg.Workers)
	}

	cfg = CreateEngineConfig(16)
	if cfg.Workers != 16 {
		t.Errorf("expected 16 workers, got %d", cfg.Workers)
	}
}
