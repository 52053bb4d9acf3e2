package models

import (
	"fmt"
	"strings"
)

// MatchMode selects how a field mapping compares key values.
type MatchMode string

const (
	// MatchModeExact requires normalized string equality.
	MatchModeExact MatchMode = "exact"
	// MatchModeFuzzy accepts similarity at or above the mapping threshold.
	MatchModeFuzzy MatchMode = "fuzzy"
)

// IsValid reports whether the mode is a known value.
func (m MatchMode) IsValid() bool {
	return m == MatchModeExact || m == MatchModeFuzzy
}

// DefaultFuzzyThreshold applies when a fuzzy mapping does not set one.
const DefaultFuzzyThreshold = 0.85

// FieldMapping binds one SOA column to one reference column with a
// match mode. Threshold is only meaningful in fuzzy mode; zero means
// "use the default".
type FieldMapping struct {
	SOAColumn string    `yaml:"soa_column" json:"soa_column"`
	RefColumn string    `yaml:"ref_column" json:"ref_column"`
	Mode      MatchMode `yaml:"mode" json:"mode"`
	Threshold float64   `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// EffectiveThreshold returns the configured threshold or the default.
func (fm FieldMapping) EffectiveThreshold() float64 {
	if fm.Threshold == 0 {
		return DefaultFuzzyThreshold
	}
	return fm.Threshold
}

// Validate checks the mapping in isolation. Column existence against
// actual file headers is checked by the orchestrator.
func (fm FieldMapping) Validate() error {
	if strings.TrimSpace(fm.SOAColumn) == "" {
		return fmt.Errorf("mapping SOA column cannot be empty")
	}
	if strings.TrimSpace(fm.RefColumn) == "" {
		return fmt.Errorf("mapping reference column cannot be empty")
	}
	if !fm.Mode.IsValid() {
		return fmt.Errorf("invalid match mode: %s", fm.Mode)
	}
	if fm.Threshold < 0 || fm.Threshold > 1 {
		return fmt.Errorf("threshold %.2f out of range [0,1]", fm.Threshold)
	}
	return nil
}

func (fm FieldMapping) String() string {
	if fm.Mode == MatchModeFuzzy {
		return fmt.Sprintf("%s->%s (fuzzy %.2f)", fm.SOAColumn, fm.RefColumn, fm.EffectiveThreshold())
	}
	return fmt.Sprintf("%s->%s (exact)", fm.SOAColumn, fm.RefColumn)
}

// ReferenceSource is one reference file with its matching rules. The
// engine processes sources in the order the caller supplies them; that
// order decides match-source annotation and variance tie-breaking.
type ReferenceSource struct {
	Name         string
	Columns      []string // header columns, kept even when Records is empty
	Records      []*Record
	Mappings     []FieldMapping
	DateColumn   string
	AmountColumn string
}

// HasColumn reports whether the source's header carries the column.
func (rs *ReferenceSource) HasColumn(column string) bool {
	for _, c := range rs.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// HasAmountColumn reports whether an amount column is designated.
func (rs *ReferenceSource) HasAmountColumn() bool {
	return strings.TrimSpace(rs.AmountColumn) != ""
}
