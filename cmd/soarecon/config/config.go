// Package config translates CLI flags and saved templates into the
// explicit structs the engine consumes.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/parsers"
	"soa-reconciliation-service/internal/reconciler"
	"soa-reconciliation-service/internal/templates"
	"soa-reconciliation-service/pkg/errors"
)

// ReconcileOptions collects the reconcile command's flag values before
// they are shaped into a template and a request.
type ReconcileOptions struct {
	SOAFile         string
	SOASheet        string
	SOADateColumn   string
	SOAAmountColumn string

	RefFiles   []string // ordered; sequence is the processing sequence
	Mappings   []string // raw --map values
	RefSheets  []string // raw SOURCE:SHEET values
	RefDates   []string // raw SOURCE:COLUMN values
	RefAmounts []string // raw SOURCE:COLUMN values
}

// SourceName derives a reference source's name from its file path, the
// same way bank files are named in multi-file reconciliations: the base
// filename without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseMapping parses one --map flag of the form
// SOURCE:SOA_COL=REF_COL[:MODE[:THRESHOLD]]. MODE defaults to exact.
func ParseMapping(raw string) (string, models.FieldMapping, error) {
	var mapping models.FieldMapping

	eq := strings.Index(raw, "=")
	if eq < 0 {
		return "", mapping, fmt.Errorf("mapping '%s' must contain '='", raw)
	}

	left, right := raw[:eq], raw[eq+1:]
	colon := strings.Index(left, ":")
	if colon < 0 {
		return "", mapping, fmt.Errorf("mapping '%s' must start with SOURCE:", raw)
	}
	source := strings.TrimSpace(left[:colon])
	mapping.SOAColumn = strings.TrimSpace(left[colon+1:])

	parts := strings.Split(right, ":")
	mapping.RefColumn = strings.TrimSpace(parts[0])
	mapping.Mode = models.MatchModeExact

	if len(parts) > 1 && parts[1] != "" {
		mapping.Mode = models.MatchMode(strings.ToLower(strings.TrimSpace(parts[1])))
	}
	if len(parts) > 2 {
		threshold, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return "", mapping, fmt.Errorf("mapping '%s' has invalid threshold: %w", raw, err)
		}
		mapping.Threshold = threshold
	}
	if len(parts) > 3 {
		return "", mapping, fmt.Errorf("mapping '%s' has too many segments", raw)
	}

	if err := mapping.Validate(); err != nil {
		return "", mapping, fmt.Errorf("mapping '%s': %w", raw, err)
	}
	return source, mapping, nil
}

// parsePair parses a SOURCE:VALUE flag.
func parsePair(raw, flag string) (string, string, error) {
	colon := strings.Index(raw, ":")
	if colon < 0 {
		return "", "", fmt.Errorf("%s '%s' must be SOURCE:VALUE", flag, raw)
	}
	return strings.TrimSpace(raw[:colon]), strings.TrimSpace(raw[colon+1:]), nil
}

// BuildTemplate shapes flag values into a template, the single
// configuration form shared by fresh runs and saved templates.
func BuildTemplate(name string, opts *ReconcileOptions) (*templates.Template, error) {
	t := &templates.Template{
		Name:            name,
		SOAFile:         opts.SOAFile,
		SOASheet:        opts.SOASheet,
		SOADateColumn:   opts.SOADateColumn,
		SOAAmountColumn: opts.SOAAmountColumn,
	}

	byName := make(map[string]*templates.SourceConfig, len(opts.RefFiles))
	for _, file := range opts.RefFiles {
		source := &templates.SourceConfig{Name: SourceName(file), File: file}
		if _, dup := byName[source.Name]; dup {
			return nil, errors.ConfigurationError(errors.CodeDuplicateMapping,
				fmt.Sprintf("two reference files share the name '%s'", source.Name))
		}
		byName[source.Name] = source
		t.Sources = append(t.Sources, *source)
	}

	lookup := func(name, flag string) (*templates.SourceConfig, error) {
		for i := range t.Sources {
			if t.Sources[i].Name == name {
				return &t.Sources[i], nil
			}
		}
		return nil, errors.ConfigurationError(errors.CodeUnknownColumn,
			fmt.Sprintf("%s references unknown source '%s'", flag, name))
	}

	for _, raw := range opts.Mappings {
		name, mapping, err := ParseMapping(raw)
		if err != nil {
			return nil, errors.ConfigurationError(errors.CodeUnknownColumn, err.Error())
		}
		source, err := lookup(name, "--map")
		if err != nil {
			return nil, err
		}
		source.Mappings = append(source.Mappings, mapping)
	}

	for _, raw := range opts.RefSheets {
		name, sheet, err := parsePair(raw, "--ref-sheet")
		if err != nil {
			return nil, errors.ConfigurationError(errors.CodeUnknownColumn, err.Error())
		}
		source, err := lookup(name, "--ref-sheet")
		if err != nil {
			return nil, err
		}
		source.Sheet = sheet
	}

	for _, raw := range opts.RefDates {
		name, column, err := parsePair(raw, "--ref-date-column")
		if err != nil {
			return nil, errors.ConfigurationError(errors.CodeUnknownColumn, err.Error())
		}
		source, err := lookup(name, "--ref-date-column")
		if err != nil {
			return nil, err
		}
		source.DateColumn = column
	}

	for _, raw := range opts.RefAmounts {
		name, column, err := parsePair(raw, "--ref-amount-column")
		if err != nil {
			return nil, errors.ConfigurationError(errors.CodeUnknownColumn, err.Error())
		}
		source, err := lookup(name, "--ref-amount-column")
		if err != nil {
			return nil, err
		}
		source.AmountColumn = column
	}

	if err := t.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeNoMappings, err.Error())
	}
	return t, nil
}

// BuildRequest loads every file named by the template and assembles the
// engine request. SOA file and sheet can be overridden so a saved
// template can be replayed against a fresh statement.
func BuildRequest(t *templates.Template, soaFile, soaSheet string) (*reconciler.Request, error) {
	if soaFile == "" {
		soaFile = t.SOAFile
	}
	if soaSheet == "" {
		soaSheet = t.SOASheet
	}
	if soaFile == "" {
		return nil, errors.ConfigurationError(errors.CodeNoSources,
			"no SOA file given and the template does not name one")
	}

	soaRequired := requiredSOAColumns(t)
	soaLoader := parsers.NewRecordLoader(&parsers.LoaderConfig{
		Delimiter:     ',',
		SheetName:     soaSheet,
		SkipEmptyRows: true,
	})
	soaRecords, soaStats, err := soaLoader.LoadRecords(soaFile, "soa", soaRequired)
	if err != nil {
		return nil, err
	}

	request := &reconciler.Request{
		SOAColumns:      soaStats.Columns,
		SOARecords:      soaRecords,
		SOADateColumn:   t.SOADateColumn,
		SOAAmountColumn: t.SOAAmountColumn,
	}

	for _, sc := range t.Sources {
		loader := parsers.NewRecordLoader(&parsers.LoaderConfig{
			Delimiter:     ',',
			SheetName:     sc.Sheet,
			SkipEmptyRows: true,
		})
		records, stats, err := loader.LoadRecords(sc.File, sc.Name, requiredRefColumns(sc))
		if err != nil {
			return nil, err
		}
		request.Sources = append(request.Sources, &models.ReferenceSource{
			Name:         sc.Name,
			Columns:      stats.Columns,
			Records:      records,
			Mappings:     sc.Mappings,
			DateColumn:   sc.DateColumn,
			AmountColumn: sc.AmountColumn,
		})
	}

	return request, nil
}

// requiredSOAColumns collects every SOA column the configuration touches.
func requiredSOAColumns(t *templates.Template) []string {
	seen := make(map[string]struct{})
	var required []string
	add := func(column string) {
		if column == "" {
			return
		}
		if _, ok := seen[column]; ok {
			return
		}
		seen[column] = struct{}{}
		required = append(required, column)
	}

	for _, sc := range t.Sources {
		for _, mapping := range sc.Mappings {
			add(mapping.SOAColumn)
		}
	}
	add(t.SOADateColumn)
	add(t.SOAAmountColumn)
	return required
}

// requiredRefColumns collects every reference column a source's
// configuration touches.
func requiredRefColumns(sc templates.SourceConfig) []string {
	seen := make(map[string]struct{})
	var required []string
	add := func(column string) {
		if column == "" {
			return
		}
		if _, ok := seen[column]; ok {
			return
		}
		seen[column] = struct{}{}
		required = append(required, column)
	}

	for _, mapping := range sc.Mappings {
		add(mapping.RefColumn)
	}
	add(sc.DateColumn)
	add(sc.AmountColumn)
	return required
}

// ParseRunDate parses the --run-date flag. Empty means today.
func ParseRunDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid run date '%s', use YYYY-MM-DD: %w", raw, err)
	}
	return t, nil
}

// CreateEngineConfig builds the engine configuration from flag values.
func CreateEngineConfig(workers int) *reconciler.Config {
	cfg := reconciler.DefaultConfig()
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg
}
