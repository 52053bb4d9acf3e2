package reconciler

import (
	"fmt"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/pkg/errors"
)

// validateRequest checks the whole configuration before any record is
// processed. A failure here aborts the run atomically; partial results
// are never produced for an invalid configuration.
func (e *Engine) validateRequest(request *Request) error {
	if request == nil {
		return errors.ConfigurationError(errors.CodeUnexpected, "request is nil")
	}
	if len(request.Sources) == 0 {
		return errors.ConfigurationError(errors.CodeNoSources, "")
	}

	soaColumns := make(map[string]struct{}, len(request.SOAColumns))
	for _, c := range request.SOAColumns {
		soaColumns[c] = struct{}{}
	}

	if request.hasDateColumn() {
		if _, ok := soaColumns[request.SOADateColumn]; !ok {
			return errors.SchemaError(errors.CodeMissingColumn, "SOA", request.SOADateColumn)
		}
	}
	if request.hasAmountColumn() {
		if _, ok := soaColumns[request.SOAAmountColumn]; !ok {
			return errors.SchemaError(errors.CodeMissingColumn, "SOA", request.SOAAmountColumn)
		}
	}

	seenNames := make(map[string]struct{}, len(request.Sources))
	for _, source := range request.Sources {
		if source.Name == "" {
			return errors.ConfigurationError(errors.CodeUnexpected, "reference source with empty name")
		}
		if _, dup := seenNames[source.Name]; dup {
			return errors.ConfigurationError(errors.CodeDuplicateMapping,
				fmt.Sprintf("reference source name '%s' used twice", source.Name))
		}
		seenNames[source.Name] = struct{}{}

		if err := e.validateSource(source, soaColumns); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) validateSource(source *models.ReferenceSource, soaColumns map[string]struct{}) error {
	if len(source.Mappings) == 0 {
		return errors.ConfigurationError(errors.CodeNoMappings, source.Name)
	}

	// At most one active mapping per (SOA column, reference file) pair.
	seenSOAColumns := make(map[string]struct{}, len(source.Mappings))

	for _, mapping := range source.Mappings {
		if err := mapping.Validate(); err != nil {
			if mapping.Threshold < 0 || mapping.Threshold > 1 {
				return errors.ConfigurationError(errors.CodeInvalidThreshold,
					fmt.Sprintf("%s: %v", source.Name, err))
			}
			return errors.ConfigurationError(errors.CodeUnexpected,
				fmt.Sprintf("%s: %v", source.Name, err))
		}

		if _, dup := seenSOAColumns[mapping.SOAColumn]; dup {
			return errors.ConfigurationError(errors.CodeDuplicateMapping,
				fmt.Sprintf("SOA column '%s' mapped twice for source '%s'", mapping.SOAColumn, source.Name))
		}
		seenSOAColumns[mapping.SOAColumn] = struct{}{}

		if _, ok := soaColumns[mapping.SOAColumn]; !ok {
			return errors.ConfigurationError(errors.CodeUnknownColumn,
				fmt.Sprintf("SOA column '%s' (source '%s')", mapping.SOAColumn, source.Name))
		}
		if !source.HasColumn(mapping.RefColumn) {
			return errors.ConfigurationError(errors.CodeUnknownColumn,
				fmt.Sprintf("reference column '%s' (source '%s')", mapping.RefColumn, source.Name))
		}
	}

	if source.HasAmountColumn() && !source.HasColumn(source.AmountColumn) {
		return errors.SchemaError(errors.CodeMissingColumn, source.Name, source.AmountColumn)
	}
	if source.DateColumn != "" && !source.HasColumn(source.DateColumn) {
		return errors.SchemaError(errors.CodeMissingColumn, source.Name, source.DateColumn)
	}

	return nil
}
