package reconciler

import (
	"soa-reconciliation-service/internal/models"
)

// classify assigns the final discrepancy category once all evidence and
// variance facts are in. Precedence is Ambiguous > Partial > Full >
// Unmatched, evaluated in that order so conflicting amounts are never
// hidden behind a nominal full match.
func classify(result *models.Result, request *Request, ambiguous bool) models.Category {
	if ambiguous {
		return models.CategoryAmbiguousMatch
	}

	hasExact := false
	hasMatch := false
	for _, evidence := range result.Evidence {
		switch evidence.Kind {
		case models.EvidenceExact:
			hasExact = true
			hasMatch = true
		case models.EvidenceFuzzy:
			hasMatch = true
		}
	}

	if !hasMatch {
		return models.CategoryUnmatched
	}

	if hasExact && amountAgrees(result, request) {
		return models.CategoryFullMatch
	}
	return models.CategoryPartialMatch
}

// amountAgrees reports whether the amount condition for a full match
// holds: either no amount column is configured, or the computed
// difference is exactly zero. A nil difference means no comparison was
// possible and is not agreement.
func amountAgrees(result *models.Result, request *Request) bool {
	if !request.hasAmountColumn() {
		return true
	}
	return result.AmountDifference != nil && result.AmountDifference.IsZero()
}
