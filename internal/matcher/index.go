package matcher

import (
	"github.com/shopspring/decimal"

	"soa-reconciliation-service/internal/models"
)

// SourceMatcher evaluates one reference source against SOA records.
// It prebuilds a normalized-key index for each exact-mode mapping so
// exact lookups avoid a full scan; fuzzy mappings always scan.
//
// SourceMatcher is read-only after construction and safe to share
// across reconciliation workers.
type SourceMatcher struct {
	source *models.ReferenceSource

	// exactIndex[i] maps normalized reference key -> ascending row
	// indexes, for mapping i when it is exact-mode; nil otherwise.
	exactIndex []map[string][]int
}

// NewSourceMatcher builds the matcher and its indexes for one source.
func NewSourceMatcher(source *models.ReferenceSource) *SourceMatcher {
	sm := &SourceMatcher{
		source:     source,
		exactIndex: make([]map[string][]int, len(source.Mappings)),
	}

	for i, mapping := range source.Mappings {
		if mapping.Mode != models.MatchModeExact {
			continue
		}
		index := make(map[string][]int)
		for row, record := range source.Records {
			value, ok := record.Get(mapping.RefColumn)
			if !ok || value.IsEmpty() {
				continue
			}
			key := NormalizeKey(value.Text())
			index[key] = append(index[key], row)
		}
		sm.exactIndex[i] = index
	}

	return sm
}

// Source returns the wrapped reference source.
func (sm *SourceMatcher) Source() *models.ReferenceSource {
	return sm.source
}

// BestMatch applies every field mapping of the source conjunctively to
// the SOA record and returns the evidence for the single best reference
// record. The best candidate is the one with the highest combined
// score; equal top scores resolve to the lowest reference row index, so
// identical inputs always produce identical output.
func (sm *SourceMatcher) BestMatch(soa *models.Record) models.MatchEvidence {
	evidence := models.MatchEvidence{
		Source: sm.source.Name,
		Kind:   models.EvidenceNoMatch,
		RefRow: -1,
	}

	if len(sm.source.Mappings) == 0 || len(sm.source.Records) == 0 {
		return evidence
	}

	bestScore := -1.0
	bestRow := -1
	bestExact := false

	for _, row := range sm.candidateRows(soa) {
		record := sm.source.Records[row]
		score, exact, ok := sm.scoreCandidate(soa, record)
		if !ok {
			continue
		}
		// Strict improvement only: equal scores keep the earlier row.
		if score > bestScore {
			bestScore = score
			bestRow = row
			bestExact = exact
		}
	}

	if bestRow < 0 {
		return evidence
	}

	if bestExact {
		evidence.Kind = models.EvidenceExact
	} else {
		evidence.Kind = models.EvidenceFuzzy
	}
	evidence.Score = bestScore
	evidence.RefRow = bestRow
	evidence.RefAmount = sm.referenceAmount(sm.source.Records[bestRow])

	return evidence
}

// candidateRows narrows the rows worth scoring. When at least one
// exact-mode mapping exists its index pins the candidate set; otherwise
// every row is a candidate. Rows are returned in ascending order.
func (sm *SourceMatcher) candidateRows(soa *models.Record) []int {
	for i, mapping := range sm.source.Mappings {
		if sm.exactIndex[i] == nil {
			continue
		}
		value, ok := soa.Get(mapping.SOAColumn)
		if !ok || value.IsEmpty() {
			return nil // empty key can never satisfy the conjunction
		}
		return sm.exactIndex[i][NormalizeKey(value.Text())]
	}

	rows := make([]int, len(sm.source.Records))
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// scoreCandidate evaluates all mappings against one reference record.
// Every mapping must match for the candidate to count. The combined
// score is the weakest mapping score; the candidate is exact only if
// every mapping compared equal after normalization. A fuzzy-mode
// mapping whose two sides normalize identically counts as exact, so a
// threshold of 1.0 behaves exactly like exact mode.
func (sm *SourceMatcher) scoreCandidate(soa, ref *models.Record) (score float64, exact bool, ok bool) {
	score = 1.0
	exact = true

	for _, mapping := range sm.source.Mappings {
		soaValue, found := soa.Get(mapping.SOAColumn)
		if !found || soaValue.IsEmpty() {
			return 0, false, false
		}
		refValue, found := ref.Get(mapping.RefColumn)
		if !found || refValue.IsEmpty() {
			return 0, false, false
		}

		switch mapping.Mode {
		case models.MatchModeExact:
			if !Exact(soaValue.Text(), refValue.Text()) {
				return 0, false, false
			}
		case models.MatchModeFuzzy:
			matched, s := Fuzzy(soaValue.Text(), refValue.Text(), mapping.EffectiveThreshold())
			if !matched {
				return 0, false, false
			}
			if s < 1.0 {
				exact = false
			}
			if s < score {
				score = s
			}
		default:
			return 0, false, false
		}
	}

	return score, exact, true
}

// referenceAmount extracts the matched record's amount, when the source
// designates an amount column and the cell is numeric.
func (sm *SourceMatcher) referenceAmount(ref *models.Record) *decimal.Decimal {
	if !sm.source.HasAmountColumn() {
		return nil
	}
	value, ok := ref.Get(sm.source.AmountColumn)
	if !ok {
		return nil
	}
	amount, ok := value.Amount()
	if !ok {
		return nil
	}
	return &amount
}
