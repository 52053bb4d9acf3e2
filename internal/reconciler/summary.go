package reconciler

import (
	"time"

	"soa-reconciliation-service/internal/models"
)

// Summary aggregates a run's results for reporting.
type Summary struct {
	TotalRecords int           `json:"total_records"`
	Duration     time.Duration `json:"duration_ns,omitempty"`

	FullMatches      int `json:"full_matches"`
	PartialMatches   int `json:"partial_matches"`
	Unmatched        int `json:"unmatched"`
	AmbiguousMatches int `json:"ambiguous_matches"`

	FlaggedRecords int `json:"flagged_records"` // records with data annotations

	ByBucket map[models.AgeBucket]int `json:"by_bucket"`
	BySource map[string]int           `json:"by_source"` // matches contributed per source
}

// Summarize tallies results into a Summary.
func Summarize(results []*models.Result) *Summary {
	s := &Summary{
		TotalRecords: len(results),
		ByBucket:     make(map[models.AgeBucket]int),
		BySource:     make(map[string]int),
	}

	for _, r := range results {
		switch r.Category {
		case models.CategoryFullMatch:
			s.FullMatches++
		case models.CategoryPartialMatch:
			s.PartialMatches++
		case models.CategoryAmbiguousMatch:
			s.AmbiguousMatches++
		default:
			s.Unmatched++
		}

		if len(r.Annotations) > 0 {
			s.FlaggedRecords++
		}
		if r.AgeBucket != models.BucketNone {
			s.ByBucket[r.AgeBucket]++
		}
		for _, source := range r.MatchSources {
			s.BySource[source]++
		}
	}

	return s
}

// MatchRate returns the fraction of records with at least one match.
func (s *Summary) MatchRate() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	matched := s.TotalRecords - s.Unmatched
	return float64(matched) / float64(s.TotalRecords)
}
