package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EvidenceKind is the outcome of applying one source's mappings to one
// SOA record.
type EvidenceKind string

const (
	EvidenceNoMatch EvidenceKind = "no_match"
	EvidenceExact   EvidenceKind = "exact_match"
	EvidenceFuzzy   EvidenceKind = "fuzzy_match"
)

// MatchEvidence records the outcome for one (SOA record, reference
// source) pair. RefAmount is nil when the source has no amount column
// or the matched cell could not be coerced to a number.
type MatchEvidence struct {
	Source    string
	Kind      EvidenceKind
	Score     float64
	RefRow    int
	RefAmount *decimal.Decimal
}

// Matched reports whether the evidence represents any kind of match.
func (e MatchEvidence) Matched() bool {
	return e.Kind == EvidenceExact || e.Kind == EvidenceFuzzy
}

func (e MatchEvidence) String() string {
	switch e.Kind {
	case EvidenceFuzzy:
		return fmt.Sprintf("%s: fuzzy(%.3f) row %d", e.Source, e.Score, e.RefRow)
	case EvidenceExact:
		return fmt.Sprintf("%s: exact row %d", e.Source, e.RefRow)
	default:
		return fmt.Sprintf("%s: no match", e.Source)
	}
}

// Category is the final classification of a SOA record.
type Category string

const (
	CategoryFullMatch      Category = "FullMatch"
	CategoryPartialMatch   Category = "PartialMatch"
	CategoryUnmatched      Category = "Unmatched"
	CategoryAmbiguousMatch Category = "AmbiguousMatch"
)

// AgeBucket is a discrete day-range category derived from the SOA date
// column. BucketNone marks records without a usable date.
type AgeBucket string

const (
	BucketNone   AgeBucket = ""
	Bucket0to15  AgeBucket = "0-15"
	Bucket16to30 AgeBucket = "16-30"
	Bucket31to60 AgeBucket = "31-60"
	Bucket61to90 AgeBucket = "61-90"
	BucketOver90 AgeBucket = "90+"
)

// AgeBuckets lists the buckets in ascending order, for report layouts.
var AgeBuckets = []AgeBucket{Bucket0to15, Bucket16to30, Bucket31to60, Bucket61to90, BucketOver90}

// BucketForAge maps an age in days to its bucket. Ages below zero can
// occur for post-dated records and land in the first bucket.
func BucketForAge(days int) AgeBucket {
	switch {
	case days <= 15:
		return Bucket0to15
	case days <= 30:
		return Bucket16to30
	case days <= 60:
		return Bucket31to60
	case days <= 90:
		return Bucket61to90
	default:
		return BucketOver90
	}
}

// AgeInDays returns whole days elapsed from the record date to the run
// date, truncating both to midnight UTC first.
func AgeInDays(recordDate, runDate time.Time) int {
	rd := time.Date(recordDate.Year(), recordDate.Month(), recordDate.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(now.Sub(rd).Hours() / 24)
}

// Result is the reconciliation outcome for one SOA record. Exactly one
// Result is produced per input record, in input order.
type Result struct {
	Record *Record

	Category     Category
	MatchSources []string // source names that matched, in sequence order
	Evidence     []MatchEvidence

	AgeDays   *int
	AgeBucket AgeBucket

	// AmountDifference is SOA amount minus the first matched reference
	// amount. Nil means no comparison was possible, which is distinct
	// from an exact zero difference.
	AmountDifference *decimal.Decimal

	// Annotations flag recoverable data problems (unparseable date or
	// amount cells) so reports can mark the record.
	Annotations []string
}

// Matched reports whether any source produced a match.
func (r *Result) Matched() bool {
	return len(r.MatchSources) > 0
}

// Annotate appends a data-quality note to the result.
func (r *Result) Annotate(note string) {
	r.Annotations = append(r.Annotations, note)
}
