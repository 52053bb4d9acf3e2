// Package reconciler drives the reconciliation pipeline: for every SOA
// record it gathers match evidence from each configured reference
// source, derives amount variance and age, and classifies the record
// into a discrepancy category.
//
// The engine is a batch map over SOA records. Reference data is loaded
// once, treated as immutable and shared read-only across workers, so
// per-record work runs concurrently with no coordination beyond the
// final ordered collection.
package reconciler

import (
	"time"

	"github.com/shopspring/decimal"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/pkg/logger"
)

// DefaultAmbiguityEpsilon is the tolerance under which two reference
// amounts are considered to agree.
const DefaultAmbiguityEpsilon = "0.01"

// Config holds engine tuning knobs.
type Config struct {
	// Workers bounds the number of concurrent record workers. Zero or
	// negative means DefaultWorkers.
	Workers int

	// AmbiguityEpsilon is the maximum difference between two matched
	// reference amounts before the record is flagged ambiguous. Zero
	// means the default of 0.01.
	AmbiguityEpsilon decimal.Decimal

	// ProgressInterval throttles progress logging. Zero means the
	// logger default.
	ProgressInterval time.Duration
}

// DefaultWorkers bounds concurrency when the caller does not.
const DefaultWorkers = 4

// DefaultConfig returns the engine configuration used when none is
// supplied.
func DefaultConfig() *Config {
	return &Config{
		Workers:          DefaultWorkers,
		AmbiguityEpsilon: decimal.RequireFromString(DefaultAmbiguityEpsilon),
	}
}

func (c *Config) workers() int {
	if c.Workers <= 0 {
		return DefaultWorkers
	}
	return c.Workers
}

func (c *Config) epsilon() decimal.Decimal {
	if c.AmbiguityEpsilon.IsZero() {
		return decimal.RequireFromString(DefaultAmbiguityEpsilon)
	}
	return c.AmbiguityEpsilon
}

// Request carries everything one reconciliation run needs. All state is
// explicit; the engine keeps no configuration between runs.
type Request struct {
	// SOAColumns is the SOA file's header, used for validation even
	// when the record set is empty.
	SOAColumns []string

	// SOARecords are the records to reconcile, in file order. Output
	// preserves this order.
	SOARecords []*models.Record

	// Sources are the reference sources in their user-defined
	// processing sequence.
	Sources []*models.ReferenceSource

	// SOADateColumn designates the SOA column used for age bucketing.
	// Empty disables age computation.
	SOADateColumn string

	// SOAAmountColumn designates the SOA column used for variance.
	// Empty disables amount comparison.
	SOAAmountColumn string

	// RunDate anchors age computation. Zero means time.Now().
	RunDate time.Time
}

func (r *Request) runDate() time.Time {
	if r.RunDate.IsZero() {
		return time.Now()
	}
	return r.RunDate
}

func (r *Request) hasAmountColumn() bool {
	return r.SOAAmountColumn != ""
}

func (r *Request) hasDateColumn() bool {
	return r.SOADateColumn != ""
}

// Engine reconciles SOA records against reference sources.
type Engine struct {
	config *Config
	logger logger.Logger
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("reconciler"),
	}
}
