package reconciler

import (
	"context"
	"sync"
	"time"

	"soa-reconciliation-service/internal/matcher"
	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/pkg/errors"
	"soa-reconciliation-service/pkg/logger"
)

// Reconcile runs the full pipeline over every SOA record and returns
// one Result per record, in the original SOA order.
//
// The whole configuration is validated first; any schema or mapping
// problem fails the run before a single record is touched. Per-record
// processing is side-effect free and fans out across a bounded worker
// pool, with each worker writing to its record's slot so ordering never
// depends on scheduling.
func (e *Engine) Reconcile(ctx context.Context, request *Request) ([]*models.Result, error) {
	if err := e.validateRequest(request); err != nil {
		return nil, err
	}

	start := time.Now()
	e.logger.WithFields(logger.Fields{
		"soa_records": len(request.SOARecords),
		"sources":     len(request.Sources),
		"workers":     e.config.workers(),
	}).Info("Starting reconciliation run")

	// Index every source once; matchers are read-only afterwards and
	// shared across all workers.
	matchers := make([]*matcher.SourceMatcher, len(request.Sources))
	for i, source := range request.Sources {
		matchers[i] = matcher.NewSourceMatcher(source)
	}

	results := make([]*models.Result, len(request.SOARecords))
	progress := logger.NewProgressTracker("reconcile", int64(len(request.SOARecords)),
		e.config.ProgressInterval, e.logger)

	semaphore := make(chan struct{}, e.config.workers())
	var wg sync.WaitGroup

	for i, record := range request.SOARecords {
		wg.Add(1)
		go func(i int, record *models.Record) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			results[i] = e.processRecord(record, matchers, request)
			progress.Increment()
		}(i, record)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.InternalError("reconciliation", err)
	}

	progress.Complete()
	e.logger.WithFields(logger.Fields{
		"results":  len(results),
		"duration": time.Since(start).String(),
	}).Info("Reconciliation run completed")

	return results, nil
}

// processRecord reconciles a single SOA record. It reads only immutable
// shared data, so records can be processed in any order or in parallel.
func (e *Engine) processRecord(record *models.Record, matchers []*matcher.SourceMatcher, request *Request) *models.Result {
	result := &models.Result{Record: record}

	// Gather evidence from every source in sequence. Evidence from all
	// sources is retained, not short-circuited on the first match:
	// later sources still feed match-source annotation and the
	// ambiguity check.
	for _, sm := range matchers {
		evidence := sm.BestMatch(record)
		result.Evidence = append(result.Evidence, evidence)
		if evidence.Matched() {
			result.MatchSources = append(result.MatchSources, evidence.Source)
		}
	}

	applyAge(result, request)
	result.AmountDifference = amountDifference(result, request)

	ambiguous := isAmbiguous(result, e.config.epsilon())
	result.Category = classify(result, request, ambiguous)

	return result
}
