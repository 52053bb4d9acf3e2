package reconciler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"soa-reconciliation-service/internal/models"
)

// amountDifference computes SOA amount minus the first matched
// reference amount, in source sequence order. A nil return means no
// comparison was possible, which callers must keep distinct from an
// exact zero difference.
func amountDifference(result *models.Result, request *Request) *decimal.Decimal {
	if !request.hasAmountColumn() {
		return nil
	}

	soaAmount, ok := soaAmountOf(result, request)
	if !ok {
		return nil
	}

	for _, evidence := range result.Evidence {
		if !evidence.Matched() || evidence.RefAmount == nil {
			continue
		}
		diff := soaAmount.Sub(*evidence.RefAmount)
		return &diff
	}
	return nil
}

// soaAmountOf extracts the SOA record's amount. Cells that hold data
// but cannot be read as a number are annotated on the result and
// treated as absent rather than failing the run.
func soaAmountOf(result *models.Result, request *Request) (decimal.Decimal, bool) {
	value, ok := result.Record.Get(request.SOAAmountColumn)
	if !ok || value.IsEmpty() {
		return decimal.Zero, false
	}
	amount, ok := value.Amount()
	if !ok {
		result.Annotate(fmt.Sprintf("amount column '%s' is not numeric: '%s'",
			request.SOAAmountColumn, value.Text()))
		return decimal.Zero, false
	}
	return amount, true
}

// isAmbiguous reports whether two or more matched sources returned
// non-null amounts that disagree with each other beyond epsilon.
func isAmbiguous(result *models.Result, epsilon decimal.Decimal) bool {
	var amounts []decimal.Decimal
	for _, evidence := range result.Evidence {
		if evidence.Matched() && evidence.RefAmount != nil {
			amounts = append(amounts, *evidence.RefAmount)
		}
	}
	if len(amounts) < 2 {
		return false
	}

	min, max := amounts[0], amounts[0]
	for _, a := range amounts[1:] {
		if a.LessThan(min) {
			min = a
		}
		if a.GreaterThan(max) {
			max = a
		}
	}
	return max.Sub(min).GreaterThan(epsilon)
}

// applyAge computes the record's age bucket from the SOA date column.
// Age is independent of match outcome; unmatched records still carry
// one. Unparseable dates annotate the record and yield no bucket.
func applyAge(result *models.Result, request *Request) {
	if !request.hasDateColumn() {
		return
	}

	value, ok := result.Record.Get(request.SOADateColumn)
	if !ok || value.IsEmpty() {
		return
	}

	date, ok := value.Time()
	if !ok {
		result.Annotate(fmt.Sprintf("date column '%s' is not a recognized date: '%s'",
			request.SOADateColumn, value.Text()))
		return
	}

	days := models.AgeInDays(date, request.runDate())
	result.AgeDays = &days
	result.AgeBucket = models.BucketForAge(days)
}
