package reporter

import (
	"fmt"
	"io"
	"strings"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/internal/reconciler"
)

// WriteConsole prints a human-readable run summary.
func (r *Reporter) WriteConsole(w io.Writer, summary *reconciler.Summary) error {
	line := strings.Repeat("=", 52)

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "SOA RECONCILIATION SUMMARY")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Run ID:        %s\n", r.runID)
	fmt.Fprintf(w, "Generated:     %s\n", r.generatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(w, "Total records: %d\n", summary.TotalRecords)
	if summary.Duration > 0 {
		fmt.Fprintf(w, "Duration:      %s\n", summary.Duration)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By category:")
	fmt.Fprintf(w, "  Full matches:      %6d\n", summary.FullMatches)
	fmt.Fprintf(w, "  Partial matches:   %6d\n", summary.PartialMatches)
	fmt.Fprintf(w, "  Ambiguous matches: %6d\n", summary.AmbiguousMatches)
	fmt.Fprintf(w, "  Unmatched:         %6d\n", summary.Unmatched)
	fmt.Fprintf(w, "  Match rate:        %6.1f%%\n", summary.MatchRate()*100)
	fmt.Fprintln(w)

	if len(summary.ByBucket) > 0 {
		fmt.Fprintln(w, "By age bucket:")
		for _, bucket := range models.AgeBuckets {
			if count, ok := summary.ByBucket[bucket]; ok {
				fmt.Fprintf(w, "  %-6s %6d\n", bucket, count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(summary.BySource) > 0 {
		fmt.Fprintln(w, "Matches by source:")
		for _, source := range sortedKeys(summary.BySource) {
			fmt.Fprintf(w, "  %-24s %6d\n", source, summary.BySource[source])
		}
		fmt.Fprintln(w)
	}

	if summary.FlaggedRecords > 0 {
		fmt.Fprintf(w, "Records with data notes: %d\n", summary.FlaggedRecords)
	}
	fmt.Fprintln(w, line)
	return nil
}
