package importer

import "time"

// buildReport folds per-row outcomes into the final report. Outcomes are
// index-stable: outcome i always describes row i of the parsed input, so
// partial and cancelled runs still produce a complete, ordered report.
func buildReport(runID, fileName string, outcomes []RowOutcome, elapsed time.Duration) ImportReport {
	report := ImportReport{
		RunID:      runID,
		FileName:   fileName,
		TotalRows:  len(outcomes),
		Outcomes:   outcomes,
		Duration:   elapsed,
		DurationMs: elapsed.Milliseconds(),
	}

	for _, o := range outcomes {
		switch o.Status {
		case RowSucceeded:
			report.Succeeded++
		case RowFailed:
			report.Failed++
		case RowNotAttempted:
			report.NotAttempted++
		}
	}
	return report
}
