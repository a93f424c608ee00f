package domain

import "time"

// RunReport summarises a finished run. Per-item failures are counted
// here and detailed in the log; they never fail the run.
type RunReport struct {
	// RunID correlates log lines and metrics of one run.
	RunID string

	Mode       Mode
	StartedAt  time.Time
	FinishedAt time.Time

	// Pages is the number of listing pages fetched successfully.
	Pages int

	// ItemsListed is the number of items returned by the listing.
	ItemsListed int

	// ListingErr is set when the listing stopped early.
	ListingErr error

	// ItemsResolved counts successful detail lookups.
	ItemsResolved int

	// ItemsSkipped counts items whose detail lookup or placement failed.
	// Items resolved with no files are not counted here.
	ItemsSkipped int

	FilesDownloaded int
	FilesFailed     int
	BytesWritten    int64

	// ReportPath is set in report mode.
	ReportPath string
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Complete reports whether the listing finished cleanly and nothing was skipped.
func (r *RunReport) Complete() bool {
	return r.ListingErr == nil && r.ItemsSkipped == 0 && r.FilesFailed == 0
}
