package driven

import "time"

// Metrics records run counters. Implementations must be safe for
// concurrent use by sync workers.
type Metrics interface {
	// ListingFetched records a listing walk of pages pages and items items.
	ListingFetched(pages, items int)

	// ItemSkipped records an item dropped for reason, e.g. "detail".
	ItemSkipped(reason string)

	// ItemResolved records a successful detail lookup.
	ItemResolved()

	// FileDownloaded records a transfer outcome.
	FileDownloaded(ok bool, attempts int, bytes int64, elapsed time.Duration)

	// Flush persists the collected metrics, if the backend needs it.
	Flush() error
}
