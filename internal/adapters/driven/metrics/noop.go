package metrics

import (
	"time"

	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
)

// Ensure Noop implements the interface.
var _ driven.Metrics = Noop{}

// Noop is a driven.Metrics that records nothing.
type Noop struct{}

func (Noop) ListingFetched(int, int) {}

func (Noop) ItemSkipped(string) {}

func (Noop) ItemResolved() {}

func (Noop) FileDownloaded(bool, int, int64, time.Duration) {}

func (Noop) Flush() error { return nil }
