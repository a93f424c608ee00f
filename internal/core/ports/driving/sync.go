package driving

import (
	"context"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

// SyncOrchestrator downloads a platform's catalog into the placement layout.
type SyncOrchestrator interface {
	// Sync lists, resolves and downloads according to cfg. Per-item
	// failures are counted in the report; only domain.ErrNoCatalogData
	// fails the run.
	Sync(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error)

	// Status returns the progress of the active run.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// RunID identifies the active run. Empty when idle.
	RunID string

	// Running indicates if sync is currently in progress.
	Running bool

	// ItemsListed is the size of the listing being processed.
	ItemsListed int

	// ItemsProcessed counts items that finished, skipped ones included.
	ItemsProcessed int

	// FilesDownloaded counts successful transfers.
	FilesDownloaded int

	// ErrorCount is the number of skipped items and failed files.
	ErrorCount int
}
