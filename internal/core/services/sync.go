package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
	"github.com/custodia-labs/patchsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// Skip reasons passed to driven.Metrics.
const (
	SkipDetail    = "detail"
	SkipPlacement = "placement"
	SkipNoFiles   = "no_files"
)

// PlacerFactory returns a Placer rooted at baseDir.
type PlacerFactory func(baseDir string) driven.Placer

// SyncOrchestrator coordinates catalog download runs.
type SyncOrchestrator struct {
	lister     driven.CatalogLister
	resolver   driven.DetailResolver
	downloader driven.Downloader
	newPlacer  PlacerFactory
	metrics    driven.Metrics

	// Status tracking
	mu     sync.RWMutex
	status *driving.SyncStatus
	report *domain.RunReport
}

// NewSyncOrchestrator creates a new sync orchestrator.
// metrics is optional; nil records nothing.
func NewSyncOrchestrator(
	lister driven.CatalogLister,
	resolver driven.DetailResolver,
	downloader driven.Downloader,
	newPlacer PlacerFactory,
	metrics driven.Metrics,
) *SyncOrchestrator {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SyncOrchestrator{
		lister:     lister,
		resolver:   resolver,
		downloader: downloader,
		newPlacer:  newPlacer,
		metrics:    metrics,
	}
}

// Sync lists the catalog and downloads every resolved item's files.
//
// Per-item failures are logged and counted in the report. Only a listing
// that fails before yielding any item fails the run, with
// domain.ErrNoCatalogData. Cancelling ctx stops the run between requests.
func (o *SyncOrchestrator) Sync(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error) {
	cfg.Mode = domain.ModeDownload
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sync config: %w", err)
	}

	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		Mode:      cfg.Mode,
		StartedAt: time.Now(),
	}
	if err := o.begin(report); err != nil {
		return nil, err
	}
	defer o.finish()

	logger.Info("Starting sync %s for platform %d", report.RunID, cfg.PlatformID)

	listing, err := o.lister.List(ctx, pageRequest(cfg))
	report.Pages = listing.Pages
	report.ItemsListed = len(listing.Items)
	o.metrics.ListingFetched(listing.Pages, len(listing.Items))
	o.updateStatus(func(s *driving.SyncStatus) { s.ItemsListed = len(listing.Items) })

	if err != nil {
		if ctx.Err() != nil {
			report.FinishedAt = time.Now()
			return report, ctx.Err()
		}
		if len(listing.Items) == 0 {
			report.FinishedAt = time.Now()
			return report, fmt.Errorf("%w: %w", domain.ErrNoCatalogData, err)
		}
		report.ListingErr = err
		logger.Warn("Listing stopped early, continuing with %d patches: %v", len(listing.Items), err)
	}

	if len(listing.Items) == 0 {
		logger.Info("No patches found for platform %d", cfg.PlatformID)
	}

	placer := o.newPlacer(cfg.OutputDir)
	if cfg.Workers > 1 {
		o.processConcurrently(ctx, placer, listing.Items, cfg.Workers)
	} else {
		for _, item := range listing.Items {
			if ctx.Err() != nil {
				break
			}
			o.processItem(ctx, placer, item)
		}
	}

	o.mu.Lock()
	report.FinishedAt = time.Now()
	o.mu.Unlock()

	if err := o.metrics.Flush(); err != nil {
		logger.Warn("Failed to write metrics: %v", err)
	}

	if ctx.Err() != nil {
		logger.Warn("Sync %s cancelled", report.RunID)
		return report, ctx.Err()
	}

	logger.Info("Sync %s complete: %d patches, %d files downloaded, %d skipped, %d failed",
		report.RunID, report.ItemsListed, report.FilesDownloaded, report.ItemsSkipped, report.FilesFailed)
	return report, nil
}

// Status returns the progress of the active run, or an idle status.
func (o *SyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.status == nil {
		return &driving.SyncStatus{}, nil
	}
	statusCopy := *o.status
	return &statusCopy, nil
}

// processConcurrently runs processItem over items with at most workers in
// flight. Items never fail the group.
func (o *SyncOrchestrator) processConcurrently(
	ctx context.Context,
	placer driven.Placer,
	items []domain.CatalogItem,
	workers int,
) {
	var g errgroup.Group
	g.SetLimit(workers)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o.processItem(ctx, placer, item)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers always return nil
}

// processItem resolves, places and downloads one item.
func (o *SyncOrchestrator) processItem(ctx context.Context, placer driven.Placer, item domain.CatalogItem) {
	defer o.updateStatus(func(s *driving.SyncStatus) { s.ItemsProcessed++ })

	detail, err := o.resolver.Resolve(ctx, item.ID)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Skipping patch %s (%s): details unavailable", item.ID, item.Title)
			o.skip(SkipDetail)
		}
		return
	}
	o.record(func(r *domain.RunReport) { r.ItemsResolved++ })
	o.metrics.ItemResolved()

	// Placement follows the listing's taxonomy; the detail only adds files.
	item.Files = detail.Files
	if !item.HasFiles() {
		logger.Info("Patch %s (%s) has no files", item.ID, item.Title)
		o.metrics.ItemSkipped(SkipNoFiles)
		return
	}

	dir, err := placer.Place(item)
	if err != nil {
		logger.Error("Skipping patch %s: %v", item.ID, err)
		o.skip(SkipPlacement)
		return
	}

	for _, file := range item.Files {
		if ctx.Err() != nil {
			return
		}
		o.downloadFile(ctx, dir, item, file)
	}
}

func (o *SyncOrchestrator) downloadFile(ctx context.Context, dir string, item domain.CatalogItem, file domain.FileRef) {
	name, err := safeFilename(file.Filename)
	if err != nil {
		logger.Warn("Skipping file %q of patch %s: %v", file.Filename, item.ID, err)
		o.fileFailed()
		return
	}

	dest := filepath.Join(dir, name)
	start := time.Now()
	result, err := o.downloader.Download(ctx, file.DownloadURL, dest)
	o.metrics.FileDownloaded(err == nil, result.Attempts, result.Bytes, time.Since(start))

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			o.fileFailed()
		}
		return
	}

	o.record(func(r *domain.RunReport) {
		r.FilesDownloaded++
		r.BytesWritten += result.Bytes
	})
	o.updateStatus(func(s *driving.SyncStatus) { s.FilesDownloaded++ })
}

// safeFilename reduces an API-provided name to a single path element.
func safeFilename(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == ".." {
		return "", domain.ErrInvalidFilename
	}
	return base, nil
}

func pageRequest(cfg domain.RunConfig) domain.PageRequest {
	return domain.PageRequest{
		PlatformID: cfg.PlatformID,
		Page:       1,
		Category:   cfg.Category,
		Tag:        cfg.Tag,
	}
}

func (o *SyncOrchestrator) begin(report *domain.RunReport) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != nil && o.status.Running {
		return domain.ErrSyncInProgress
	}
	o.status = &driving.SyncStatus{RunID: report.RunID, Running: true}
	o.report = report
	return nil
}

func (o *SyncOrchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = nil
	o.report = nil
}

func (o *SyncOrchestrator) skip(reason string) {
	o.record(func(r *domain.RunReport) { r.ItemsSkipped++ })
	o.updateStatus(func(s *driving.SyncStatus) { s.ErrorCount++ })
	o.metrics.ItemSkipped(reason)
}

func (o *SyncOrchestrator) fileFailed() {
	o.record(func(r *domain.RunReport) { r.FilesFailed++ })
	o.updateStatus(func(s *driving.SyncStatus) { s.ErrorCount++ })
}

func (o *SyncOrchestrator) record(fn func(*domain.RunReport)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.report != nil {
		fn(o.report)
	}
}

func (o *SyncOrchestrator) updateStatus(fn func(*driving.SyncStatus)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		fn(o.status)
	}
}
