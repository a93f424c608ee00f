package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
	"github.com/custodia-labs/patchsync/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.Exporter = (*ExportService)(nil)

// ExportService writes the listed catalog as a report document.
type ExportService struct {
	lister   driven.CatalogLister
	renderer driven.ReportRenderer
	metrics  driven.Metrics
}

// NewExportService creates a new export service.
func NewExportService(lister driven.CatalogLister, renderer driven.ReportRenderer, metrics driven.Metrics) *ExportService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ExportService{lister: lister, renderer: renderer, metrics: metrics}
}

// Export lists the catalog and renders it to cfg.ReportPath. No detail
// lookups are made. A partial listing is still rendered.
func (s *ExportService) Export(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error) {
	cfg.Mode = domain.ModeReport
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("export config: %w", err)
	}

	report := &domain.RunReport{
		RunID:      uuid.NewString(),
		Mode:       cfg.Mode,
		StartedAt:  time.Now(),
		ReportPath: cfg.ReportPath,
	}
	logger.Info("Starting export %s for platform %d", report.RunID, cfg.PlatformID)

	listing, err := s.lister.List(ctx, pageRequest(cfg))
	report.Pages = listing.Pages
	report.ItemsListed = len(listing.Items)
	s.metrics.ListingFetched(listing.Pages, len(listing.Items))

	if err != nil {
		report.FinishedAt = time.Now()
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if len(listing.Items) == 0 {
			return report, fmt.Errorf("%w: %w", domain.ErrNoCatalogData, err)
		}
		report.ListingErr = err
		logger.Warn("Listing stopped early, exporting %d patches: %v", len(listing.Items), err)
	}

	if err := s.write(cfg.ReportPath, listing.Items); err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}

	report.FinishedAt = time.Now()
	if err := s.metrics.Flush(); err != nil {
		logger.Warn("Failed to write metrics: %v", err)
	}
	logger.Info("Exported %d patches to %s", len(listing.Items), cfg.ReportPath)
	return report, nil
}

// write renders into a temporary file next to path, then renames it over
// path.
func (s *ExportService) write(path string, items []domain.CatalogItem) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".patchsync-*"+s.renderer.Extension())
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := s.renderer.Render(tmp, items); err != nil {
		tmp.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
