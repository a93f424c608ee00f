package driving

import (
	"context"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

// Exporter renders a platform's catalog as a report file.
type Exporter interface {
	// Export lists the catalog and writes the report to cfg.ReportPath.
	Export(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error)
}

// Engine runs a single pass in the mode selected by the config.
type Engine interface {
	Run(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error)
}
