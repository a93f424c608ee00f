package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driving"
)

// Ensure Engine implements the interface.
var _ driving.Engine = (*Engine)(nil)

// Engine dispatches a run to the service for its mode.
type Engine struct {
	sync   driving.SyncOrchestrator
	export driving.Exporter
}

// NewEngine creates an engine over the download and report services.
func NewEngine(sync driving.SyncOrchestrator, export driving.Exporter) *Engine {
	return &Engine{sync: sync, export: export}
}

// Run executes one pass in cfg.Mode.
func (e *Engine) Run(ctx context.Context, cfg domain.RunConfig) (*domain.RunReport, error) {
	switch cfg.Mode {
	case domain.ModeDownload:
		return e.sync.Sync(ctx, cfg)
	case domain.ModeReport:
		return e.export.Export(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMode, cfg.Mode)
	}
}
