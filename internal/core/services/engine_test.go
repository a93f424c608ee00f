package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

func TestEngine_DispatchesByMode(t *testing.T) {
	f := newSyncFixture(catalog(1))
	export := NewExportService(f.lister, &mockRenderer{}, nil)
	engine := NewEngine(f.orch, export)

	report, err := engine.Run(context.Background(), downloadConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDownload, report.Mode)
	assert.Equal(t, 1, report.FilesDownloaded)

	path := filepath.Join(t.TempDir(), "patches.txt")
	report, err = engine.Run(context.Background(), reportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, domain.ModeReport, report.Mode)
	assert.FileExists(t, path)
}

func TestEngine_UnsupportedMode(t *testing.T) {
	engine := NewEngine(nil, nil)

	_, err := engine.Run(context.Background(), domain.RunConfig{Mode: "mirror"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedMode)
}
