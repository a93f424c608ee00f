package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

func reportConfig(path string) domain.RunConfig {
	return domain.RunConfig{Mode: domain.ModeReport, PlatformID: 154, ReportPath: path}
}

func TestExport_WritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "patches.txt")
	metrics := newMockMetrics()
	lister := &mockLister{listing: domain.Listing{Items: catalog(2), Pages: 1}}
	svc := NewExportService(lister, &mockRenderer{}, metrics)

	report, err := svc.Export(context.Background(), reportConfig(path))

	require.NoError(t, err)
	assert.Equal(t, 2, report.ItemsListed)
	assert.Equal(t, path, report.ReportPath)
	assert.Equal(t, domain.ModeReport, report.Mode)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Patch 1\nPatch 2", string(data))
	assert.Equal(t, 2, metrics.listed)
	assert.Equal(t, 1, metrics.flushed)
}

func TestExport_PartialListingIsRendered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.txt")
	lister := &mockLister{listing: domain.Listing{Items: catalog(1), Pages: 1}, err: errBoom}
	svc := NewExportService(lister, &mockRenderer{}, nil)

	report, err := svc.Export(context.Background(), reportConfig(path))

	require.NoError(t, err)
	assert.ErrorIs(t, report.ListingErr, errBoom)
	assert.FileExists(t, path)
}

func TestExport_NoCatalogData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.txt")
	svc := NewExportService(&mockLister{err: errBoom}, &mockRenderer{}, nil)

	_, err := svc.Export(context.Background(), reportConfig(path))

	assert.ErrorIs(t, err, domain.ErrNoCatalogData)
	assert.NoFileExists(t, path)
}

func TestExport_RenderErrorLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patches.txt")
	svc := NewExportService(&mockLister{listing: domain.Listing{Items: catalog(1)}}, &mockRenderer{err: errBoom}, nil)

	_, err := svc.Export(context.Background(), reportConfig(path))

	assert.ErrorIs(t, err, errBoom)
	assert.NoFileExists(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_ReplacesExistingReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.txt")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))
	svc := NewExportService(&mockLister{listing: domain.Listing{Items: catalog(1)}}, &mockRenderer{}, nil)

	_, err := svc.Export(context.Background(), reportConfig(path))

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Patch 1", string(data))
}

func TestExport_InvalidConfig(t *testing.T) {
	svc := NewExportService(&mockLister{}, &mockRenderer{}, nil)

	_, err := svc.Export(context.Background(), reportConfig(""))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
