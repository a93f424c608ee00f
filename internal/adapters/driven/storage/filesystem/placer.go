package filesystem

import (
	"fmt"
	"os"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
)

// Ensure Placer implements the interface.
var _ driven.Placer = (*Placer)(nil)

// Placer creates the taxonomy directory for each item under a base directory.
type Placer struct {
	baseDir string
}

// NewPlacer creates a placer rooted at baseDir.
func NewPlacer(baseDir string) *Placer {
	return &Placer{baseDir: baseDir}
}

// BaseDir returns the root of the placement tree.
func (p *Placer) BaseDir() string {
	return p.baseDir
}

// Place ensures the item's directory exists and returns its path.
// An item without categories or tags lands under the fallback slugs.
func (p *Placer) Place(item domain.CatalogItem) (string, error) {
	dir := domain.PlacementPath(p.baseDir, item)

	// MkdirAll tolerates concurrent creation of the same tree.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrPlacement, dir, err)
	}
	return dir, nil
}
