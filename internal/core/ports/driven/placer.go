package driven

import "github.com/custodia-labs/patchsync/internal/core/domain"

// Placer maps an item to its directory and makes sure it exists.
type Placer interface {
	// Place returns the item's placement directory after creating it.
	// Calling it again for the same item is a no-op.
	Place(item domain.CatalogItem) (string, error)
}
