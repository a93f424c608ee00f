package driven

import (
	"context"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

// CatalogLister produces the full ordered item sequence of a platform.
type CatalogLister interface {
	// List pages through the catalog starting at req.Page.
	// It always returns the listing accumulated so far; a non-nil error
	// means it stopped before the last page and describes why.
	List(ctx context.Context, req domain.PageRequest) (domain.Listing, error)
}

// DetailResolver fetches the full record of one item.
type DetailResolver interface {
	// Resolve returns the item with its Files populated.
	// Failures are not retried.
	Resolve(ctx context.Context, id string) (*domain.CatalogItem, error)
}

// CatalogSource is a remote catalog offering both listing and lookup.
type CatalogSource interface {
	CatalogLister
	DetailResolver
}
