package driven

import (
	"io"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

// ReportRenderer writes a catalog document for a listing.
type ReportRenderer interface {
	// Render writes items grouped by first category to w.
	Render(w io.Writer, items []domain.CatalogItem) error

	// Extension returns the file extension of the document, e.g. ".org".
	Extension() string
}
