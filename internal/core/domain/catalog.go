package domain

import "path/filepath"

// Fallback directory names used when an item has no category or tag.
const (
	UncategorizedSlug = "uncategorized"
	UntaggedSlug      = "untagged"

	// UncategorizedName is the report heading for items without a category.
	UncategorizedName = "Uncategorized"
)

// CatalogItem is one patch listed by the remote catalog.
// Items are immutable once fetched; Files is only populated after
// detail resolution.
type CatalogItem struct {
	// ID is the opaque identifier assigned by the remote service.
	ID string

	// Title is the display title.
	Title string

	// AuthorName is the display name of the uploader.
	AuthorName string

	// Excerpt is the short description. It may contain HTML.
	Excerpt string

	// URL is the public page of the patch.
	URL string

	// Categories in the order the API returned them. May be empty.
	Categories []Term

	// Tags in the order the API returned them. May be empty.
	Tags []Term

	// Files is empty until the detail lookup succeeds.
	Files []FileRef
}

// Term is a category or a tag.
type Term struct {
	// Name is the display form.
	Name string

	// Slug is the lowercase URL-safe form provided by the API.
	Slug string
}

// FileRef is a downloadable file of a catalog item.
type FileRef struct {
	Filename    string
	DownloadURL string
}

// CategorySlug returns the slug of the first category, or UncategorizedSlug.
func (i CatalogItem) CategorySlug() string {
	if len(i.Categories) == 0 {
		return UncategorizedSlug
	}
	return pathSegment(i.Categories[0].Slug, UncategorizedSlug)
}

// TagSlug returns the slug of the first tag, or UntaggedSlug.
func (i CatalogItem) TagSlug() string {
	if len(i.Tags) == 0 {
		return UntaggedSlug
	}
	return pathSegment(i.Tags[0].Slug, UntaggedSlug)
}

// pathSegment keeps a slug to a single directory name.
func pathSegment(slug, fallback string) string {
	seg := filepath.Base(filepath.Clean("/" + slug))
	if seg == "/" || seg == "." || seg == ".." || seg == "" {
		return fallback
	}
	return seg
}

// CategoryName returns the header form of the first category name,
// or UncategorizedName.
func (i CatalogItem) CategoryName() string {
	if len(i.Categories) == 0 {
		return UncategorizedName
	}
	return SanitizeHeader(i.Categories[0].Name)
}

// HasFiles reports whether detail resolution produced any files.
func (i CatalogItem) HasFiles() bool {
	return len(i.Files) > 0
}

// PlacementPath returns {baseDir}/{category slug}/{tag slug} for the item.
// It is a pure function of the first category and first tag.
func PlacementPath(baseDir string, item CatalogItem) string {
	return filepath.Join(baseDir, item.CategorySlug(), item.TagSlug())
}

// PageRequest describes one request against the listing endpoint.
// It is owned by a single List call and never shared.
type PageRequest struct {
	PlatformID int
	Page       int
	PerPage    int
	Category   string
	Tag        string
}

// Next returns the request for the following page.
func (p PageRequest) Next() PageRequest {
	p.Page++
	return p
}

// IsLastPage reports whether a page of n items ends the listing.
// The API exposes no total count, so a short page is the only signal.
func (p PageRequest) IsLastPage(n int) bool {
	return n < p.PerPage
}

// Listing is the result of walking the listing endpoint.
type Listing struct {
	// Items in the order the API returned them.
	Items []CatalogItem

	// Pages is the number of pages fetched successfully.
	Pages int
}
