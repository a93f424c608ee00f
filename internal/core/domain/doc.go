// Package domain defines the core business entities for patchsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CatalogItem: A listed patch with its taxonomy and file set
//   - Term: A category or tag attached to an item
//   - FileRef: A downloadable file belonging to an item
//   - PageRequest: One page of the catalog listing
//   - RunConfig / Settings: What a run does and how it is tuned
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
