// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CatalogLister: Walks the paginated listing endpoint
//   - DetailResolver: Fetches an item's file set
//   - Downloader: Transfers one file to disk with retry
//   - Placer: Creates the category/tag directory for an item
//   - ReportRenderer: Writes the catalog document
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Metrics: Run counters. Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or renderer package
package driven
