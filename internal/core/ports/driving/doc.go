// Package driving defines the interfaces that the outside world calls INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI uses these interfaces; core services implement them.
//
//   - Engine: Runs one configured pass in download or report mode
//   - SyncOrchestrator: Download mode, with progress status
//   - Exporter: Report mode
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
