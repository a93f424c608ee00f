// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - SyncOrchestrator: list, resolve, place and download
//   - ExportService: list and render a report
//   - Engine: picks one of the above by run mode
//
// Services are pure Go with no CGO.
package services
