// Package memory provides an in-memory ConfigStore used as a test double
// by service tests. It is not wired into the patchsync binary; the runtime
// store is the TOML file store in adapters/driven/config/file.
package memory
