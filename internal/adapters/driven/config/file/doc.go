// Package file provides the TOML-backed ConfigStore.
//
// The store reads ~/.patchsync/config.toml, or config.toml in the directory
// given to NewConfigStore, and exposes nested tables as dot-separated keys
// such as "sync.workers". Writes rewrite the whole file.
package file
