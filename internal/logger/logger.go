// Package logger provides the log stream for patchsync.
// Progress and failure lines (Info, Warn, Error) are always written;
// Debug and Section output only appears when verbose mode is enabled
// via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints a progress message.
func Info(format string, args ...any) {
	write("[INFO] ", format, args...)
}

// Warn prints a recoverable failure, such as a skipped item.
func Warn(format string, args ...any) {
	write("[WARN] ", format, args...)
}

// Error prints a failure that stopped an operation.
func Error(format string, args ...any) {
	write("[ERROR] ", format, args...)
}

// write holds the lock for the whole line so concurrent workers never
// interleave partial lines.
func write(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
