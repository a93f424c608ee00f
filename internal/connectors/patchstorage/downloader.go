package patchstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
	"github.com/custodia-labs/patchsync/internal/logger"
)

// Ensure Downloader implements the interface.
var _ driven.Downloader = (*Downloader)(nil)

// DownloadOptions tunes the retry policy of a Downloader.
type DownloadOptions struct {
	// MaxAttempts is the total number of requests per file.
	MaxAttempts int

	// Timeout bounds the wait for response headers and every stall
	// between body reads of one attempt.
	Timeout time.Duration

	// Backoff is the fixed pause between attempts.
	Backoff time.Duration

	// ChunkSize is the read buffer size when streaming to disk.
	ChunkSize int
}

// DefaultDownloadOptions returns 3 attempts, a 10s timeout, 2s backoff
// and 1 KiB chunks.
func DefaultDownloadOptions() DownloadOptions {
	return DownloadOptions{
		MaxAttempts: domain.DefaultMaxAttempts,
		Timeout:     domain.DefaultDownloadTimeout,
		Backoff:     domain.DefaultRetryBackoff,
		ChunkSize:   domain.DefaultChunkSize,
	}
}

// DownloadOptionsFromSettings converts sync settings into options.
func DownloadOptionsFromSettings(s domain.SyncSettings) DownloadOptions {
	opts := DefaultDownloadOptions()
	opts.MaxAttempts = s.MaxAttempts
	opts.Timeout = s.DownloadTimeout
	opts.Backoff = s.RetryBackoff
	return opts
}

// Downloader streams files to disk through the client's transport.
type Downloader struct {
	client *Client
	opts   DownloadOptions
}

// NewDownloader creates a downloader sharing the client's transport.
func NewDownloader(client *Client, opts DownloadOptions) *Downloader {
	defaults := DefaultDownloadOptions()
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaults.ChunkSize
	}
	return &Downloader{client: client, opts: opts}
}

// Download writes the body of url to dest.
//
// Only transient transport faults are retried, with a fixed backoff, up
// to MaxAttempts. A non-200 status, a filesystem error or cancellation of
// ctx fails at once. Each attempt truncates dest, so a failed attempt
// leaves a partial file that the next one overwrites.
func (d *Downloader) Download(ctx context.Context, url, dest string) (driven.DownloadResult, error) {
	var result driven.DownloadResult

	for result.Attempts < d.opts.MaxAttempts {
		result.Attempts++
		logger.Info("Downloading %s (attempt %d/%d)", dest, result.Attempts, d.opts.MaxAttempts)

		n, err := d.attempt(ctx, url, dest)
		result.Bytes = n
		if err == nil {
			logger.Info("Downloaded %s (%d bytes)", dest, n)
			return result, nil
		}

		if !IsTransient(err) {
			logger.Warn("Failed to download %s: %v", url, err)
			return result, err
		}

		logger.Warn("Download of %s failed: %v", dest, err)
		if result.Attempts == d.opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(d.opts.Backoff):
		}
	}

	logger.Error("Failed to download %s after %d attempts", dest, result.Attempts)
	return result, fmt.Errorf("%w: %s after %d attempts", ErrRetriesExhausted, dest, result.Attempts)
}

// attempt performs one streaming GET. A watchdog cancels the request if
// headers or the next body chunk take longer than the timeout.
func (d *Downloader) attempt(ctx context.Context, url, dest string) (int64, error) {
	if err := d.client.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timedOut atomic.Bool
	watchdog := time.AfterFunc(d.opts.Timeout, func() {
		timedOut.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.http.Do(req)
	if err != nil {
		return 0, classify(ctx, &timedOut, err)
	}
	defer resp.Body.Close()
	d.client.rateLimiter.UpdateFromResponse(resp)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return 0, &APIError{StatusCode: resp.StatusCode, Message: snippet(body), URL: url}
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	n, err := copyChunks(f, resp.Body, d.opts.ChunkSize, func() {
		watchdog.Reset(d.opts.Timeout)
	})
	closeErr := f.Close()

	var we *writeError
	switch {
	case errors.As(err, &we):
		return n, fmt.Errorf("%w: %w", ErrFilesystem, we.err)
	case err != nil:
		return n, classify(ctx, &timedOut, err)
	case closeErr != nil:
		return n, fmt.Errorf("%w: %w", ErrFilesystem, closeErr)
	}
	return n, nil
}

// classify returns a TransientError for connection resets, refused or
// dropped connections, truncated or corrupt chunked bodies and timeouts.
// Anything else, such as an unsupported scheme, is returned as is.
// The caller's own cancellation wins over both.
func classify(parent context.Context, timedOut *atomic.Bool, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if timedOut.Load() {
		return &TransientError{Err: fmt.Errorf("%w: %w", ErrTimeout, err)}
	}
	if isTransportFault(err) {
		return &TransientError{Err: err}
	}
	return err
}

func isTransportFault(err error) bool {
	switch {
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// net/http does not export its chunked reader errors.
	return strings.Contains(err.Error(), "chunked encoding") ||
		strings.Contains(err.Error(), "chunk length")
}

type writeError struct {
	err error
}

func (e *writeError) Error() string {
	return e.err.Error()
}

// copyChunks streams src to dst in chunkSize reads, skipping empty reads
// and calling onChunk after each non-empty one.
func copyChunks(dst io.Writer, src io.Reader, chunkSize int, onChunk func()) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			onChunk()
			m, err := dst.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, &writeError{err: err}
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
