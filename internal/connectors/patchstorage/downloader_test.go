package patchstorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

func fastOptions(attempts int) DownloadOptions {
	return DownloadOptions{
		MaxAttempts: attempts,
		Timeout:     time.Second,
		Backoff:     time.Millisecond,
		ChunkSize:   4,
	}
}

func TestDownload_WritesContent(t *testing.T) {
	captureLogs(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("patch-bytes-0123456789"))
	}))
	defer server.Close()
	d := NewDownloader(newTestClient(t, server.URL), fastOptions(3))
	dest := filepath.Join(t.TempDir(), "a.zop")

	result, err := d.Download(context.Background(), server.URL+"/a.zop", dest)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, int64(22), result.Bytes)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "patch-bytes-0123456789", string(got))
}

func TestDownload_NotFoundFailsWithoutRetry(t *testing.T) {
	logs := captureLogs(t)
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		http.NotFound(w, nil)
	}))
	defer server.Close()
	d := NewDownloader(newTestClient(t, server.URL), fastOptions(3))
	dest := filepath.Join(t.TempDir(), "missing.zop")

	result, err := d.Download(context.Background(), server.URL+"/missing.zop", dest)

	assert.True(t, IsNotFound(err))
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, int32(1), requests.Load())
	assert.NoFileExists(t, dest)
	assert.Contains(t, logs.String(), "Failed to download")
}

func TestDownload_RetriesTransientFaults(t *testing.T) {
	logs := captureLogs(t)
	var calls atomic.Int32
	client := newTransportClient(t, roundTripperFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, syscall.ECONNRESET
	}))
	d := NewDownloader(client, fastOptions(3))
	dest := filepath.Join(t.TempDir(), "flaky.zop")

	result, err := d.Download(context.Background(), "http://files.invalid/flaky.zop", dest)

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, logs.String(), "after 3 attempts")
}

// failingBody yields some bytes then a connection error.
type failingBody struct {
	data []byte
	read bool
}

func (b *failingBody) Read(p []byte) (int, error) {
	if b.read {
		return 0, io.ErrUnexpectedEOF
	}
	b.read = true
	return copy(p, b.data), nil
}

func (b *failingBody) Close() error { return nil }

func TestDownload_RetryOverwritesPartialFile(t *testing.T) {
	captureLogs(t)
	var calls atomic.Int32
	client := newTransportClient(t, roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		var body io.ReadCloser
		if calls.Add(1) == 1 {
			body = &failingBody{data: []byte("PARTIAL-GARBAGE")}
		} else {
			body = io.NopCloser(bytes.NewReader([]byte("complete")))
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       body,
			Request:    req,
		}, nil
	}))
	d := NewDownloader(client, fastOptions(3))
	dest := filepath.Join(t.TempDir(), "resume.zop")

	result, err := d.Download(context.Background(), "http://files.invalid/resume.zop", dest)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "complete", string(got))
}

func TestDownload_StallTimesOut(t *testing.T) {
	logs := captureLogs(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("head"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()
	opts := fastOptions(1)
	opts.Timeout = 50 * time.Millisecond
	d := NewDownloader(newTestClient(t, server.URL), opts)
	dest := filepath.Join(t.TempDir(), "stall.zop")

	result, err := d.Download(context.Background(), server.URL+"/stall.zop", dest)

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, result.Attempts)
	assert.Contains(t, logs.String(), "timed out")
}

func TestDownload_MissingDirectoryIsNotRetried(t *testing.T) {
	captureLogs(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer server.Close()
	d := NewDownloader(newTestClient(t, server.URL), fastOptions(3))
	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "a.zop")

	result, err := d.Download(context.Background(), server.URL+"/a.zop", dest)

	assert.ErrorIs(t, err, ErrFilesystem)
	assert.Equal(t, 1, result.Attempts)
}

func TestDownload_CancelledContext(t *testing.T) {
	captureLogs(t)
	client := newTransportClient(t, roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("should not be called")
	}))
	d := NewDownloader(client, fastOptions(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.Download(ctx, "http://files.invalid/a.zop", filepath.Join(t.TempDir(), "a.zop"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Attempts)
}

func TestNewDownloader_AppliesDefaults(t *testing.T) {
	d := NewDownloader(newTestClient(t, "http://127.0.0.1:1"), DownloadOptions{Backoff: -time.Second})

	assert.Equal(t, domain.DefaultMaxAttempts, d.opts.MaxAttempts)
	assert.Equal(t, domain.DefaultDownloadTimeout, d.opts.Timeout)
	assert.Equal(t, time.Duration(0), d.opts.Backoff)
	assert.Equal(t, domain.DefaultChunkSize, d.opts.ChunkSize)
}

func TestDownloadOptionsFromSettings(t *testing.T) {
	opts := DownloadOptionsFromSettings(domain.SyncSettings{
		MaxAttempts:     5,
		DownloadTimeout: 3 * time.Second,
		RetryBackoff:    time.Second,
	})

	assert.Equal(t, 5, opts.MaxAttempts)
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, time.Second, opts.Backoff)
	assert.Equal(t, domain.DefaultChunkSize, opts.ChunkSize)
}

// stutterReader interleaves empty reads with data.
type stutterReader struct {
	chunks [][]byte
}

func (r *stutterReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	c := r.chunks[0]
	r.chunks = r.chunks[1:]
	return copy(p, c), nil
}

func TestCopyChunks_SkipsEmptyReads(t *testing.T) {
	src := &stutterReader{chunks: [][]byte{[]byte("ab"), {}, []byte("cd"), {}}}
	var dst bytes.Buffer
	calls := 0

	n, err := copyChunks(&dst, src, 8, func() { calls++ })

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "abcd", dst.String())
	assert.Equal(t, 2, calls)
}

func TestDownload_UnsupportedSchemeIsNotRetried(t *testing.T) {
	captureLogs(t)
	d := NewDownloader(newTestClient(t, "http://patchstorage.invalid"), fastOptions(3))
	dest := filepath.Join(t.TempDir(), "f.zop")

	result, err := d.Download(context.Background(), "ftp://example.com/f", dest)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.False(t, IsTransient(err))
	assert.Equal(t, 1, result.Attempts)
}

func TestDownload_RedirectToOtherHostDropsToken(t *testing.T) {
	captureLogs(t)
	var cdnAuth atomic.Value
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cdnAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer cdn.Close()

	var apiAuth atomic.Value
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiAuth.Store(r.Header.Get("Authorization"))
		http.Redirect(w, r, cdn.URL+"/files/f.zop", http.StatusFound)
	}))
	defer api.Close()

	d := NewDownloader(newTestClient(t, api.URL), fastOptions(1))
	dest := filepath.Join(t.TempDir(), "f.zop")

	_, err := d.Download(context.Background(), api.URL+"/download/f.zop", dest)

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", apiAuth.Load())
	assert.Equal(t, "", cdnAuth.Load())
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestDownload_RedirectOnSameHostKeepsToken(t *testing.T) {
	captureLogs(t)
	var finalAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old.zop" {
			http.Redirect(w, r, "/new.zop", http.StatusMovedPermanently)
			return
		}
		finalAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	d := NewDownloader(newTestClient(t, server.URL), fastOptions(1))

	_, err := d.Download(context.Background(), server.URL+"/old.zop", filepath.Join(t.TempDir(), "f.zop"))

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", finalAuth.Load())
}

func TestIsTransportFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "reset", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: true},
		{name: "refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: true},
		{name: "truncated body", err: io.ErrUnexpectedEOF, want: true},
		{name: "corrupt chunk", err: errors.New("malformed chunked encoding"), want: true},
		{name: "timeout", err: &url.Error{Op: "Get", URL: "http://x", Err: os.ErrDeadlineExceeded}, want: true},
		{name: "unsupported scheme", err: &url.Error{Op: "Get", URL: "ftp://x", Err: errors.New(`unsupported protocol scheme "ftp"`)}, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransportFault(tt.err))
		})
	}
}
