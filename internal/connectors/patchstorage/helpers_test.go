package patchstorage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/patchsync/internal/logger"
)

// syncBuffer is a bytes.Buffer safe for the logger and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	logger.SetOutput(buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return buf
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{BaseURL: baseURL, Token: "test-token", PerPage: 100})
	require.NoError(t, err)
	return c
}

func newTransportClient(t *testing.T, rt http.RoundTripper) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		BaseURL:   "http://patchstorage.invalid/api/beta",
		Token:     "test-token",
		Transport: rt,
	})
	require.NoError(t, err)
	return c
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// pageJSON builds a listing page of n patches with ids starting at first.
func pageJSON(first, n int) []byte {
	page := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		id := first + i
		page = append(page, map[string]any{
			"id":      id,
			"title":   fmt.Sprintf("Patch %d", id),
			"excerpt": "<p>An excerpt</p>",
			"url":     "https://patchstorage.com/patch-" + strconv.Itoa(id),
			"author":  map[string]any{"name": "author"},
			"categories": []map[string]any{
				{"name": "Sound", "slug": "sound"},
			},
			"tags": []map[string]any{
				{"name": "Drone", "slug": "drone"},
			},
		})
	}
	data, _ := json.Marshal(page)
	return data
}
