package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	stdsync "sync"
	"time"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
)

var errBoom = errors.New("boom")

// mockLister returns a fixed listing.
type mockLister struct {
	listing domain.Listing
	err     error

	mu   stdsync.Mutex
	reqs []domain.PageRequest
}

func (m *mockLister) List(_ context.Context, req domain.PageRequest) (domain.Listing, error) {
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	m.mu.Unlock()
	return m.listing, m.err
}

// mockResolver answers from files by id; ids in missing fail.
type mockResolver struct {
	files   map[string][]domain.FileRef
	missing map[string]bool

	mu    stdsync.Mutex
	order []string
}

func (m *mockResolver) Resolve(_ context.Context, id string) (*domain.CatalogItem, error) {
	m.mu.Lock()
	m.order = append(m.order, id)
	m.mu.Unlock()

	if m.missing[id] {
		return nil, domain.ErrDetailUnavailable
	}
	return &domain.CatalogItem{
		ID:         id,
		Categories: []domain.Term{{Name: "Detail", Slug: "detail-category"}},
		Files:      m.files[id],
	}, nil
}

// mockDownloader records destinations; URLs in fail return an error.
type mockDownloader struct {
	fail  map[string]bool
	delay time.Duration

	mu       stdsync.Mutex
	dests    []string
	inFlight int
	maxSeen  int
}

func (m *mockDownloader) Download(ctx context.Context, url, dest string) (driven.DownloadResult, error) {
	m.mu.Lock()
	m.dests = append(m.dests, dest)
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return driven.DownloadResult{Attempts: 1}, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.fail[url] {
		return driven.DownloadResult{Attempts: 3}, errBoom
	}
	return driven.DownloadResult{Attempts: 1, Bytes: int64(len(url))}, nil
}

func (m *mockDownloader) destinations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dests...)
}

// mockPlacer computes placement paths without touching the disk.
type mockPlacer struct {
	base string
	fail map[string]bool

	mu     stdsync.Mutex
	placed []string
}

func (m *mockPlacer) Place(item domain.CatalogItem) (string, error) {
	if m.fail[item.ID] {
		return "", domain.ErrPlacement
	}
	m.mu.Lock()
	m.placed = append(m.placed, item.ID)
	m.mu.Unlock()
	return domain.PlacementPath(m.base, item), nil
}

// mockMetrics counts calls.
type mockMetrics struct {
	mu       stdsync.Mutex
	pages    int
	listed   int
	resolved int
	skipped  map[string]int
	files    int
	failed   int
	flushed  int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{skipped: make(map[string]int)}
}

func (m *mockMetrics) ListingFetched(pages, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages += pages
	m.listed += items
}

func (m *mockMetrics) ItemSkipped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped[reason]++
}

func (m *mockMetrics) ItemResolved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved++
}

func (m *mockMetrics) FileDownloaded(ok bool, _ int, _ int64, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.files++
	} else {
		m.failed++
	}
}

func (m *mockMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushed++
	return nil
}

// mockRenderer writes one line per item title.
type mockRenderer struct {
	err error
}

func (m *mockRenderer) Render(w io.Writer, items []domain.CatalogItem) error {
	if m.err != nil {
		_, _ = io.WriteString(w, "partial")
		return m.err
	}
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	_, err := io.WriteString(w, strings.Join(titles, "\n"))
	return err
}

func (m *mockRenderer) Extension() string { return ".txt" }

// catalog builds n items "1".."n" in category sound, tag drone.
func catalog(n int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, n)
	for i := 1; i <= n; i++ {
		id := strconv.Itoa(i)
		items = append(items, domain.CatalogItem{
			ID:         id,
			Title:      "Patch " + id,
			Categories: []domain.Term{{Name: "Sound", Slug: "sound"}},
			Tags:       []domain.Term{{Name: "Drone", Slug: "drone"}},
		})
	}
	return items
}

// oneFileEach gives every listed item a single file named {id}.zop.
func oneFileEach(items []domain.CatalogItem) map[string][]domain.FileRef {
	files := make(map[string][]domain.FileRef, len(items))
	for _, it := range items {
		files[it.ID] = []domain.FileRef{{Filename: it.ID + ".zop", DownloadURL: "https://files.example/" + it.ID}}
	}
	return files
}
