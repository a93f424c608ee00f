package patchstorage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/logger"
)

// List walks the listing endpoint from req.Page until a short page.
//
// The API exposes no total count, so a page holding fewer than
// PerPage entries is the only end-of-listing signal. A final page of
// exactly PerPage entries costs one more request that returns none.
//
// On any other stop (HTTP error, malformed or mis-shaped body, transport
// fault, cancellation) the cause is logged and returned together with
// everything fetched so far. Nothing is retried here.
func (c *Client) List(ctx context.Context, req domain.PageRequest) (domain.Listing, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage <= 0 {
		req.PerPage = c.cfg.PerPage
	}

	var listing domain.Listing
	for {
		select {
		case <-ctx.Done():
			logger.Warn("Listing cancelled at page %d", req.Page)
			return listing, ctx.Err()
		default:
		}

		items, err := c.fetchPage(ctx, req)
		if err != nil {
			logListingStop(req, err)
			return listing, fmt.Errorf("list page %d: %w", req.Page, err)
		}

		listing.Items = append(listing.Items, items...)
		listing.Pages++
		logger.Debug("Fetched page %d: %d items (%d total)", req.Page, len(items), len(listing.Items))

		if req.IsLastPage(len(items)) {
			return listing, nil
		}
		req = req.Next()
	}
}

func (c *Client) fetchPage(ctx context.Context, req domain.PageRequest) ([]domain.CatalogItem, error) {
	body, err := c.getJSON(ctx, c.listURL(req))
	if err != nil {
		return nil, err
	}

	var page []patch
	if err := decodeArray(body, &page); err != nil {
		return nil, err
	}

	items := make([]domain.CatalogItem, 0, len(page))
	for _, p := range page {
		items = append(items, p.toDomain())
	}
	return items, nil
}

func (c *Client) listURL(req domain.PageRequest) string {
	params := url.Values{}
	params.Set("platforms", strconv.Itoa(req.PlatformID))
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("per_page", strconv.Itoa(req.PerPage))
	if req.Category != "" {
		params.Set("categories", req.Category)
	}
	if req.Tag != "" {
		params.Set("tags", req.Tag)
	}
	return c.endpoint("/patches") + "?" + params.Encode()
}

func logListingStop(req domain.PageRequest, err error) {
	var apiErr *APIError
	var shapeErr *ShapeError

	switch {
	case IsForbidden(err):
		logger.Error("Listing page %d forbidden (status 403): check %s", req.Page, domain.TokenEnvVar)
	case errors.As(err, &apiErr):
		logger.Error("Listing page %d returned status %d from %s: %s",
			req.Page, apiErr.StatusCode, apiErr.URL, apiErr.Message)
	case errors.As(err, &shapeErr):
		logger.Error("Listing page %d: %v", req.Page, shapeErr)
	default:
		logger.Error("Listing page %d request failed: %v", req.Page, err)
	}
}
