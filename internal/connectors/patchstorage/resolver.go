package patchstorage

import (
	"context"
	"fmt"
	"net/url"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/logger"
)

// Resolve fetches the detail record of one item, including its files.
// Failures are logged with the id and returned; they are not retried.
func (c *Client) Resolve(ctx context.Context, id string) (*domain.CatalogItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty item id", domain.ErrInvalidInput)
	}

	body, err := c.getJSON(ctx, c.endpoint("/patches/"+url.PathEscape(id)))
	if err != nil {
		logger.Warn("Failed to fetch patch details for ID %s: %v", id, err)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDetailUnavailable, id, err)
	}

	var p patch
	if err := decodeObject(body, &p); err != nil {
		logger.Warn("Failed to decode patch details for ID %s: %v", id, err)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDetailUnavailable, id, err)
	}

	item := p.toDomain()
	if item.ID == "" {
		item.ID = id
	}
	logger.Debug("Resolved patch %s: %d files", id, len(item.Files))
	return &item, nil
}
