package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedMode indicates an unknown run mode.
	ErrUnsupportedMode = errors.New("unsupported mode")

	// ErrSyncInProgress indicates a run is already active.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrNoCatalogData indicates the listing endpoint produced nothing at all.
	// This is the only condition that fails a whole run.
	ErrNoCatalogData = errors.New("no catalog data obtained")

	// Authentication Errors.

	// ErrAuthRequired indicates no API token is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the remote service rejected the token.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Item Errors.

	// ErrDetailUnavailable indicates an item's detail lookup failed.
	ErrDetailUnavailable = errors.New("item detail unavailable")

	// ErrInvalidFilename indicates a file name that cannot be placed on disk.
	ErrInvalidFilename = errors.New("invalid file name")

	// ErrPlacement indicates the placement directory could not be created.
	ErrPlacement = errors.New("placement failed")
)
