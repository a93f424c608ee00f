// Package patchstorage implements the catalog ports against the
// Patchstorage REST API.
//
// A single Client carries the transport configuration shared by every
// request: the bearer token (via golang.org/x/oauth2), the User-Agent
// the service requires, the JSON Accept header and an optional token
// bucket throttle. The Client is built once and never mutated.
//
// # Endpoints
//
//   - GET /patches?platforms=&page=&per_page=[&categories=][&tags=]
//   - GET /patches/{id}
//   - GET <file url> (streamed by Downloader)
//
// # Failure Policy
//
// Listing stops at the first failed page and keeps what it has.
// Detail lookups are never retried. Downloads retry transport faults
// only; HTTP error statuses fail immediately.
package patchstorage
