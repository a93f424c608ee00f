package driven

import "context"

// DownloadResult describes a finished transfer, successful or not.
type DownloadResult struct {
	// Attempts is the number of requests issued.
	Attempts int

	// Bytes is the size of the file written by the last attempt.
	Bytes int64
}

// Downloader transfers a remote file to a local path.
type Downloader interface {
	// Download writes the body of url to dest. Only transport faults are
	// retried. A partially written dest is not valid unless err is nil.
	Download(ctx context.Context, url, dest string) (DownloadResult, error)
}
