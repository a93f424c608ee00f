package services

import "time"

// noopMetrics stands in when no driven.Metrics is configured.
type noopMetrics struct{}

func (noopMetrics) ListingFetched(int, int) {}

func (noopMetrics) ItemSkipped(string) {}

func (noopMetrics) ItemResolved() {}

func (noopMetrics) FileDownloaded(bool, int, int64, time.Duration) {}

func (noopMetrics) Flush() error { return nil }
