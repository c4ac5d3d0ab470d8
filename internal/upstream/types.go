package upstream

import (
	"context"
	"io"
	"time"
)

// FetchedDocument represents the raw result of a fetch operation.
type FetchedDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
	FetchedAt   time.Time
	Headers     map[string][]string
}

// Fetcher retrieves raw content from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}

// SyncStats summarizes a catalog synchronization run.
type SyncStats struct {
	Sources   int           `json:"sources"`
	Fetched   int           `json:"fetched"`
	Upserted  int           `json:"upserted"`
	Skipped   int           `json:"skipped"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"-"`
	StartedAt time.Time     `json:"started_at"`
}
