package market

import (
	"context"
	"time"
)

// PricePoint is a single quote from one upstream source.
type PricePoint struct {
	Timestamp time.Time
	Close     float64
	High      float64
	Low       float64
}

// SourceStats tracks per-source health for the display layer.
type SourceStats struct {
	Requests  int    `json:"requests"`
	Failures  int    `json:"failures"`
	Rotations int    `json:"rotations"`
	LastError string `json:"last_error,omitempty"`
}

// PriceSource is one upstream price feed. Fetch returns an error when the
// source is unavailable for this tick; the caller excludes it from
// aggregation and the source is expected to rotate to an alternate
// endpoint internally.
type PriceSource interface {
	Name() string
	Fetch(ctx context.Context) (PricePoint, error)
	Stats() SourceStats
}

// DepthSource returns the top order-book levels, best-first.
type DepthSource interface {
	Name() string
	FetchBook(ctx context.Context) (Book, error)
	Stats() SourceStats
}
