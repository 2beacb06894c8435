// Package oracle talks to the external prediction service. The service is
// opaque: given a feature snapshot it returns one directional prediction
// per horizon with a confidence and reasoning text.
package oracle

import (
	"context"
	"errors"

	"presage/internal/analysis/indicator"
	"presage/internal/market"
	"presage/internal/predict"
)

// ErrRateLimited distinguishes a rate-limit condition from generic
// failure, so the session can apply its cooldown policy instead of
// retrying on the next cycle. Match with errors.Is.
var ErrRateLimited = errors.New("oracle rate limited")

// Request is the feature snapshot handed to the oracle.
type Request struct {
	Symbol     string
	Prices     []market.PriceTick
	Features   *market.Features
	Indicators indicator.Snapshot
	Accuracy   map[predict.Horizon]predict.AccuracyStats
}

// Oracle returns exactly one prediction per horizon in predict.Horizons.
type Oracle interface {
	Predict(ctx context.Context, req Request) ([]predict.Prediction, error)
}
