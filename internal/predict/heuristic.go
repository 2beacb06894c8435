package predict

import (
	"math"
	"time"

	"github.com/google/uuid"

	"presage/internal/market"
)

// Tuning constants for the heuristic generator. The asymmetric
// price-momentum penalty (-0.2 vs +0.1) is deliberate: contradicting
// momentum is punished harder than confirming momentum rewards.
const (
	imbalanceThreshold   = 0.05
	imbalanceMultiplier  = 1.5
	imbalanceDeltaMin    = 0.01
	imbalanceMomentumAdj = 0.15
	priceDeltaMin        = 0.1
	priceAgreeBonus      = 0.1
	priceDisagreeMalus   = 0.2
	neutralFloor         = 0.3
	maxConfidence        = 0.95
	accuracyMinSamples   = 5
	accuracyWeight       = 0.1
)

// HeuristicInputs is everything one heuristic invocation sees. Prev and
// Accuracy may be nil when no lookback snapshot or no completed sample
// exists yet.
type HeuristicInputs struct {
	Horizon     Horizon
	Features    market.Features
	Prev        *market.Features
	PriceChange float64
	Accuracy    *AccuracyStats
}

// Heuristic produces a short-horizon directional prediction from
// order-book pressure, momentum and live accuracy feedback. It is a pure
// function and always yields a value; insufficient inputs degrade to
// NEUTRAL with zero confidence.
func Heuristic(now time.Time, in HeuristicInputs) Prediction {
	imb := in.Features.Imbalance

	direction := DirectionNeutral
	switch {
	case imb > imbalanceThreshold:
		direction = DirectionUp
	case imb < -imbalanceThreshold:
		direction = DirectionDown
	}
	confidence := math.Abs(imb) * imbalanceMultiplier

	if direction != DirectionNeutral {
		confidence += imbalanceMomentum(direction, in)
		confidence += priceMomentum(direction, in.PriceChange)
	}

	// Low-conviction signals are suppressed rather than reported as
	// directional.
	if confidence < neutralFloor {
		direction = DirectionNeutral
	}
	confidence = clamp(confidence, 0, maxConfidence)

	confidence -= in.Horizon.decay()
	if acc := in.Accuracy; acc != nil && acc.Total > accuracyMinSamples {
		confidence += (acc.Accuracy - 0.5) * accuracyWeight
	}
	confidence = clamp(confidence, 0, maxConfidence)

	return Prediction{
		ID:         uuid.NewString(),
		Source:     SourceHeuristic,
		Horizon:    in.Horizon,
		Direction:  direction,
		Confidence: confidence,
		Timestamp:  now,
	}
}

// imbalanceMomentum rewards an imbalance delta that agrees in sign with
// the base direction and penalizes one that disagrees, once its magnitude
// clears the noise floor.
func imbalanceMomentum(direction Direction, in HeuristicInputs) float64 {
	if in.Prev == nil {
		return 0
	}
	delta := in.Features.Imbalance - in.Prev.Imbalance
	if math.Abs(delta) <= imbalanceDeltaMin {
		return 0
	}
	if agrees(direction, delta) {
		return imbalanceMomentumAdj
	}
	return -imbalanceMomentumAdj
}

func priceMomentum(direction Direction, priceChange float64) float64 {
	if math.Abs(priceChange) <= priceDeltaMin {
		return 0
	}
	if agrees(direction, priceChange) {
		return priceAgreeBonus
	}
	return -priceDisagreeMalus
}

func agrees(direction Direction, delta float64) bool {
	if direction == DirectionUp {
		return delta > 0
	}
	return delta < 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
