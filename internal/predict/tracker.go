package predict

import (
	"time"

	"presage/internal/market"
)

// Outcome pairs a prediction with its scoring state.
type Outcome struct {
	Prediction Prediction `json:"prediction"`
	Status     Status     `json:"status"`
	ResolvedAt time.Time  `json:"resolved_at,omitempty"`
	FinalPrice float64    `json:"final_price,omitempty"`
}

// Tracker keeps a sliding window of outcomes for one prediction source and
// resolves pending ones against realized prices. It is not safe for
// concurrent use; the session serializes access.
type Tracker struct {
	max      int
	outcomes []Outcome
}

func NewTracker(max int) *Tracker {
	if max <= 0 {
		max = 60
	}
	return &Tracker{max: max}
}

// Record appends a new PENDING outcome, evicting the oldest on overflow.
func (t *Tracker) Record(p Prediction) {
	t.outcomes = append(t.outcomes, Outcome{Prediction: p, Status: StatusPending})
	if len(t.outcomes) > t.max {
		t.outcomes = t.outcomes[len(t.outcomes)-t.max:]
	}
}

// Resolve re-scans all outcomes and finalizes any whose horizon has
// elapsed. Terminal outcomes are never re-evaluated. Returns whether any
// outcome changed state, so callers can skip downstream recomputation on
// a no-op pass.
func (t *Tracker) Resolve(now time.Time, history []market.PriceTick) bool {
	if len(history) == 0 {
		return false
	}
	latest := history[len(history)-1].Close
	changed := false
	for i := range t.outcomes {
		o := &t.outcomes[i]
		if o.Status != StatusPending {
			continue
		}
		p := o.Prediction
		if now.Before(p.Timestamp.Add(p.Horizon.Duration())) {
			continue
		}
		if p.Direction == DirectionNeutral {
			o.Status = StatusNeutral
			o.ResolvedAt = now
			changed = true
			continue
		}
		baseline, ok := baselinePrice(p, history)
		if !ok {
			// Not resolvable yet; retried on the next pass.
			continue
		}
		realized := DirectionDown
		if latest > baseline {
			realized = DirectionUp
		}
		if realized == p.Direction {
			o.Status = StatusCorrect
		} else {
			o.Status = StatusIncorrect
		}
		o.ResolvedAt = now
		o.FinalPrice = latest
		changed = true
	}
	return changed
}

// baselinePrice picks the reference price a prediction is scored against.
// Oracle predictions recorded the price at call time. Heuristic ones use
// the earliest history sample at or after the prediction timestamp, which
// avoids look-ahead bias from a much-later baseline.
func baselinePrice(p Prediction, history []market.PriceTick) (float64, bool) {
	if p.Source == SourceOracle && p.PriceAtPrediction > 0 {
		return p.PriceAtPrediction, true
	}
	for _, tick := range history {
		if !tick.Timestamp.Before(p.Timestamp) {
			return tick.Close, true
		}
	}
	return 0, false
}

// Accuracy aggregates completed, directional outcomes for one horizon.
// ok=false means no qualifying outcome exists; callers must treat that as
// "no data", never as 0%.
func (t *Tracker) Accuracy(h Horizon) (AccuracyStats, bool) {
	var stats AccuracyStats
	for _, o := range t.outcomes {
		if o.Prediction.Horizon != h {
			continue
		}
		switch o.Status {
		case StatusCorrect:
			stats.Correct++
			stats.Total++
		case StatusIncorrect:
			stats.Total++
		}
	}
	if stats.Total == 0 {
		return AccuracyStats{}, false
	}
	stats.Accuracy = float64(stats.Correct) / float64(stats.Total)
	return stats, true
}

// AccuracyByHorizon returns stats for every horizon that has data.
func (t *Tracker) AccuracyByHorizon() map[Horizon]AccuracyStats {
	out := make(map[Horizon]AccuracyStats)
	for _, h := range Horizons {
		if stats, ok := t.Accuracy(h); ok {
			out[h] = stats
		}
	}
	return out
}

func (t *Tracker) Len() int {
	return len(t.outcomes)
}

// Outcomes returns a copy of the window, oldest first.
func (t *Tracker) Outcomes() []Outcome {
	out := make([]Outcome, len(t.outcomes))
	copy(out, t.outcomes)
	return out
}

// Pending counts outcomes still awaiting resolution.
func (t *Tracker) Pending() int {
	n := 0
	for _, o := range t.outcomes {
		if o.Status == StatusPending {
			n++
		}
	}
	return n
}
