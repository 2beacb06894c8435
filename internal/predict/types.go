package predict

import (
	"fmt"
	"time"
)

// Direction is the predicted price direction over a horizon.
type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
)

// Status is the lifecycle state of a tracked prediction. A PENDING outcome
// transitions exactly once to a terminal status and never reverts.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCorrect   Status = "CORRECT"
	StatusIncorrect Status = "INCORRECT"
	StatusNeutral   Status = "NEUTRAL"
)

// Source tells which generator produced a prediction. Oracle and heuristic
// predictions are scored against separate accuracy windows.
type Source string

const (
	SourceOracle    Source = "oracle"
	SourceHeuristic Source = "heuristic"
)

// Horizon is the future offset a prediction targets.
type Horizon time.Duration

const (
	Horizon5s  = Horizon(5 * time.Second)
	Horizon15s = Horizon(15 * time.Second)
	Horizon30s = Horizon(30 * time.Second)
	Horizon60s = Horizon(60 * time.Second)
)

// Horizons the heuristic loops run on. The oracle is asked for the same
// set; 5s exists only as a display countdown.
var Horizons = []Horizon{Horizon15s, Horizon30s, Horizon60s}

func (h Horizon) Duration() time.Duration {
	return time.Duration(h)
}

func (h Horizon) String() string {
	return fmt.Sprintf("%ds", int(time.Duration(h)/time.Second))
}

// ParseHorizon parses the wire form ("15s", "30s", "60s", "5s").
func ParseHorizon(s string) (Horizon, bool) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return Horizon(d), true
}

func (h Horizon) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

func (h *Horizon) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, ok := ParseHorizon(s)
	if !ok {
		return fmt.Errorf("invalid horizon %q", s)
	}
	*h = parsed
	return nil
}

// decay is the fixed confidence penalty for longer horizons: order-book
// signals carry less information the further out the target is.
func (h Horizon) decay() float64 {
	switch h {
	case Horizon30s:
		return 0.05
	case Horizon60s:
		return 0.1
	default:
		return 0
	}
}

// Prediction is one directional call. Oracle-sourced predictions also
// carry reasoning text and the price observed when the call was made.
type Prediction struct {
	ID                string    `json:"id"`
	Source            Source    `json:"source"`
	Horizon           Horizon   `json:"horizon"`
	Direction         Direction `json:"direction"`
	Confidence        float64   `json:"confidence"`
	Reasoning         string    `json:"reasoning,omitempty"`
	PriceAtPrediction float64   `json:"price_at_prediction,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// AccuracyStats is a per-horizon aggregate over completed, directional
// outcomes. Derived on demand, never stored.
type AccuracyStats struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}
