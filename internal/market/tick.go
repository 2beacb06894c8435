package market

import "time"

// PriceTick is one aggregated price sample. Immutable once appended to a
// history.
type PriceTick struct {
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
}

// Closes extracts the close series from a tick slice, oldest first.
func Closes(ticks []PriceTick) []float64 {
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = t.Close
	}
	return out
}

// Highs extracts the high series from a tick slice, oldest first.
func Highs(ticks []PriceTick) []float64 {
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = t.High
	}
	return out
}

// Lows extracts the low series from a tick slice, oldest first.
func Lows(ticks []PriceTick) []float64 {
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = t.Low
	}
	return out
}
