package session

import (
	"time"

	"presage/internal/analysis/indicator"
	"presage/internal/market"
	"presage/internal/predict"
)

// OracleState is the user-visible state of the oracle loop.
type OracleState struct {
	Enabled       bool      `json:"enabled"`
	InFlight      bool      `json:"in_flight"`
	Degraded      bool      `json:"degraded"`
	CooldownUntil time.Time `json:"cooldown_until,omitzero"`
	LastError     string    `json:"last_error,omitempty"`
}

// Snapshot is a read-only view of the session handed to the display
// layer. Every slice and map is a copy; mutating a snapshot never touches
// session state.
type Snapshot struct {
	Symbol            string                           `json:"symbol"`
	Taken             time.Time                        `json:"taken"`
	Version           uint64                           `json:"version"`
	Prices            []market.PriceTick               `json:"prices"`
	Features          *market.Features                 `json:"features,omitempty"`
	Indicators        indicator.Snapshot               `json:"indicators"`
	Heuristic         map[string]predict.Prediction    `json:"heuristic"`
	Oracle            []predict.Prediction             `json:"oracle"`
	OracleHistory     []predict.Prediction             `json:"oracle_history"`
	OracleOutcomes    []predict.Outcome                `json:"oracle_outcomes"`
	HeuristicOutcomes []predict.Outcome                `json:"heuristic_outcomes"`
	OracleAccuracy    map[string]predict.AccuracyStats `json:"oracle_accuracy"`
	HeuristicAccuracy map[string]predict.AccuracyStats `json:"heuristic_accuracy"`
	OracleState       OracleState                      `json:"oracle_state"`
	Sources           map[string]market.SourceStats    `json:"sources"`
}

func accuracyByName(t *predict.Tracker) map[string]predict.AccuracyStats {
	out := make(map[string]predict.AccuracyStats)
	for h, stats := range t.AccuracyByHorizon() {
		out[h.String()] = stats
	}
	return out
}
