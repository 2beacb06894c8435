package indicator

import "presage/internal/market"

// Default periods used across the feed pipeline.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerMult   = 2.0
	StochKPeriod    = 14
	StochDPeriod    = 3
)

// Snapshot bundles the current value of every tracked indicator. Nil
// fields mean the price history is still too short for that indicator.
type Snapshot struct {
	RSI        *float64    `json:"rsi,omitempty"`
	MACD       *MACDValue  `json:"macd,omitempty"`
	Bollinger  *Bands      `json:"bollinger,omitempty"`
	Stochastic *Stochastic `json:"stochastic,omitempty"`
}

// Compute derives a snapshot from the tick history with the default
// periods. Always succeeds; missing indicators stay nil.
func Compute(ticks []market.PriceTick) Snapshot {
	closes := market.Closes(ticks)
	highs := market.Highs(ticks)
	lows := market.Lows(ticks)

	var snap Snapshot
	if v, ok := RSI(closes, RSIPeriod); ok {
		snap.RSI = &v
	}
	if v, ok := MACD(closes, MACDFast, MACDSlow, MACDSignal); ok {
		snap.MACD = &v
	}
	if v, ok := Bollinger(closes, BollingerPeriod, BollingerMult); ok {
		snap.Bollinger = &v
	}
	if v, ok := Stoch(highs, lows, closes, StochKPeriod, StochDPeriod); ok {
		snap.Stochastic = &v
	}
	return snap
}
