// Package indicator computes rolling technical indicators over an ordered
// price series. All functions are pure and return ok=false when the series
// is too short; insufficient history is an expected, common condition on a
// freshly started feed, not a fault.
package indicator

import "math"

// emaSeries returns a slice the same length as values with the exponential
// moving average at each index. The EMA is seeded with the simple average
// of the first period values and is NaN before the seed index.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(values) < period {
		return out
	}
	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}
	return out
}

// EMA returns the most recent exponential moving average value.
func EMA(values []float64, period int) (float64, bool) {
	series := emaSeries(values, period)
	if len(series) == 0 {
		return 0, false
	}
	last := series[len(series)-1]
	if math.IsNaN(last) {
		return 0, false
	}
	return last, true
}

// SMA returns the simple trailing mean of the last period values.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// StdDev returns the population standard deviation of the last period values.
func StdDev(values []float64, period int) (float64, bool) {
	mean, ok := SMA(values, period)
	if !ok {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(period)), true
}

// Bands is a Bollinger Bands value for the most recent index.
type Bands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Bollinger computes Bollinger Bands over the trailing period window.
func Bollinger(closes []float64, period int, mult float64) (Bands, bool) {
	mid, ok := SMA(closes, period)
	if !ok {
		return Bands{}, false
	}
	sigma, ok := StdDev(closes, period)
	if !ok {
		return Bands{}, false
	}
	return Bands{
		Upper:  mid + mult*sigma,
		Middle: mid,
		Lower:  mid - mult*sigma,
	}, true
}

// Stochastic is the most recent %K/%D pair.
type Stochastic struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// Stoch computes the stochastic oscillator. %K is defined as 100 when the
// trailing window is flat (highest high equals lowest low). %D is the SMA
// of the last dPeriod %K values, so the series needs kPeriod+dPeriod-1
// samples.
func Stoch(highs, lows, closes []float64, kPeriod, dPeriod int) (Stochastic, bool) {
	n := len(closes)
	if kPeriod <= 0 || dPeriod <= 0 || n < kPeriod+dPeriod-1 {
		return Stochastic{}, false
	}
	if len(highs) != n || len(lows) != n {
		return Stochastic{}, false
	}
	ks := make([]float64, 0, dPeriod)
	for i := n - dPeriod; i < n; i++ {
		ks = append(ks, percentK(highs, lows, closes, i, kPeriod))
	}
	var dSum float64
	for _, k := range ks {
		dSum += k
	}
	return Stochastic{
		K: ks[len(ks)-1],
		D: dSum / float64(dPeriod),
	}, true
}

func percentK(highs, lows, closes []float64, idx, kPeriod int) float64 {
	hi := math.Inf(-1)
	lo := math.Inf(1)
	for i := idx - kPeriod + 1; i <= idx; i++ {
		if highs[i] > hi {
			hi = highs[i]
		}
		if lows[i] < lo {
			lo = lows[i]
		}
	}
	if hi == lo {
		return 100
	}
	return 100 * (closes[idx] - lo) / (hi - lo)
}

// RSI computes the relative strength index with Wilder's smoothing: the
// average gain/loss is initialized over the first period deltas and then
// advanced recursively for the remainder of the series.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACDValue holds the most recent MACD line, signal line and histogram.
type MACDValue struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes MACD(fast, slow, signal). The MACD line exists where both
// EMAs are defined; the signal line is an EMA of those values. Needs at
// least slow+signal samples.
func MACD(closes []float64, fast, slow, signal int) (MACDValue, bool) {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow+signal {
		return MACDValue{}, false
	}
	emaFast := emaSeries(closes, fast)
	emaSlow := emaSeries(closes, slow)

	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		if math.IsNaN(emaFast[i]) || math.IsNaN(emaSlow[i]) {
			continue
		}
		line = append(line, emaFast[i]-emaSlow[i])
	}
	sigSeries := emaSeries(line, signal)
	if len(sigSeries) == 0 {
		return MACDValue{}, false
	}
	sig := sigSeries[len(sigSeries)-1]
	if math.IsNaN(sig) {
		return MACDValue{}, false
	}
	last := line[len(line)-1]
	return MACDValue{
		Line:      last,
		Signal:    sig,
		Histogram: last - sig,
	}, true
}
