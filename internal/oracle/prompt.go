package oracle

import (
	"fmt"
	"strings"

	"presage/internal/predict"
)

const systemPrompt = `You are a short-horizon crypto price direction forecaster.
You receive recent price samples, an order-book feature snapshot, technical
indicators and your own live accuracy record per horizon. Respond with ONLY a
JSON array, one object per horizon (15s, 30s, 60s):
[{"timeframe":"15s","direction":"UP","confidence":0.62,"reasoning":"..."}]
direction must be UP or DOWN, confidence a number between 0 and 1.
Be less confident on horizons where your recorded accuracy is below 0.5.`

// BuildPrompts renders the request into the system/user message pair.
func BuildPrompts(req Request) (string, string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Symbol: %s\n\n", req.Symbol)

	if n := len(req.Prices); n > 0 {
		first := req.Prices[0]
		last := req.Prices[n-1]
		change := last.Close - first.Close
		fmt.Fprintf(&b, "Price samples: %d (1 per ~2s)\n", n)
		fmt.Fprintf(&b, "First: %.4f  Latest: %.4f  Change: %+.4f\n", first.Close, last.Close, change)
		fmt.Fprintf(&b, "Recent closes: %s\n\n", formatCloses(req))
	}

	if f := req.Features; f != nil {
		b.WriteString("Order book:\n")
		fmt.Fprintf(&b, "  mid=%.4f spread=%.4f\n", f.MidPrice, f.Spread)
		fmt.Fprintf(&b, "  bid_vol=%.4f ask_vol=%.4f imbalance=%+.4f weighted_mid=%.4f\n\n",
			f.BidVolume, f.AskVolume, f.Imbalance, f.WeightedMid)
	}

	ind := req.Indicators
	b.WriteString("Indicators:\n")
	if ind.RSI != nil {
		fmt.Fprintf(&b, "  RSI(14)=%.2f\n", *ind.RSI)
	}
	if ind.MACD != nil {
		fmt.Fprintf(&b, "  MACD=%.4f signal=%.4f hist=%+.4f\n", ind.MACD.Line, ind.MACD.Signal, ind.MACD.Histogram)
	}
	if ind.Bollinger != nil {
		fmt.Fprintf(&b, "  Bollinger upper=%.4f mid=%.4f lower=%.4f\n", ind.Bollinger.Upper, ind.Bollinger.Middle, ind.Bollinger.Lower)
	}
	if ind.Stochastic != nil {
		fmt.Fprintf(&b, "  Stoch %%K=%.2f %%D=%.2f\n", ind.Stochastic.K, ind.Stochastic.D)
	}
	b.WriteString("\n")

	b.WriteString("Your live accuracy per horizon:\n")
	for _, h := range predict.Horizons {
		if stats, ok := req.Accuracy[h]; ok {
			fmt.Fprintf(&b, "  %s: %.0f%% (%d/%d)\n", h, stats.Accuracy*100, stats.Correct, stats.Total)
		} else {
			fmt.Fprintf(&b, "  %s: no data\n", h)
		}
	}

	b.WriteString("\nPredict the direction for each horizon now.")
	return systemPrompt, b.String()
}

// formatCloses keeps the prompt bounded: at most the last 20 closes.
func formatCloses(req Request) string {
	const maxShown = 20
	prices := req.Prices
	if len(prices) > maxShown {
		prices = prices[len(prices)-maxShown:]
	}
	parts := make([]string, len(prices))
	for i, t := range prices {
		parts[i] = fmt.Sprintf("%.4f", t.Close)
	}
	return strings.Join(parts, " ")
}
