package market

// epsilon guards the zero-volume case so imbalance and weighted mid never
// divide by zero.
const epsilon = 1e-9

// featureDepth is how many levels per side contribute to the volume sums.
const featureDepth = 10

// BookLevel is a single order-book level.
type BookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Book holds the top levels of both sides, best-first.
type Book struct {
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

// Features is the fixed feature vector derived from one book snapshot.
// Replaced wholesale on each refresh; the session keeps the previous
// snapshot as a one-step lookback only.
type Features struct {
	MidPrice    float64 `json:"mid_price"`
	Spread      float64 `json:"spread"`
	BidVolume   float64 `json:"bid_volume"`
	AskVolume   float64 `json:"ask_volume"`
	Imbalance   float64 `json:"imbalance"`
	WeightedMid float64 `json:"weighted_mid"`
}

// ComputeFeatures converts raw levels into the feature vector. Returns
// ok=false when either side is empty; an empty side is an expected
// condition on a degraded feed, not a fault.
func ComputeFeatures(book Book) (Features, bool) {
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return Features{}, false
	}
	bestBid := book.Bids[0].Price
	bestAsk := book.Asks[0].Price

	bidVol := sumQuantities(book.Bids)
	askVol := sumQuantities(book.Asks)
	total := bidVol + askVol + epsilon

	return Features{
		MidPrice:    (bestBid + bestAsk) / 2,
		Spread:      bestAsk - bestBid,
		BidVolume:   bidVol,
		AskVolume:   askVol,
		Imbalance:   (bidVol - askVol) / total,
		WeightedMid: (bestAsk*bidVol + bestBid*askVol) / total,
	}, true
}

func sumQuantities(levels []BookLevel) float64 {
	n := len(levels)
	if n > featureDepth {
		n = featureDepth
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += levels[i].Quantity
	}
	return sum
}
