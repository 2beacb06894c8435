package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func level(price, qty float64) BookLevel {
	return BookLevel{Price: price, Quantity: qty}
}

func TestComputeFeatures(t *testing.T) {
	book := Book{
		Bids: []BookLevel{level(99, 2), level(98, 3)},
		Asks: []BookLevel{level(101, 1), level(102, 4)},
	}
	feats, ok := ComputeFeatures(book)
	require.True(t, ok)

	assert.InDelta(t, 100, feats.MidPrice, 1e-9)
	assert.InDelta(t, 2, feats.Spread, 1e-9)
	assert.InDelta(t, 5, feats.BidVolume, 1e-9)
	assert.InDelta(t, 5, feats.AskVolume, 1e-9)
	assert.InDelta(t, 0, feats.Imbalance, 1e-9)
	// (101*5 + 99*5) / 10
	assert.InDelta(t, 100, feats.WeightedMid, 1e-6)
}

func TestComputeFeatures_EmptySideFailsSoft(t *testing.T) {
	_, ok := ComputeFeatures(Book{Asks: []BookLevel{level(101, 1)}})
	assert.False(t, ok)
	_, ok = ComputeFeatures(Book{Bids: []BookLevel{level(99, 1)}})
	assert.False(t, ok)
	_, ok = ComputeFeatures(Book{})
	assert.False(t, ok)
}

func TestComputeFeatures_ZeroVolume(t *testing.T) {
	book := Book{
		Bids: []BookLevel{level(99, 0)},
		Asks: []BookLevel{level(101, 0)},
	}
	feats, ok := ComputeFeatures(book)
	require.True(t, ok)
	assert.InDelta(t, 0, feats.Imbalance, 1e-9)
	assert.False(t, feats.WeightedMid != feats.WeightedMid, "weighted mid must not be NaN")
}

func TestComputeFeatures_TopTenLevelsOnly(t *testing.T) {
	bids := make([]BookLevel, 15)
	asks := make([]BookLevel, 15)
	for i := range bids {
		bids[i] = level(100-float64(i), 1)
		asks[i] = level(101+float64(i), 1)
	}
	feats, ok := ComputeFeatures(Book{Bids: bids, Asks: asks})
	require.True(t, ok)
	assert.InDelta(t, 10, feats.BidVolume, 1e-9)
	assert.InDelta(t, 10, feats.AskVolume, 1e-9)
}

func TestComputeFeatures_ImbalanceSign(t *testing.T) {
	feats, ok := ComputeFeatures(Book{
		Bids: []BookLevel{level(99, 9)},
		Asks: []BookLevel{level(101, 1)},
	})
	require.True(t, ok)
	assert.InDelta(t, 0.8, feats.Imbalance, 1e-6)
	assert.GreaterOrEqual(t, feats.Imbalance, -1.0)
	assert.LessOrEqual(t, feats.Imbalance, 1.0)
}
