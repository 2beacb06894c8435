package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickHistory_EvictsOldest(t *testing.T) {
	h := NewTickHistory(120)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		h.Append(PriceTick{Timestamp: base.Add(time.Duration(i) * time.Second), Close: float64(i)})
	}

	assert.Equal(t, 120, h.Len())
	items := h.Items()
	require.Len(t, items, 120)
	assert.Equal(t, float64(80), items[0].Close, "oldest surviving tick is #80")
	assert.Equal(t, float64(199), items[len(items)-1].Close)
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i].Timestamp.After(items[i-1].Timestamp), "insertion order preserved")
	}
}

func TestTickHistory_Tail(t *testing.T) {
	h := NewTickHistory(10)
	for i := 0; i < 5; i++ {
		h.Append(PriceTick{Close: float64(i)})
	}

	tail := h.Tail(3)
	require.Len(t, tail, 3)
	assert.Equal(t, float64(2), tail[0].Close)
	assert.Equal(t, float64(4), tail[2].Close)

	assert.Len(t, h.Tail(100), 5, "tail is capped at current length")
	assert.Nil(t, h.Tail(0))
}

func TestTickHistory_ItemsIsACopy(t *testing.T) {
	h := NewTickHistory(10)
	h.Append(PriceTick{Close: 1})
	items := h.Items()
	items[0].Close = 99

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, float64(1), last.Close)
}

func TestTickHistory_LastEmpty(t *testing.T) {
	h := NewTickHistory(10)
	_, ok := h.Last()
	assert.False(t, ok)
}
