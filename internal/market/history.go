package market

// TickHistory is an append-only sliding window of price ticks. Oldest
// entries are evicted once the capacity is exceeded; insertion order is
// preserved.
type TickHistory struct {
	max   int
	ticks []PriceTick
}

func NewTickHistory(max int) *TickHistory {
	if max <= 0 {
		max = 120
	}
	return &TickHistory{max: max}
}

func (h *TickHistory) Append(t PriceTick) {
	h.ticks = append(h.ticks, t)
	if len(h.ticks) > h.max {
		h.ticks = h.ticks[len(h.ticks)-h.max:]
	}
}

func (h *TickHistory) Len() int {
	return len(h.ticks)
}

// Items returns a copy so callers can never observe a mid-append mutation.
func (h *TickHistory) Items() []PriceTick {
	out := make([]PriceTick, len(h.ticks))
	copy(out, h.ticks)
	return out
}

// Tail returns a copy of at most n most recent ticks, oldest first.
func (h *TickHistory) Tail(n int) []PriceTick {
	if n <= 0 || len(h.ticks) == 0 {
		return nil
	}
	if n > len(h.ticks) {
		n = len(h.ticks)
	}
	out := make([]PriceTick, n)
	copy(out, h.ticks[len(h.ticks)-n:])
	return out
}

func (h *TickHistory) Last() (PriceTick, bool) {
	if len(h.ticks) == 0 {
		return PriceTick{}, false
	}
	return h.ticks[len(h.ticks)-1], true
}
