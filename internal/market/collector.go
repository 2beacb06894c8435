package market

import (
	"context"
	"sync"
	"time"

	"presage/internal/logger"
)

// Refresh is the result of one market-data refresh tick.
type Refresh struct {
	Tick     *PriceTick // nil when every price source failed
	Features *Features  // nil when the depth source failed or a side was empty
}

// Collector fans out to all configured price sources plus one depth source
// concurrently and aggregates whatever came back. Partial failure is
// tolerated: missing sources are simply excluded from the mean.
type Collector struct {
	prices []PriceSource
	depth  DepthSource
	nowFn  func() time.Time
}

func NewCollector(prices []PriceSource, depth DepthSource) *Collector {
	return &Collector{
		prices: prices,
		depth:  depth,
		nowFn:  time.Now,
	}
}

func (c *Collector) Collect(ctx context.Context) Refresh {
	points := make([]*PricePoint, len(c.prices))
	var book *Book

	var wg sync.WaitGroup
	for i, src := range c.prices {
		wg.Add(1)
		go func(i int, src PriceSource) {
			defer wg.Done()
			p, err := src.Fetch(ctx)
			if err != nil {
				logger.Debugf("price source %s unavailable: %v", src.Name(), err)
				return
			}
			points[i] = &p
		}(i, src)
	}
	if c.depth != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.depth.FetchBook(ctx)
			if err != nil {
				logger.Debugf("depth source %s unavailable: %v", c.depth.Name(), err)
				return
			}
			book = &b
		}()
	}
	wg.Wait()

	out := Refresh{}
	if tick, ok := c.meanTick(points); ok {
		out.Tick = &tick
	}
	if book != nil {
		if feats, ok := ComputeFeatures(*book); ok {
			out.Features = &feats
		}
	}
	return out
}

// Stats reports per-source health, keyed by source name.
func (c *Collector) Stats() map[string]SourceStats {
	out := make(map[string]SourceStats, len(c.prices)+1)
	for _, src := range c.prices {
		out[src.Name()] = src.Stats()
	}
	if c.depth != nil {
		out[c.depth.Name()+"/depth"] = c.depth.Stats()
	}
	return out
}

// meanTick averages the sources that answered. ok=false when none did;
// that refresh tick contributes no price sample.
func (c *Collector) meanTick(points []*PricePoint) (PriceTick, bool) {
	var sumClose, sumHigh, sumLow float64
	n := 0
	for _, p := range points {
		if p == nil {
			continue
		}
		sumClose += p.Close
		sumHigh += p.High
		sumLow += p.Low
		n++
	}
	if n == 0 {
		return PriceTick{}, false
	}
	f := float64(n)
	return PriceTick{
		Timestamp: c.nowFn(),
		Close:     sumClose / f,
		High:      sumHigh / f,
		Low:       sumLow / f,
	}, true
}
