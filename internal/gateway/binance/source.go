// Package binance adapts the Binance spot REST API to the market source
// interfaces. It serves both as a price source (24h ticker statistics) and
// as the order-book depth source.
package binance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"

	"presage/internal/logger"
	"presage/internal/market"
)

// Config describes one Binance source. Endpoints are tried in order; a
// failed request rotates to the next one for the following attempt.
type Config struct {
	Symbol      string
	Endpoints   []string
	Depth       int
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Symbol == "" {
		c.Symbol = "BTCUSDT"
	}
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{
			"https://api.binance.com",
			"https://api1.binance.com",
			"https://api2.binance.com",
		}
	}
	if c.Depth <= 0 {
		c.Depth = 20
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 5 * time.Second
	}
	return c
}

type Source struct {
	cfg    Config
	client *binance.Client
	nowFn  func() time.Time

	mu       sync.Mutex
	endpoint int
	stats    market.SourceStats
}

func New(cfg Config) *Source {
	final := cfg.withDefaults()
	client := binance.NewClient("", "")
	client.BaseURL = final.Endpoints[0]
	client.HTTPClient.Timeout = final.HTTPTimeout
	return &Source{
		cfg:    final,
		client: client,
		nowFn:  time.Now,
	}
}

func (s *Source) Name() string { return "binance" }

func (s *Source) Fetch(ctx context.Context) (market.PricePoint, error) {
	s.beginRequest()
	stats, err := s.client.NewListPriceChangeStatsService().Symbol(s.cfg.Symbol).Do(ctx)
	if err != nil {
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	if len(stats) == 0 {
		err := fmt.Errorf("empty ticker response for %s", s.cfg.Symbol)
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	t := stats[0]
	point := market.PricePoint{
		Timestamp: s.nowFn(),
		Close:     parseDecimal(t.LastPrice),
		High:      parseDecimal(t.HighPrice),
		Low:       parseDecimal(t.LowPrice),
	}
	if point.Close <= 0 {
		err := fmt.Errorf("non-positive last price %q for %s", t.LastPrice, s.cfg.Symbol)
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	return point, nil
}

func (s *Source) FetchBook(ctx context.Context) (market.Book, error) {
	s.beginRequest()
	resp, err := s.client.NewDepthService().Symbol(s.cfg.Symbol).Limit(s.cfg.Depth).Do(ctx)
	if err != nil {
		s.recordFailure(err)
		return market.Book{}, err
	}
	book := market.Book{
		Bids: convertLevels(resp.Bids),
		Asks: convertLevels(resp.Asks),
	}
	return book, nil
}

func (s *Source) Stats() market.SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Source) beginRequest() {
	s.mu.Lock()
	s.stats.Requests++
	s.mu.Unlock()
}

// recordFailure counts the error and rotates to the next endpoint so the
// following request tries an alternate host.
func (s *Source) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Failures++
	s.stats.LastError = err.Error()
	if len(s.cfg.Endpoints) < 2 {
		return
	}
	s.endpoint = (s.endpoint + 1) % len(s.cfg.Endpoints)
	s.client.BaseURL = s.cfg.Endpoints[s.endpoint]
	s.stats.Rotations++
	logger.Debugf("binance: rotated to endpoint %s", s.client.BaseURL)
}

func convertLevels(levels []common.PriceLevel) []market.BookLevel {
	out := make([]market.BookLevel, 0, len(levels))
	for _, l := range levels {
		price := parseDecimal(l.Price)
		qty := parseDecimal(l.Quantity)
		if price <= 0 {
			continue
		}
		out = append(out, market.BookLevel{Price: price, Quantity: qty})
	}
	return out
}

// parseDecimal parses exchange number strings exactly before converting
// to float64; malformed fields become zero and are filtered upstream.
func parseDecimal(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
