// Package coinbase polls the Coinbase Exchange REST API for 24h product
// stats.
package coinbase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"presage/internal/logger"
	"presage/internal/market"
)

type Config struct {
	Product     string
	Endpoints   []string
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Product == "" {
		c.Product = "BTC-USD"
	}
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{
			"https://api.exchange.coinbase.com",
			"https://api.pro.coinbase.com",
		}
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 5 * time.Second
	}
	return c
}

type Source struct {
	cfg   Config
	httpc *http.Client
	nowFn func() time.Time

	mu       sync.Mutex
	endpoint int
	stats    market.SourceStats
}

func New(cfg Config) *Source {
	final := cfg.withDefaults()
	return &Source{
		cfg:   final,
		httpc: &http.Client{Timeout: final.HTTPTimeout},
		nowFn: time.Now,
	}
}

func (s *Source) Name() string { return "coinbase" }

func (s *Source) Fetch(ctx context.Context) (market.PricePoint, error) {
	s.mu.Lock()
	s.stats.Requests++
	base := s.cfg.Endpoints[s.endpoint]
	s.mu.Unlock()

	url := fmt.Sprintf("%s/products/%s/stats", base, s.cfg.Product)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return market.PricePoint{}, err
	}
	req.Header.Set("User-Agent", "presage/1.0")

	resp, err := s.httpc.Do(req)
	if err != nil {
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("coinbase stats: status=%d", resp.StatusCode)
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.recordFailure(err)
		return market.PricePoint{}, err
	}

	doc := gjson.ParseBytes(body)
	point := market.PricePoint{
		Timestamp: s.nowFn(),
		Close:     doc.Get("last").Float(),
		High:      doc.Get("high").Float(),
		Low:       doc.Get("low").Float(),
	}
	if point.Close <= 0 {
		err := fmt.Errorf("coinbase stats: missing last price in %q", truncate(body))
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	return point, nil
}

func (s *Source) Stats() market.SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Source) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Failures++
	s.stats.LastError = err.Error()
	if len(s.cfg.Endpoints) < 2 {
		return
	}
	s.endpoint = (s.endpoint + 1) % len(s.cfg.Endpoints)
	s.stats.Rotations++
	logger.Debugf("coinbase: rotated to endpoint %s", s.cfg.Endpoints[s.endpoint])
}

func truncate(b []byte) string {
	const maxLen = 120
	if len(b) > maxLen {
		b = b[:maxLen]
	}
	return string(b)
}
