// Package kraken polls the Kraken public ticker endpoint.
package kraken

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
	Pair        string
	Endpoints   []string
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Pair == "" {
		c.Pair = "XBTUSD"
	}
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{"https://api.kraken.com"}
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

func (s *Source) Name() string { return "kraken" }

// Fetch reads the public ticker. Kraken nests the result under an
// exchange-specific pair key, so the first entry of "result" is taken.
// Ticker arrays: c=[last,..] h=[today,24h] l=[today,24h].
func (s *Source) Fetch(ctx context.Context) (market.PricePoint, error) {
	s.mu.Lock()
	s.stats.Requests++
	base := s.cfg.Endpoints[s.endpoint]
	s.mu.Unlock()

	url := fmt.Sprintf("%s/0/public/Ticker?pair=%s", base, s.cfg.Pair)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return market.PricePoint{}, err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("kraken ticker: status=%d", resp.StatusCode)
		s.recordFailure(err)
		return market.PricePoint{}, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.recordFailure(err)
		return market.PricePoint{}, err
	}

	doc := gjson.ParseBytes(body)
	if apiErrs := doc.Get("error"); apiErrs.IsArray() && len(apiErrs.Array()) > 0 {
		err := fmt.Errorf("kraken ticker: %s", apiErrs.Array()[0].String())
		s.recordFailure(err)
		return market.PricePoint{}, err
	}

	var ticker gjson.Result
	doc.Get("result").ForEach(func(_, value gjson.Result) bool {
		ticker = value
		return false
	})
	point := market.PricePoint{
		Timestamp: s.nowFn(),
		Close:     ticker.Get("c.0").Float(),
		High:      ticker.Get("h.1").Float(),
		Low:       ticker.Get("l.1").Float(),
	}
	if point.Close <= 0 {
		err := fmt.Errorf("kraken ticker: no price for pair %s", s.cfg.Pair)
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
	logger.Debugf("kraken: rotated to endpoint %s", s.cfg.Endpoints[s.endpoint])
}
