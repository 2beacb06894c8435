package kraken

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickerBody = `{
  "error": [],
  "result": {
    "XXBTZUSD": {
      "a": ["100600.1", "1", "1.000"],
      "b": ["100599.9", "2", "2.000"],
      "c": ["100600.0", "0.015"],
      "h": ["100900.0", "101200.0"],
      "l": ["99800.0", "99500.0"]
    }
  }
}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0/public/Ticker", r.URL.Path)
		assert.Equal(t, "XBTUSD", r.URL.Query().Get("pair"))
		_, _ = w.Write([]byte(tickerBody))
	}))
	defer srv.Close()

	s := New(Config{Pair: "XBTUSD", Endpoints: []string{srv.URL}})
	point, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100600.0, point.Close, 1e-9)
	assert.InDelta(t, 101200.0, point.High, 1e-9, "24h high, not today's")
	assert.InDelta(t, 99500.0, point.Low, 1e-9)
}

func TestFetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":["EQuery:Unknown asset pair"],"result":{}}`))
	}))
	defer srv.Close()

	s := New(Config{Endpoints: []string{srv.URL}})
	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown asset pair")
	assert.Equal(t, 1, s.Stats().Failures)
}

func TestFetch_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":[],"result":{}}`))
	}))
	defer srv.Close()

	s := New(Config{Pair: "XBTUSD", Endpoints: []string{srv.URL}})
	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no price")
}

func TestFetch_HTTPErrorCountsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(Config{Endpoints: []string{srv.URL}})
	_, err := s.Fetch(context.Background())
	require.Error(t, err)

	stats := s.Stats()
	assert.Equal(t, 1, stats.Requests)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 0, stats.Rotations, "single endpoint never rotates")
}
