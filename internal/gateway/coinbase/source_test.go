package coinbase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/BTC-USD/stats", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"open":"99000","high":"101000","low":"98000","last":"100500.12","volume":"1234"}`))
	}))
	defer srv.Close()

	s := New(Config{Product: "BTC-USD", Endpoints: []string{srv.URL}})
	point, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100500.12, point.Close, 1e-9)
	assert.InDelta(t, 101000, point.High, 1e-9)
	assert.InDelta(t, 98000, point.Low, 1e-9)
	assert.False(t, point.Timestamp.IsZero())

	stats := s.Stats()
	assert.Equal(t, 1, stats.Requests)
	assert.Equal(t, 0, stats.Failures)
}

func TestFetch_MissingLastPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"NotFound"}`))
	}))
	defer srv.Close()

	s := New(Config{Endpoints: []string{srv.URL}})
	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing last price")
	assert.Equal(t, 1, s.Stats().Failures)
}

func TestFetch_RotatesEndpointOnFailure(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"last":"100","high":"101","low":"99"}`))
	}))
	defer good.Close()

	s := New(Config{Endpoints: []string{bad.URL, good.URL}})

	_, err := s.Fetch(context.Background())
	require.Error(t, err)

	point, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100, point.Close, 1e-9)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Requests)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 1, stats.Rotations)
	assert.Contains(t, stats.LastError, "status=500")
}
