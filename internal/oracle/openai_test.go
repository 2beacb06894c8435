package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presage/internal/market"
	"presage/internal/predict"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func testRequest() Request {
	return Request{
		Symbol: "BTCUSDT",
		Prices: []market.PriceTick{
			{Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), Close: 100},
			{Timestamp: time.Date(2025, 6, 1, 12, 0, 2, 0, time.UTC), Close: 100.5},
		},
		Features: &market.Features{MidPrice: 100.25, Imbalance: 0.2},
	}
}

func TestClient_PredictSuccess(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[1].Content, "BTCUSDT")

		_ = json.NewEncoder(w).Encode(chatCompletion(goodResponse))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "test-model"})
	c.nowFn = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 5, 0, time.UTC) }

	preds, err := c.Predict(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, preds, 3)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, predict.SourceOracle, preds[0].Source)
	assert.InDelta(t, 100.5, preds[0].PriceAtPrediction, 1e-9, "baseline is the latest close")
}

func TestClient_PredictRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	_, err := c.Predict(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestClient_PredictServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded"},
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	_, err := c.Predict(context.Background(), testRequest())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestClient_PredictMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatCompletion("no predictions today"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	_, err := c.Predict(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing oracle response")
}

func TestClient_BaseURLWithFullPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(chatCompletion(goodResponse))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/v1/chat/completions", Model: "test-model"})
	_, err := c.Predict(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "/v1/chat/completions", gotPath, "path is not doubled")
}
