package livehttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presage/internal/market"
	"presage/internal/predict"
	"presage/internal/session"
)

type stubProvider struct {
	snap session.Snapshot
}

func (s *stubProvider) Snapshot() session.Snapshot { return s.snap }

func testSnapshot() session.Snapshot {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return session.Snapshot{
		Symbol:  "BTCUSDT",
		Taken:   now,
		Version: 7,
		Prices: []market.PriceTick{
			{Timestamp: now, Close: 100, High: 101, Low: 99},
			{Timestamp: now.Add(2 * time.Second), Close: 100.5, High: 101, Low: 99},
		},
		Heuristic: map[string]predict.Prediction{
			"15s": {ID: "h1", Source: predict.SourceHeuristic, Horizon: predict.Horizon15s, Direction: predict.DirectionUp, Confidence: 0.6, Timestamp: now},
		},
		OracleAccuracy: map[string]predict.AccuracyStats{
			"15s": {Correct: 2, Total: 4, Accuracy: 0.5},
		},
		OracleState: session.OracleState{Enabled: true},
	}
}

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv, err := NewServer(":0", &stubProvider{snap: testSnapshot()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(t, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSnapshotEndpoint(t *testing.T) {
	w := serve(t, "/api/live/snapshot")
	require.Equal(t, http.StatusOK, w.Code)

	var got session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "BTCUSDT", got.Symbol)
	assert.Equal(t, uint64(7), got.Version)
	assert.Len(t, got.Prices, 2)
	assert.Equal(t, predict.DirectionUp, got.Heuristic["15s"].Direction)
}

func TestPredictionsEndpoint(t *testing.T) {
	w := serve(t, "/api/live/predictions")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Heuristic   map[string]predict.Prediction `json:"heuristic"`
		OracleState session.OracleState           `json:"oracle_state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Heuristic, "15s")
	assert.True(t, got.OracleState.Enabled)
}

func TestAccuracyEndpoint(t *testing.T) {
	w := serve(t, "/api/live/accuracy")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Oracle map[string]predict.AccuracyStats `json:"oracle"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 0.5, got.Oracle["15s"].Accuracy, 1e-9)
}

func TestChartEndpoint(t *testing.T) {
	w := serve(t, "/chart")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BTCUSDT")
}

func TestNewServerRequiresProvider(t *testing.T) {
	_, err := NewServer(":0", nil)
	assert.Error(t, err)
}
