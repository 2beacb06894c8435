package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
  log_level: debug
  http_addr: ":8080"
market:
  symbol: ETHUSDT
  refresh_seconds: 3
sources:
  binance:
    enabled: true
    instrument: ETHUSDT
  kraken:
    enabled: true
    instrument: ETHUSD
oracle:
  enabled: true
  model: gpt-4o-mini
  api_key: sk-abcd1234
  interval_seconds: 45
session:
  outcome_window: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "ETHUSDT", cfg.Market.Symbol)
	assert.Equal(t, 3, cfg.Market.RefreshSeconds)
	assert.True(t, cfg.Sources.Kraken.Enabled)
	assert.False(t, cfg.Sources.Coinbase.Enabled)
	assert.Equal(t, 45, cfg.Oracle.IntervalSeconds)
	assert.Equal(t, 30, cfg.Session.OutcomeWindow)
}

func TestLoad_DefaultsFill(t *testing.T) {
	path := writeConfig(t, `
market:
  symbol: BTCUSDT
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":9985", cfg.App.HTTPAddr)
	assert.Equal(t, 2, cfg.Market.RefreshSeconds)
	assert.Equal(t, 120, cfg.Market.HistorySize)
	assert.True(t, cfg.Sources.Binance.Enabled, "binance defaults on")
	assert.Equal(t, "BTCUSDT", cfg.Sources.Binance.Instrument)
	assert.Equal(t, 60, cfg.Oracle.MinHistory)
	assert.Equal(t, 60, cfg.Oracle.CooldownSeconds)
	assert.Equal(t, 15, cfg.Oracle.HistorySize)
	assert.Equal(t, 60, cfg.Session.OutcomeWindow)
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	t.Setenv("PRESAGE_ORACLE_API_KEY", "sk-from-env")
	path := writeConfig(t, `
oracle:
  enabled: true
  model: gpt-4o-mini
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Oracle.APIKey)
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]struct {
		yaml    string
		wantErr string
	}{
		"no source enabled": {
			yaml: `
sources:
  binance:
    enabled: false
    instrument: BTCUSDT
`,
			wantErr: "at least one price source",
		},
		"binance disabled": {
			yaml: `
sources:
  binance:
    enabled: false
    instrument: BTCUSDT
  kraken:
    enabled: true
`,
			wantErr: "sources.binance must be enabled",
		},
		"oracle without key": {
			yaml: `
oracle:
  enabled: true
  model: gpt-4o-mini
`,
			wantErr: "oracle.api_key",
		},
		"oracle without model": {
			yaml: `
oracle:
  enabled: true
  api_key: sk-test
`,
			wantErr: "oracle.model",
		},
		"bad log level": {
			yaml: `
app:
  log_level: verbose
`,
			wantErr: "log_level",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PRESAGE_ORACLE_API_KEY", "")
			_, err := Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("  ")
	assert.Error(t, err)
}

func TestSummary_MasksAPIKey(t *testing.T) {
	cfg := &Config{}
	cfg.Oracle.APIKey = "sk-secret-abcd"
	out := cfg.Summary()
	assert.NotContains(t, out, "sk-secret-abcd")
	assert.Contains(t, out, "****abcd")
}
