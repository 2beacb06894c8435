package app

import (
	"time"

	"presage/internal/config"
	"presage/internal/gateway/binance"
	"presage/internal/gateway/coinbase"
	"presage/internal/gateway/kraken"
	"presage/internal/logger"
	"presage/internal/market"
	"presage/internal/oracle"
	"presage/internal/session"
	livehttp "presage/internal/transport/http/live"
)

// ProvideCollector builds the market-data fan-out from the configured
// sources. Binance doubles as the depth source.
func ProvideCollector(cfg *config.Config) *market.Collector {
	bn := binance.New(binance.Config{
		Symbol:      cfg.Sources.Binance.Instrument,
		Endpoints:   cfg.Sources.Binance.Endpoints,
		Depth:       cfg.Market.Depth,
		HTTPTimeout: secondsOr(cfg.Sources.Binance.TimeoutSeconds, 5*time.Second),
	})

	prices := []market.PriceSource{bn}
	if cfg.Sources.Coinbase.Enabled {
		prices = append(prices, coinbase.New(coinbase.Config{
			Product:     cfg.Sources.Coinbase.Instrument,
			Endpoints:   cfg.Sources.Coinbase.Endpoints,
			HTTPTimeout: secondsOr(cfg.Sources.Coinbase.TimeoutSeconds, 5*time.Second),
		}))
	}
	if cfg.Sources.Kraken.Enabled {
		prices = append(prices, kraken.New(kraken.Config{
			Pair:        cfg.Sources.Kraken.Instrument,
			Endpoints:   cfg.Sources.Kraken.Endpoints,
			HTTPTimeout: secondsOr(cfg.Sources.Kraken.TimeoutSeconds, 5*time.Second),
		}))
	}
	logger.Infof("market collector: %d price source(s), depth via binance", len(prices))
	return market.NewCollector(prices, bn)
}

// ProvideOracle returns the configured oracle client, or nil when the
// oracle loop is disabled.
func ProvideOracle(cfg *config.Config) oracle.Oracle {
	if !cfg.Oracle.Enabled {
		return nil
	}
	return oracle.NewClient(oracle.ClientConfig{
		BaseURL: cfg.Oracle.BaseURL,
		APIKey:  cfg.Oracle.APIKey,
		Model:   cfg.Oracle.Model,
		Timeout: secondsOr(cfg.Oracle.TimeoutSeconds, 25*time.Second),
	})
}

func ProvideSession(cfg *config.Config, collector *market.Collector, orc oracle.Oracle) *session.Session {
	return session.New(session.Config{
		Symbol:            cfg.Market.Symbol,
		RefreshInterval:   secondsOr(cfg.Market.RefreshSeconds, 2*time.Second),
		HistorySize:       cfg.Market.HistorySize,
		HeuristicJitter:   secondsOr(cfg.Session.HeuristicJitterSecs, 3*time.Second),
		OracleEnabled:     cfg.Oracle.Enabled,
		OracleInterval:    secondsOr(cfg.Oracle.IntervalSeconds, 30*time.Second),
		OracleWarmup:      secondsOr(cfg.Oracle.WarmupSeconds, 5*time.Second),
		OracleMinHistory:  cfg.Oracle.MinHistory,
		OracleCooldown:    secondsOr(cfg.Oracle.CooldownSeconds, time.Minute),
		OracleHistorySize: cfg.Oracle.HistorySize,
		OutcomeWindow:     cfg.Session.OutcomeWindow,
	}, collector, orc)
}

func ProvideServer(cfg *config.Config, sess *session.Session) (*livehttp.Server, error) {
	return livehttp.NewServer(cfg.App.HTTPAddr, sess)
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
