package config

import (
	"fmt"
	"strings"
)

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Market.Symbol) == "" {
		return fmt.Errorf("market.symbol is required")
	}
	if !cfg.Sources.Binance.Enabled && !cfg.Sources.Coinbase.Enabled && !cfg.Sources.Kraken.Enabled {
		return fmt.Errorf("at least one price source must be enabled")
	}
	if !cfg.Sources.Binance.Enabled {
		return fmt.Errorf("sources.binance must be enabled: it is the only order-book source")
	}
	if cfg.Oracle.Enabled {
		if strings.TrimSpace(cfg.Oracle.Model) == "" {
			return fmt.Errorf("oracle.model is required when the oracle is enabled")
		}
		if strings.TrimSpace(cfg.Oracle.APIKey) == "" {
			return fmt.Errorf("oracle.api_key (or PRESAGE_ORACLE_API_KEY) is required when the oracle is enabled")
		}
	}
	switch strings.ToLower(cfg.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level %q is not one of debug/info/warn/error", cfg.App.LogLevel)
	}
	return nil
}
