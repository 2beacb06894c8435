package config

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = ":9985"
	}

	if c.Market.Symbol == "" {
		c.Market.Symbol = "BTCUSDT"
	}
	if c.Market.RefreshSeconds <= 0 {
		c.Market.RefreshSeconds = 2
	}
	if c.Market.Depth <= 0 {
		c.Market.Depth = 20
	}
	if c.Market.HistorySize <= 0 {
		c.Market.HistorySize = 120
	}

	// Binance is the default book+price feed; the others default off so a
	// bare config still runs.
	if c.Sources.Binance.Instrument == "" {
		c.Sources.Binance.Instrument = c.Market.Symbol
		c.Sources.Binance.Enabled = true
	}
	if c.Sources.Coinbase.Instrument == "" {
		c.Sources.Coinbase.Instrument = "BTC-USD"
	}
	if c.Sources.Kraken.Instrument == "" {
		c.Sources.Kraken.Instrument = "XBTUSD"
	}

	// API key may come from the environment instead of the file.
	c.Oracle.APIKey = envOr("PRESAGE_ORACLE_API_KEY", c.Oracle.APIKey)
	if c.Oracle.TimeoutSeconds <= 0 {
		c.Oracle.TimeoutSeconds = 25
	}
	if c.Oracle.IntervalSeconds <= 0 {
		c.Oracle.IntervalSeconds = 30
	}
	if c.Oracle.WarmupSeconds <= 0 {
		c.Oracle.WarmupSeconds = 5
	}
	if c.Oracle.MinHistory <= 0 {
		c.Oracle.MinHistory = 60
	}
	if c.Oracle.CooldownSeconds <= 0 {
		c.Oracle.CooldownSeconds = 60
	}
	if c.Oracle.HistorySize <= 0 {
		c.Oracle.HistorySize = 15
	}

	if c.Session.OutcomeWindow <= 0 {
		c.Session.OutcomeWindow = 60
	}
	if c.Session.HeuristicJitterSecs <= 0 {
		c.Session.HeuristicJitterSecs = 3
	}
}
