package config

// Config is the main configuration carrier.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Market  MarketConfig  `yaml:"market"`
	Sources SourcesConfig `yaml:"sources"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Session SessionConfig `yaml:"session"`
}

type AppConfig struct {
	Env        string `yaml:"env"`
	LogLevel   string `yaml:"log_level"`
	HTTPAddr   string `yaml:"http_addr"`
	LogPath    string `yaml:"log_path"`
	OracleLog  string `yaml:"oracle_log_path"`
	OracleDump bool   `yaml:"oracle_dump_payload"`
}

type MarketConfig struct {
	Symbol         string `yaml:"symbol"`
	RefreshSeconds int    `yaml:"refresh_seconds"`
	Depth          int    `yaml:"depth"`
	HistorySize    int    `yaml:"history_size"`
}

type SourcesConfig struct {
	Binance  SourceConfig `yaml:"binance"`
	Coinbase SourceConfig `yaml:"coinbase"`
	Kraken   SourceConfig `yaml:"kraken"`
}

// SourceConfig describes one upstream feed. Instrument is the
// exchange-native symbol/product/pair; endpoints are rotated on failure.
type SourceConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Instrument     string   `yaml:"instrument"`
	Endpoints      []string `yaml:"endpoints"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type OracleConfig struct {
	Enabled         bool   `yaml:"enabled"`
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	WarmupSeconds   int    `yaml:"warmup_seconds"`
	MinHistory      int    `yaml:"min_history"`
	CooldownSeconds int    `yaml:"cooldown_seconds"`
	HistorySize     int    `yaml:"history_size"`
}

type SessionConfig struct {
	OutcomeWindow       int `yaml:"outcome_window"`
	HeuristicJitterSecs int `yaml:"heuristic_jitter_seconds"`
}
