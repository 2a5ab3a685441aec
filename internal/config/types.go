package config

// Config is the main configuration carrier for Tradify.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Strategy StrategyConfig `mapstructure:"strategy"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
	HTTPAddr string `mapstructure:"http_addr"`
}

type DatabaseConfig struct {
	Path            string `mapstructure:"path"`
	RateHistoryPath string `mapstructure:"rate_history_path"`
}

type AuthConfig struct {
	SessionTTLHours int `mapstructure:"session_ttl_hours"`
	BcryptCost      int `mapstructure:"bcrypt_cost"`
}

// CurrencyConfig drives the display-rate collaborator. The engine itself is
// currency-agnostic; conversion only touches rendered values.
type CurrencyConfig struct {
	BaseCurrency    string  `mapstructure:"base"`
	DisplayCurrency string  `mapstructure:"display"`
	APIKey          string  `mapstructure:"api_key"`
	FallbackRate    float64 `mapstructure:"fallback_rate"`
	CacheTTLMinutes int     `mapstructure:"cache_ttl_minutes"`
}

type StrategyConfig struct {
	PresetsPath string `mapstructure:"presets_path"`
}
