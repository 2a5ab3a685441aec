package config

import "strings"

const (
	defaultAppEnv          = "dev"
	defaultAppLogLevel     = "info"
	defaultAppHTTPAddr     = ":8990"
	defaultDatabasePath    = "data/tradify.db"
	defaultRateHistoryPath = "data/rates.db"
	defaultSessionTTLHours = 24 * 7
	defaultBcryptCost      = 12
	defaultBaseCurrency    = "USD"
	defaultDisplayCurrency = "IDR"
	defaultFallbackRate    = 16000
	defaultRateCacheTTL    = 60
	defaultPresetsPath     = "configs/strategies.yaml"
)

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = defaultAppEnv
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		c.App.HTTPAddr = defaultAppHTTPAddr
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	if strings.TrimSpace(c.Database.RateHistoryPath) == "" {
		c.Database.RateHistoryPath = defaultRateHistoryPath
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = defaultSessionTTLHours
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = defaultBcryptCost
	}
	if strings.TrimSpace(c.Currency.BaseCurrency) == "" {
		c.Currency.BaseCurrency = defaultBaseCurrency
	}
	if strings.TrimSpace(c.Currency.DisplayCurrency) == "" {
		c.Currency.DisplayCurrency = defaultDisplayCurrency
	}
	if c.Currency.FallbackRate <= 0 {
		c.Currency.FallbackRate = defaultFallbackRate
	}
	if c.Currency.CacheTTLMinutes <= 0 {
		c.Currency.CacheTTLMinutes = defaultRateCacheTTL
	}
	if strings.TrimSpace(c.Strategy.PresetsPath) == "" {
		c.Strategy.PresetsPath = defaultPresetsPath
	}
	c.Currency.BaseCurrency = strings.ToUpper(c.Currency.BaseCurrency)
	c.Currency.DisplayCurrency = strings.ToUpper(c.Currency.DisplayCurrency)
}
