package app

import (
	"fmt"
	"strings"

	trcfg "tradify/internal/config"
	"tradify/internal/strategy"
)

// StartupSummary is printed once at boot so an operator can see what the
// process was actually configured with.
type StartupSummary struct {
	Env             string
	HTTPAddr        string
	DatabasePath    string
	RateHistoryPath string
	CurrencyPair    string
	FallbackRate    float64
	SessionTTLHours int
	PresetNames     []string
}

func newStartupSummary(cfg *trcfg.Config, addr string, presets *strategy.Registry) *StartupSummary {
	s := &StartupSummary{
		Env:             cfg.App.Env,
		HTTPAddr:        addr,
		DatabasePath:    cfg.Database.Path,
		RateHistoryPath: cfg.Database.RateHistoryPath,
		CurrencyPair:    fmt.Sprintf("%s/%s", cfg.Currency.BaseCurrency, cfg.Currency.DisplayCurrency),
		FallbackRate:    cfg.Currency.FallbackRate,
		SessionTTLHours: cfg.Auth.SessionTTLHours,
	}
	if presets != nil {
		for _, p := range presets.Presets() {
			s.PresetNames = append(s.PresetNames, p.Name)
		}
	}
	return s
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("TRADIFY STARTUP SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[SERVER]")
	fmt.Printf("  env:       %s\n", s.Env)
	fmt.Printf("  listen:    %s\n", s.HTTPAddr)
	fmt.Println()

	fmt.Println("[STORAGE]")
	fmt.Printf("  journal db:      %s\n", s.DatabasePath)
	fmt.Printf("  rate history db: %s\n", valueOrDash(s.RateHistoryPath))
	fmt.Println()

	fmt.Println("[CURRENCY]")
	fmt.Printf("  pair:     %s\n", s.CurrencyPair)
	fmt.Printf("  fallback: %.2f\n", s.FallbackRate)
	fmt.Println()

	fmt.Println("[AUTH]")
	fmt.Printf("  session ttl: %dh\n", s.SessionTTLHours)
	fmt.Println()

	fmt.Println("[STRATEGY PRESETS]")
	fmt.Printf("  %s\n", valueOrDash(strings.Join(s.PresetNames, ", ")))
	fmt.Println(strings.Repeat("=", 80))
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
